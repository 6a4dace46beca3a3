package moderation

import (
	"context"
	"testing"
	"time"

	"cinescope/proj/internal/domain/models"
	"cinescope/proj/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWordStorage struct {
	words  map[int64]*models.BannedWord
	nextID int64
}

func newFakeWordStorage() *fakeWordStorage {
	return &fakeWordStorage{words: make(map[int64]*models.BannedWord), nextID: 1}
}

func (f *fakeWordStorage) ListAll(ctx context.Context) ([]models.BannedWord, error) {
	var out []models.BannedWord
	for _, w := range f.words {
		out = append(out, *w)
	}
	return out, nil
}

func (f *fakeWordStorage) ListByCategory(ctx context.Context, category string) ([]models.BannedWord, error) {
	var out []models.BannedWord
	for _, w := range f.words {
		if w.Category == category {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (f *fakeWordStorage) Get(ctx context.Context, id int64) (*models.BannedWord, error) {
	w, ok := f.words[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *w
	return &out, nil
}

func (f *fakeWordStorage) Insert(ctx context.Context, word *models.BannedWord) (*models.BannedWord, error) {
	for _, w := range f.words {
		if w.Word == word.Word {
			return nil, storage.ErrConflict
		}
	}
	stored := *word
	stored.ID = f.nextID
	f.nextID++
	f.words[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (f *fakeWordStorage) Update(ctx context.Context, word *models.BannedWord) (*models.BannedWord, error) {
	if _, ok := f.words[word.ID]; !ok {
		return nil, storage.ErrNotFound
	}
	for _, w := range f.words {
		if w.ID != word.ID && w.Word == word.Word {
			return nil, storage.ErrConflict
		}
	}
	stored := *word
	f.words[word.ID] = &stored
	out := stored
	return &out, nil
}

func (f *fakeWordStorage) Delete(ctx context.Context, id int64) error {
	if _, ok := f.words[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.words, id)
	return nil
}

func newTestWordService(t *testing.T) (*WordService, *Cache) {
	t.Helper()
	fake := newFakeWordStorage()
	cache := NewCache(testLogger(), fake, time.Hour)
	return NewWordService(testLogger(), fake, cache), cache
}

func TestWordService(t *testing.T) {
	ctx := context.Background()
	t.Run("add lowercases and becomes visible immediately", func(t *testing.T) {
		svc, cache := newTestWordService(t)
		_, err := cache.Snapshot(ctx)
		require.NoError(t, err)
		added, err := svc.Add(ctx, "  SPOILER ", "spoilers", 2, true)
		require.NoError(t, err)
		assert.Equal(t, "spoiler", added.Word)
		_, ok, err := cache.Lookup(ctx, "Spoiler")
		require.NoError(t, err)
		assert.True(t, ok)
	})
	t.Run("add empty word", func(t *testing.T) {
		svc, _ := newTestWordService(t)
		_, err := svc.Add(ctx, "   ", "misc", 1, true)
		assert.ErrorIs(t, err, ErrEmptyWord)
	})
	t.Run("add duplicate", func(t *testing.T) {
		svc, _ := newTestWordService(t)
		_, err := svc.Add(ctx, "spoiler", "spoilers", 2, true)
		require.NoError(t, err)
		_, err = svc.Add(ctx, "SPOILER", "spoilers", 5, true)
		assert.ErrorIs(t, err, ErrWordAlreadyExists)
	})
	t.Run("deactivating via update stops matching", func(t *testing.T) {
		svc, cache := newTestWordService(t)
		_, err := cache.Snapshot(ctx)
		require.NoError(t, err)
		added, err := svc.Add(ctx, "spoiler", "spoilers", 2, true)
		require.NoError(t, err)
		_, err = svc.Update(ctx, added.ID, added.Word, added.Category, added.Severity, false)
		require.NoError(t, err)
		_, ok, err := cache.Lookup(ctx, "spoiler")
		require.NoError(t, err)
		assert.False(t, ok)
	})
	t.Run("update rejects an empty word", func(t *testing.T) {
		svc, _ := newTestWordService(t)
		added, err := svc.Add(ctx, "spoiler", "spoilers", 2, true)
		require.NoError(t, err)
		_, err = svc.Update(ctx, added.ID, "   ", added.Category, added.Severity, true)
		assert.ErrorIs(t, err, ErrEmptyWord)
	})
	t.Run("remove drops the word from the cache", func(t *testing.T) {
		svc, cache := newTestWordService(t)
		_, err := cache.Snapshot(ctx)
		require.NoError(t, err)
		added, err := svc.Add(ctx, "spoiler", "spoilers", 2, true)
		require.NoError(t, err)
		require.NoError(t, svc.Remove(ctx, added.ID))
		_, ok, err := cache.Lookup(ctx, "spoiler")
		require.NoError(t, err)
		assert.False(t, ok)
	})
	t.Run("remove unknown word", func(t *testing.T) {
		svc, _ := newTestWordService(t)
		assert.ErrorIs(t, svc.Remove(ctx, 42), ErrWordNotFound)
	})
	t.Run("list filters by category", func(t *testing.T) {
		svc, _ := newTestWordService(t)
		_, err := svc.Add(ctx, "spoiler", "spoilers", 2, true)
		require.NoError(t, err)
		_, err = svc.Add(ctx, "trash", "insults", 3, true)
		require.NoError(t, err)
		all, err := svc.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)
		insults, err := svc.List(ctx, "insults")
		require.NoError(t, err)
		require.Len(t, insults, 1)
		assert.Equal(t, "trash", insults[0].Word)
	})
}
