package moderation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"cinescope/proj/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWordLister struct {
	mu    sync.Mutex
	words []models.BannedWord
	err   error
	calls int
}

func (f *fakeWordLister) ListAll(ctx context.Context) ([]models.BannedWord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.BannedWord, len(f.words))
	copy(out, f.words)
	return out, nil
}

func (f *fakeWordLister) set(words []models.BannedWord, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.words = words
	f.err = err
}

func (f *fakeWordLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCacheSnapshot(t *testing.T) {
	ctx := context.Background()
	t.Run("cold start failure returns ErrUnavailable", func(t *testing.T) {
		lister := &fakeWordLister{err: errors.New("db down")}
		cache := NewCache(testLogger(), lister, time.Minute)
		_, err := cache.Snapshot(ctx)
		assert.ErrorIs(t, err, ErrUnavailable)
	})
	t.Run("loads active words lowercased", func(t *testing.T) {
		lister := &fakeWordLister{words: []models.BannedWord{
			{ID: 1, Word: "spoiler", Severity: 2, IsActive: true},
			{ID: 2, Word: "disabled", Severity: 5, IsActive: false},
		}}
		cache := NewCache(testLogger(), lister, time.Minute)
		entries, err := cache.Snapshot(ctx)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
		_, ok := entries["spoiler"]
		assert.True(t, ok)
	})
	t.Run("serves cached snapshot within ttl", func(t *testing.T) {
		lister := &fakeWordLister{words: []models.BannedWord{
			{ID: 1, Word: "spoiler", Severity: 2, IsActive: true},
		}}
		cache := NewCache(testLogger(), lister, time.Minute)
		_, err := cache.Snapshot(ctx)
		require.NoError(t, err)
		_, err = cache.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, lister.callCount())
	})
	t.Run("refreshes after ttl", func(t *testing.T) {
		lister := &fakeWordLister{words: []models.BannedWord{
			{ID: 1, Word: "spoiler", Severity: 2, IsActive: true},
		}}
		cache := NewCache(testLogger(), lister, 10*time.Millisecond)
		_, err := cache.Snapshot(ctx)
		require.NoError(t, err)
		lister.set([]models.BannedWord{
			{ID: 2, Word: "leak", Severity: 3, IsActive: true},
		}, nil)
		time.Sleep(20 * time.Millisecond)
		entries, err := cache.Snapshot(ctx)
		require.NoError(t, err)
		_, ok := entries["leak"]
		assert.True(t, ok)
		_, ok = entries["spoiler"]
		assert.False(t, ok)
	})
	t.Run("serves stale snapshot when refresh fails", func(t *testing.T) {
		lister := &fakeWordLister{words: []models.BannedWord{
			{ID: 1, Word: "spoiler", Severity: 2, IsActive: true},
		}}
		cache := NewCache(testLogger(), lister, 10*time.Millisecond)
		_, err := cache.Snapshot(ctx)
		require.NoError(t, err)
		lister.set(nil, errors.New("db down"))
		time.Sleep(20 * time.Millisecond)
		entries, err := cache.Snapshot(ctx)
		require.NoError(t, err)
		_, ok := entries["spoiler"]
		assert.True(t, ok)
	})
}

func TestCachePatchHooks(t *testing.T) {
	ctx := context.Background()
	newLoadedCache := func(t *testing.T) (*Cache, *fakeWordLister) {
		t.Helper()
		lister := &fakeWordLister{words: []models.BannedWord{
			{ID: 1, Word: "spoiler", Severity: 2, IsActive: true},
		}}
		cache := NewCache(testLogger(), lister, time.Hour)
		_, err := cache.Snapshot(ctx)
		require.NoError(t, err)
		return cache, lister
	}
	t.Run("added word visible before next refresh", func(t *testing.T) {
		cache, lister := newLoadedCache(t)
		cache.OnWordAdded(models.BannedWord{ID: 2, Word: "Leak", Severity: 3, IsActive: true})
		entry, ok, err := cache.Lookup(ctx, "leak")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 3, entry.Severity)
		assert.Equal(t, 1, lister.callCount())
	})
	t.Run("update with renamed word drops the old key", func(t *testing.T) {
		cache, _ := newLoadedCache(t)
		cache.OnWordUpdated("spoiler", models.BannedWord{ID: 1, Word: "spoilers", Severity: 2, IsActive: true})
		_, ok, err := cache.Lookup(ctx, "spoiler")
		require.NoError(t, err)
		assert.False(t, ok)
		_, ok, err = cache.Lookup(ctx, "spoilers")
		require.NoError(t, err)
		assert.True(t, ok)
	})
	t.Run("deactivated word stops matching", func(t *testing.T) {
		cache, _ := newLoadedCache(t)
		cache.OnWordUpdated("spoiler", models.BannedWord{ID: 1, Word: "spoiler", Severity: 2, IsActive: false})
		_, ok, err := cache.Lookup(ctx, "spoiler")
		require.NoError(t, err)
		assert.False(t, ok)
	})
	t.Run("removed word dropped immediately", func(t *testing.T) {
		cache, _ := newLoadedCache(t)
		cache.OnWordRemoved("spoiler")
		_, ok, err := cache.Lookup(ctx, "spoiler")
		require.NoError(t, err)
		assert.False(t, ok)
	})
	t.Run("patch before first load is a no-op", func(t *testing.T) {
		lister := &fakeWordLister{err: errors.New("db down")}
		cache := NewCache(testLogger(), lister, time.Hour)
		cache.OnWordAdded(models.BannedWord{ID: 1, Word: "spoiler", Severity: 2, IsActive: true})
		_, err := cache.Snapshot(ctx)
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestCacheConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	lister := &fakeWordLister{words: []models.BannedWord{
		{ID: 1, Word: "spoiler", Severity: 2, IsActive: true},
	}}
	cache := NewCache(testLogger(), lister, time.Nanosecond)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _, err := cache.Lookup(ctx, "spoiler")
				assert.NoError(t, err)
				cache.OnWordAdded(models.BannedWord{ID: 2, Word: "leak", Severity: 1, IsActive: true})
			}
		}()
	}
	wg.Wait()
}
