package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"cinescope/proj/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, words []models.BannedWord) *Engine {
	t.Helper()
	cache := NewCache(testLogger(), &fakeWordLister{words: words}, time.Hour)
	return NewEngine(testLogger(), cache)
}

func TestEngineEvaluate(t *testing.T) {
	ctx := context.Background()
	dictionary := []models.BannedWord{
		{ID: 1, Word: "garbage", Severity: 2, IsActive: true},
		{ID: 2, Word: "trash", Severity: 3, IsActive: true},
		{ID: 3, Word: "ass", Severity: 6, IsActive: true},
	}
	t.Run("clean text approved", func(t *testing.T) {
		engine := newTestEngine(t, dictionary)
		res, err := engine.Evaluate(ctx, "A wonderful movie, the best this year!")
		require.NoError(t, err)
		assert.True(t, res.IsApproved)
		assert.Empty(t, res.ViolationWords)
		assert.Zero(t, res.SeverityScore)
	})
	t.Run("flags whole tokens only", func(t *testing.T) {
		engine := newTestEngine(t, dictionary)
		res, err := engine.Evaluate(ctx, "A classy movie for the whole class")
		require.NoError(t, err)
		assert.True(t, res.IsApproved, "banned word embedded in a longer token must not flag")
	})
	t.Run("match ignores casing but keeps original in violations", func(t *testing.T) {
		engine := newTestEngine(t, dictionary)
		res, err := engine.Evaluate(ctx, "This movie is GARBAGE")
		require.NoError(t, err)
		assert.False(t, res.IsApproved)
		assert.Equal(t, []string{"GARBAGE"}, res.ViolationWords)
		assert.Equal(t, 2, res.SeverityScore)
	})
	t.Run("punctuation stripped before matching", func(t *testing.T) {
		engine := newTestEngine(t, dictionary)
		res, err := engine.Evaluate(ctx, "Total (garbage)! Just trash...")
		require.NoError(t, err)
		assert.False(t, res.IsApproved)
		assert.Equal(t, []string{"garbage", "trash"}, res.ViolationWords)
		assert.Equal(t, 5, res.SeverityScore)
	})
	t.Run("duplicates counted every time", func(t *testing.T) {
		engine := newTestEngine(t, dictionary)
		res, err := engine.Evaluate(ctx, "trash, trash, trash")
		require.NoError(t, err)
		assert.Equal(t, []string{"trash", "trash", "trash"}, res.ViolationWords)
		assert.Equal(t, 9, res.SeverityScore)
	})
	t.Run("empty text approved", func(t *testing.T) {
		engine := newTestEngine(t, dictionary)
		res, err := engine.Evaluate(ctx, "")
		require.NoError(t, err)
		assert.True(t, res.IsApproved)
	})
	t.Run("punctuation only tokens skipped", func(t *testing.T) {
		engine := newTestEngine(t, dictionary)
		res, err := engine.Evaluate(ctx, "!!! ??? ... ---")
		require.NoError(t, err)
		assert.True(t, res.IsApproved)
	})
	t.Run("deterministic for identical input", func(t *testing.T) {
		engine := newTestEngine(t, dictionary)
		first, err := engine.Evaluate(ctx, "utter garbage and trash")
		require.NoError(t, err)
		second, err := engine.Evaluate(ctx, "utter garbage and trash")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
	t.Run("cold start failure fails closed", func(t *testing.T) {
		cache := NewCache(testLogger(), &fakeWordLister{err: errors.New("db down")}, time.Hour)
		engine := NewEngine(testLogger(), cache)
		_, err := engine.Evaluate(ctx, "anything")
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}
