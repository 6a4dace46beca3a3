package moderation

import (
	"context"
	"log/slog"
	"strings"
	"unicode"
)

// Result is the moderation verdict for one block of text. ViolationWords
// keeps each matched token as it appeared after cleaning, original casing
// and duplicates included.
type Result struct {
	IsApproved     bool
	ViolationWords []string
	SeverityScore  int
}

type Engine struct {
	log   *slog.Logger
	cache *Cache
}

func NewEngine(log *slog.Logger, cache *Cache) *Engine {
	return &Engine{
		log:   log,
		cache: cache,
	}
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', ',', '.', '!', '?', ';', ':', '\r', '\n', '\t':
		return true
	}
	return false
}

// cleanToken strips every non-alphanumeric rune, so "offensive1!" and
// "(offensive1)" both reduce to "offensive1".
func cleanToken(token string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, token)
}

// Evaluate splits text into tokens and matches each whole cleaned token
// against the banned-word snapshot. Matching is token-exact: a banned word
// embedded inside a longer word does not flag. The only error case is a cold
// start with unreachable storage (ErrUnavailable).
func (e *Engine) Evaluate(ctx context.Context, text string) (*Result, error) {
	const op = "moderation.Engine.Evaluate"
	entries, err := e.cache.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	var violations []string
	score := 0
	for _, token := range strings.FieldsFunc(text, isSeparator) {
		cleaned := cleanToken(token)
		if cleaned == "" {
			continue
		}
		entry, ok := entries[strings.ToLower(cleaned)]
		if !ok {
			continue
		}
		violations = append(violations, cleaned)
		score += entry.Severity
	}
	if len(violations) > 0 {
		e.log.Info("content flagged", "op", op, "violations", len(violations), "severity", score)
	}
	return &Result{
		IsApproved:     len(violations) == 0,
		ViolationWords: violations,
		SeverityScore:  score,
	}, nil
}
