package moderation

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"cinescope/proj/internal/domain/models"
)

type WordLister interface {
	ListAll(ctx context.Context) ([]models.BannedWord, error)
}

// snapshot is an immutable point-in-time view of the active banned words,
// keyed by lowercase word. It is replaced wholesale, never mutated in place,
// so lookups can read it without holding any lock.
type snapshot struct {
	entries map[string]models.BannedWord
	builtAt time.Time
}

type Cache struct {
	log     *slog.Logger
	storage WordLister
	ttl     time.Duration

	// mu guards the snapshot pointer only. It is never held across storage
	// I/O: a refresh fetches outside the lock and swaps the pointer under it.
	mu   sync.Mutex
	snap *snapshot
}

func NewCache(log *slog.Logger, storage WordLister, ttl time.Duration) *Cache {
	return &Cache{
		log:     log,
		storage: storage,
		ttl:     ttl,
	}
}

func (c *Cache) current() *snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Snapshot returns the banned-word map backing lookups, refreshing it from
// storage first if it is older than the TTL. On refresh failure the
// last-known snapshot is served even if stale; only a cold start with no
// snapshot at all returns ErrUnavailable. Callers must not mutate the map.
func (c *Cache) Snapshot(ctx context.Context) (map[string]models.BannedWord, error) {
	if err := c.refreshIfStale(ctx); err != nil {
		return nil, err
	}
	return c.current().entries, nil
}

func (c *Cache) Lookup(ctx context.Context, word string) (models.BannedWord, bool, error) {
	entries, err := c.Snapshot(ctx)
	if err != nil {
		return models.BannedWord{}, false, err
	}
	entry, ok := entries[strings.ToLower(word)]
	return entry, ok, nil
}

func (c *Cache) refreshIfStale(ctx context.Context) error {
	const op = "moderation.Cache.refreshIfStale"
	snap := c.current()
	if snap != nil && time.Since(snap.builtAt) <= c.ttl {
		return nil
	}
	// Concurrent callers may race here and refresh redundantly; the swap
	// below makes that harmless.
	words, err := c.storage.ListAll(ctx)
	if err != nil {
		if snap == nil {
			c.log.Error("cold start refresh failed", "op", op, "errMsg", err.Error())
			return ErrUnavailable
		}
		c.log.Warn("refresh failed, serving stale snapshot", "op", op, "builtAt", snap.builtAt, "errMsg", err.Error())
		return nil
	}
	entries := make(map[string]models.BannedWord, len(words))
	for _, w := range words {
		if !w.IsActive {
			continue
		}
		entries[strings.ToLower(w.Word)] = w
	}
	c.mu.Lock()
	c.snap = &snapshot{entries: entries, builtAt: time.Now()}
	c.mu.Unlock()
	c.log.Debug("banned word snapshot rebuilt", "op", op, "entries", len(entries))
	return nil
}

// patch applies fn to a copy of the current snapshot and swaps it in,
// preserving builtAt so a patch never extends the TTL. A patch racing with a
// full refresh is simply superseded by whichever swap lands last.
func (c *Cache) patch(fn func(entries map[string]models.BannedWord)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap == nil {
		return
	}
	entries := make(map[string]models.BannedWord, len(c.snap.entries)+1)
	for k, v := range c.snap.entries {
		entries[k] = v
	}
	fn(entries)
	c.snap = &snapshot{entries: entries, builtAt: c.snap.builtAt}
}

// OnWordAdded makes an administrative insert visible before the next refresh.
func (c *Cache) OnWordAdded(word models.BannedWord) {
	c.patch(func(entries map[string]models.BannedWord) {
		if word.IsActive {
			entries[strings.ToLower(word.Word)] = word
		}
	})
}

// OnWordUpdated replaces the entry, dropping the old key if the text changed
// and omitting the new one when the word was deactivated.
func (c *Cache) OnWordUpdated(oldWord string, word models.BannedWord) {
	c.patch(func(entries map[string]models.BannedWord) {
		delete(entries, strings.ToLower(oldWord))
		if word.IsActive {
			entries[strings.ToLower(word.Word)] = word
		}
	})
}

func (c *Cache) OnWordRemoved(word string) {
	c.patch(func(entries map[string]models.BannedWord) {
		delete(entries, strings.ToLower(word))
	})
}
