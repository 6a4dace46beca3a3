package auth

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// lockRegistry hands out one mutex per user id so failed-login counter
// mutations for the same user are serialized and no increment is lost under
// a concurrent login storm. The registry is LRU-bounded; it must be sized
// well above the number of users logging in concurrently, since evicting an
// entry hands out a fresh mutex.
type lockRegistry struct {
	mu    sync.Mutex
	locks *lru.Cache[int64, *sync.Mutex]
}

const lockRegistrySize = 4096

func newLockRegistry() *lockRegistry {
	// lru.New only errors on a non-positive size
	locks, _ := lru.New[int64, *sync.Mutex](lockRegistrySize)
	return &lockRegistry{locks: locks}
}

func (r *lockRegistry) forUser(id int64) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.locks.Get(id); ok {
		return m
	}
	m := &sync.Mutex{}
	r.locks.Add(id, m)
	return m
}
