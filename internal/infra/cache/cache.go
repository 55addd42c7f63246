// Package cache keeps short-lived lookups in process memory. The user
// service parks identity-provider profiles here between requests so the
// database is not read on every authenticated call.
package cache

import (
	"sync"
	"time"
)

type item[T any] struct {
	value   T
	staleAt time.Time
}

// InMemory is a TTL cache safe for concurrent use. A background goroutine
// sweeps stale items once per TTL period.
type InMemory[T any] struct {
	mu    sync.RWMutex
	items map[string]item[T]
	ttl   time.Duration
}

// New creates a cache whose entries live for ttl. ttl must be positive.
func New[T any](ttl time.Duration) *InMemory[T] {
	c := &InMemory[T]{
		items: make(map[string]item[T]),
		ttl:   ttl,
	}
	go c.sweep()
	return c
}

// Get returns the cached value for key, or false when absent or stale.
func (c *InMemory[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(it.staleAt) {
		var zero T
		return zero, false
	}
	return it.value, true
}

// Set stores value under key for the configured TTL.
func (c *InMemory[T]) Set(key string, value T) {
	c.mu.Lock()
	c.items[key] = item[T]{value: value, staleAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Delete drops key from the cache.
func (c *InMemory[T]) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

func (c *InMemory[T]) sweep() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for k, it := range c.items {
			if now.After(it.staleAt) {
				delete(c.items, k)
			}
		}
		c.mu.Unlock()
	}
}
