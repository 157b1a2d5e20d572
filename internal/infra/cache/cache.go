// Package cache provides a small in-memory TTL cache. The console uses
// it for refresh-token sessions and short-lived platform lookups; a
// Redis-backed implementation could replace it behind the same port.
package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// InMemory is a thread-safe in-memory cache with TTL.
type InMemory[T any] struct {
	mu         sync.RWMutex
	items      map[string]entry[T]
	defaultTTL time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

// New creates an in-memory cache. defaultTTL applies to Set; entries
// needing a different lifetime use SetWithTTL. A janitor goroutine
// sweeps expired entries until Close is called.
func New[T any](defaultTTL time.Duration) *InMemory[T] {
	c := &InMemory[T]{
		items:      make(map[string]entry[T]),
		defaultTTL: defaultTTL,
		stop:       make(chan struct{}),
	}
	go c.janitor()
	return c
}

// Get retrieves a value. Returns false if not found or expired.
func (c *InMemory[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[key]
	if !ok || time.Now().After(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores a value with the default TTL.
func (c *InMemory[T]) Set(key string, value T) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores a value with an explicit lifetime.
func (c *InMemory[T]) SetWithTTL(key string, value T, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry[T]{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Delete removes a value.
func (c *InMemory[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// DeleteFunc removes every entry whose value matches the predicate.
// Used to revoke all sessions of one subject at once.
func (c *InMemory[T]) DeleteFunc(match func(value T) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.items {
		if match(e.value) {
			delete(c.items, k)
		}
	}
}

// Len returns the number of live (non-expired) entries.
func (c *InMemory[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	now := time.Now()
	for _, e := range c.items {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}

// Close stops the janitor goroutine. Safe to call more than once.
func (c *InMemory[T]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// janitor periodically removes expired entries.
func (c *InMemory[T]) janitor() {
	ticker := time.NewTicker(c.defaultTTL)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for k, e := range c.items {
				if now.After(e.expiresAt) {
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		}
	}
}
