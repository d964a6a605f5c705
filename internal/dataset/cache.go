package dataset

import (
	"sync"

	"plantdash/internal/period"
)

// Cache memoizes one value per period key. Entries are created lazily and live
// until Clear; there is no eviction.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[period.Key]T
}

// NewCache creates an empty cache
func NewCache[T any]() *Cache[T] {
	return &Cache[T]{entries: make(map[period.Key]T)}
}

// Get returns the cached value for key, if any
func (c *Cache[T]) Get(key period.Key) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// GetOrCreate returns the cached value for key, calling create on a miss.
// A failed create stores nothing, so the next call retries.
func (c *Cache[T]) GetOrCreate(key period.Key, create func() (T, error)) (T, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.entries[key]; ok {
		return v, true, nil
	}
	v, err := create()
	if err != nil {
		var zero T
		return zero, false, err
	}
	c.entries[key] = v
	return v, false, nil
}

// Len returns the number of cached periods
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every entry
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[period.Key]T)
}
