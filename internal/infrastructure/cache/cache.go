// Package cache implements an in-process cache using dgraph-io/ristretto.
package cache

import (
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Cache is a typed, size-bounded in-process cache. Every entry costs 1, so
// maxItems bounds the number of live entries.
type Cache[V any] struct {
	c   *ristretto.Cache[string, V]
	ttl time.Duration
}

// New creates a ristretto-backed cache holding at most maxItems entries.
// A zero ttl keeps entries until they are evicted.
func New[V any](maxItems int64, ttl time.Duration) (*Cache[V], error) {
	if maxItems <= 0 {
		maxItems = 64
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, V]{
		NumCounters: maxItems * 10, // ~10x expected items
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache[V]{c: c, ttl: ttl}, nil
}

// Get retrieves a value from the cache.
func (c *Cache[V]) Get(key string) (V, bool) {
	return c.c.Get(key)
}

// Set stores a value. ristretto admits entries asynchronously, so a Get
// immediately after Set may still miss unless Wait is called.
func (c *Cache[V]) Set(key string, value V) bool {
	if c.ttl > 0 {
		return c.c.SetWithTTL(key, value, 1, c.ttl)
	}
	return c.c.Set(key, value, 1)
}

// Wait blocks until buffered writes are applied.
func (c *Cache[V]) Wait() {
	c.c.Wait()
}

// Delete removes a value from the cache.
func (c *Cache[V]) Delete(key string) {
	c.c.Del(key)
}

// Close shuts down the cache and releases resources.
func (c *Cache[V]) Close() {
	c.c.Close()
}
