// Package cache provides a fixed-capacity, least-recently-used cache keyed by
// value types. It backs font width memoization and style conversion.
package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCapacity is used when a non-positive capacity is requested.
const DefaultCapacity = 256

// LRU is a fixed-capacity cache. It is safe for concurrent use.
type LRU[K comparable, V any] struct {
	inner  *lru.Cache[K, V]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewLRU creates a cache holding at most capacity entries.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	inner, err := lru.New[K, V](capacity)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		panic(err)
	}
	return &LRU[K, V]{inner: inner}
}

// Get returns the cached value and whether it was present.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	v, ok := c.inner.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Put stores value under key, evicting the least recently used entry when full.
// It reports whether an eviction happened.
func (c *LRU[K, V]) Put(key K, value V) bool {
	return c.inner.Add(key, value)
}

// GetOrCompute returns the cached value for key, computing and storing it on a miss.
func (c *LRU[K, V]) GetOrCompute(key K, compute func(K) V) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := compute(key)
	c.inner.Add(key, v)
	return v
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	return c.inner.Len()
}

// Purge drops every entry. Hit and miss counters are kept.
func (c *LRU[K, V]) Purge() {
	c.inner.Purge()
}

// Stats returns cumulative hit and miss counts.
func (c *LRU[K, V]) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
