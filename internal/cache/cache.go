// Package cache provides an explicitly constructed, injected TTL cache.
// Owners build their own instance; there is no ambient shared cache.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultSize = 128
	// DefaultTTL suits slow-moving lookups such as scope resolution and
	// membership sets.
	DefaultTTL = 5 * time.Minute
)

// Cache is a size-bounded TTL cache keyed by string.
type Cache[V any] struct {
	lru *expirable.LRU[string, V]
}

// New constructs a cache. Non-positive size or ttl use defaults.
func New[V any](size int, ttl time.Duration) *Cache[V] {
	if size <= 0 {
		size = defaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[V]{lru: expirable.NewLRU[string, V](size, nil, ttl)}
}

// Get returns the cached value for key, if present and unexpired.
func (c *Cache[V]) Get(key string) (V, bool) {
	return c.lru.Get(key)
}

// Set stores the value for key.
func (c *Cache[V]) Set(key string, value V) {
	c.lru.Add(key, value)
}

// Invalidate removes key from the cache.
func (c *Cache[V]) Invalidate(key string) {
	c.lru.Remove(key)
}

// Purge drops every cached value.
func (c *Cache[V]) Purge() {
	c.lru.Purge()
}
