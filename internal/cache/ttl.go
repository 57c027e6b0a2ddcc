// Package cache implements the small in-process TTL cache that shields
// exchange fetches (candles, derivatives snapshots) from duplicate calls
// within a single scan tick.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value   any
	expires time.Time
}

// TTLCache is a simple string-keyed cache with per-entry expiry. Expired
// entries are dropped lazily on read, not swept in the background.
type TTLCache struct {
	mu    sync.Mutex
	store map[string]entry
}

func NewTTLCache() *TTLCache {
	return &TTLCache{store: make(map[string]entry)}
}

// Get returns the cached value and true if present and unexpired.
func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.store[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expires) {
		delete(c.store, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the given TTL.
func (c *TTLCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = entry{value: value, expires: time.Now().Add(ttl)}
}

// GetOrFetch returns the cached value if present, else calls fetch, caches
// its result (if no error) under ttl, and returns it.
func (c *TTLCache) GetOrFetch(key string, ttl time.Duration, fetch func() (any, error)) (any, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := fetch()
	if err != nil {
		return nil, err
	}
	c.Set(key, v, ttl)
	return v, nil
}
