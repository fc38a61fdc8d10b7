// Package cache holds session-derived data in memory.
//
// Entries never go stale on their own; they live until explicitly evicted.
// Everything in the cache is tied to the current session, so [QueryCache.EvictAll]
// must run on logout and on a rejected session before another user can log in
// on the same device.
package cache

import "sync"

// Well-known cache keys for session-derived data.
const (
	KeyUser      = "user"
	KeyPlaylists = "playlists"
	KeyTopTracks = "top_tracks"
)

// QueryCache is an in-memory cache keyed by query name.
//
// A key can hold a nil value: "known absent" (e.g. no token, so no user) is
// distinct from "never fetched".
type QueryCache struct {
	mu      sync.RWMutex
	entries map[string]any
}

// New creates an empty [QueryCache].
func New() *QueryCache {
	return &QueryCache{entries: make(map[string]any)}
}

// Set stores a value under key.
func (c *QueryCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Get returns the value under key and whether the key has been set.
func (c *QueryCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.entries[key]
	return value, ok
}

// Evict removes a single key.
func (c *QueryCache) Evict(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// EvictAll removes every entry.
func (c *QueryCache) EvictAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]any)
}

// Keys returns the currently set keys.
func (c *QueryCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}
