package services

import (
	"sync"
	"time"
)

// OutputCache holds vnstat command output with a TTL, keyed by argument list
type OutputCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	data []byte
	time time.Time
}

// NewOutputCache creates a cache. A ttl <= 0 disables caching.
func NewOutputCache(ttl time.Duration) *OutputCache {
	return &OutputCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// isCacheValid checks if an entry is still valid
func (c *OutputCache) isCacheValid(cacheTime time.Time) bool {
	return c.ttl > 0 && c.now().Sub(cacheTime) < c.ttl
}

// Get returns cached output for key if it has not expired
func (c *OutputCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || !c.isCacheValid(entry.time) {
		return nil, false
	}
	return entry.data, true
}

// Set stores output for key
func (c *OutputCache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ttl <= 0 {
		return
	}
	c.entries[key] = cacheEntry{data: data, time: c.now()}
}

// Clear drops all cached values
func (c *OutputCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
