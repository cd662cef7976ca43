// Package cache provides the in-process read cache used by the sync
// subsystem. Entries carry a TTL and every write path invalidates the keys
// it touches, which gives read-after-own-write consistency for the writer
// but no linearizability across concurrent writers.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache is a TTL key/value cache with explicit invalidation
type Cache struct {
	entries    map[string]entry
	defaultTTL time.Duration
	sync.RWMutex
}

// New creates a cache whose Set entries expire after defaultTTL
func New(defaultTTL time.Duration) *Cache {
	return &Cache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
	}
}

// Get returns the cached value for key, or false when the key is absent or
// its entry has expired. Expired entries are dropped lazily on read.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.RLock()
	e, ok := c.entries[key]
	c.RUnlock()
	if !ok {
		return nil, false
	}

	if time.Now().After(e.expiresAt) {
		c.Invalidate(key)
		return nil, false
	}

	return e.value, true
}

// Set stores value under key with the default TTL
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores value under key with an explicit TTL
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.Lock()
	defer c.Unlock()

	c.entries[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Invalidate removes the entry for key. Removing an absent key is a no-op.
func (c *Cache) Invalidate(key string) {
	c.Lock()
	defer c.Unlock()

	delete(c.entries, key)
}
