package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache implements in-memory answer caching with TTL expiry.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache.
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a cached answer.
func (c *MemoryCache) Get(key string) (string, bool) {
	if val, found := c.cache.Get(key); found {
		return val.(string), true
	}
	return "", false
}

// Set stores an answer with the given TTL.
func (c *MemoryCache) Set(key string, value string, ttl time.Duration) {
	c.cache.Set(key, value, ttl)
}

// Clear removes all cached answers.
func (c *MemoryCache) Clear() {
	c.cache.Flush()
}
