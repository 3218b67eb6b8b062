package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for answer caching.
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, value string, ttl time.Duration)
	Clear()
}

// Key generates a versioned cache key from a raw query.
func Key(query string) string {
	hash := sha256.Sum256([]byte(query))
	return "neersetu:v1:" + hex.EncodeToString(hash[:])
}
