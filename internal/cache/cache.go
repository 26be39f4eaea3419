// Package cache stores raw source responses between harvest runs. The
// upstream APIs are slow and rate limited, so anything fetched once is worth
// keeping for the next pass over the same records.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the storage contract shared by the memory, disk, and layered
// implementations.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a request descriptor. Hashed so arbitrary
// URLs produce filesystem-safe names; the prefix versions the cache layout.
func Key(descriptor string) string {
	sum := sha256.Sum256([]byte(descriptor))
	return "crosswalk:v1:" + hex.EncodeToString(sum[:])
}
