package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from a claim type and value. Keying on
// type+value rather than claim ID lets identical claims across different
// documents reuse one verification.
func Key(claimType, value string) string {
	hash := sha256.Sum256([]byte(claimType + ":" + value))
	return "factgate:v1:" + hex.EncodeToString(hash[:])
}
