package cache

import (
	"encoding/json"
	"time"

	"github.com/Daun92/travel-blog-sub000/internal/model"
)

// ResultCache is the verification-result view over a byte cache. Only
// verified and false results belong here: unknown may resolve differently
// on a later attempt and must never be served from cache.
type ResultCache struct {
	inner Cache
	ttl   time.Duration
}

// NewResultCache wraps a byte cache for verification results
func NewResultCache(inner Cache, ttl time.Duration) *ResultCache {
	return &ResultCache{inner: inner, ttl: ttl}
}

// Get returns the cached result for a claim type+value, if present
func (c *ResultCache) Get(claimType model.ClaimType, value string) (model.VerificationResult, bool) {
	data, found := c.inner.Get(Key(string(claimType), value))
	if !found {
		return model.VerificationResult{}, false
	}

	var result model.VerificationResult
	if err := json.Unmarshal(data, &result); err != nil {
		// Corrupt entry: drop it and miss
		_ = c.inner.Delete(Key(string(claimType), value))
		return model.VerificationResult{}, false
	}
	return result, true
}

// Put stores a result keyed by claim type+value. Unknown results are
// silently skipped.
func (c *ResultCache) Put(claimType model.ClaimType, value string, result model.VerificationResult) error {
	if result.Status == model.StatusUnknown {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.inner.Set(Key(string(claimType), value), data, c.ttl)
}
