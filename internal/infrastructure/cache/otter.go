package cache

import (
	"context"
	"time"

	"github.com/maypok86/otter/v2"

	"github.com/echoai/recommender/internal/domain"
)

const (
	defaultMaxSize = 10000
	defaultTTL     = 15 * time.Minute
)

// RecommendationCache is a bounded in-memory cache of candidate lists with write-based expiry
type RecommendationCache struct {
	store *otter.Cache[string, []string]
	ttl   time.Duration
}

// NewRecommendationCache creates a cache holding at most maxSize lists for ttl each.
// Non-positive arguments fall back to the defaults.
func NewRecommendationCache(maxSize int, ttl time.Duration) *RecommendationCache {
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}

	initial := maxSize
	if initial > 1024 {
		initial = 1024
	}

	return &RecommendationCache{
		store: otter.Must(&otter.Options[string, []string]{
			MaximumSize:      maxSize,
			InitialCapacity:  initial,
			ExpiryCalculator: otter.ExpiryWriting[string, []string](ttl),
		}),
		ttl: ttl,
	}
}

// Get returns a copy of the cached list or domain.ErrCacheMiss
func (c *RecommendationCache) Get(ctx context.Context, key string) ([]string, error) {
	value, ok := c.store.GetIfPresent(key)
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return clone(value), nil
}

// Set stores a copy of value under key
func (c *RecommendationCache) Set(ctx context.Context, key string, value []string) error {
	c.store.Set(key, clone(value))
	return nil
}

// Delete removes a value from the cache
func (c *RecommendationCache) Delete(ctx context.Context, key string) error {
	c.store.Invalidate(key)
	return nil
}

// Exists checks if a key is present and not expired
func (c *RecommendationCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.store.GetIfPresent(key)
	return ok, nil
}

// Size returns the approximate number of entries
func (c *RecommendationCache) Size() int {
	return c.store.EstimatedSize()
}

// TTL returns the configured expiry
func (c *RecommendationCache) TTL() time.Duration {
	return c.ttl
}

// Clear removes all items from the cache
func (c *RecommendationCache) Clear() {
	c.store.InvalidateAll()
}

func clone(value []string) []string {
	out := make([]string, len(value))
	copy(out, value)
	return out
}
