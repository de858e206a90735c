package domain

import (
	"context"
)

// CacheRepository defines the interface for caching candidate lists
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]string, error)
	Set(ctx context.Context, key string, value []string) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// RecommenderClient defines the interface for interacting with the external recommendation service
type RecommenderClient interface {
	AllRecommendations(ctx context.Context, productName string) ([]string, error)
	Health(ctx context.Context) error
}
