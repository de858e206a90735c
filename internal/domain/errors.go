package domain

import "errors"

var (
	// ErrProductNotFound is returned when the recommendation service knows nothing about a product
	ErrProductNotFound = errors.New("product not found by recommendation service")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrRecommenderFailure is returned when the recommendation service request fails
	ErrRecommenderFailure = errors.New("recommendation service request failed")
)
