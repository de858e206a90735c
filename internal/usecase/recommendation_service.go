package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/echoai/recommender/internal/domain"
	"github.com/echoai/recommender/internal/logger"
	"github.com/echoai/recommender/internal/metrics"
)

// Package-level compiled regex patterns for performance
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

const defaultFeaturedCount = 3

// RecommendationServiceConfig holds configuration for the recommendation service
type RecommendationServiceConfig struct {
	// FeaturedCount is how many recommendations are highlighted; zero means the default, negative means none
	FeaturedCount      int
	EnableDebugLogging bool
	Logger             *zap.Logger
}

// RecommendationService looks up candidates for an item and turns them into replies
type RecommendationService struct {
	cache         domain.CacheRepository
	client        domain.RecommenderClient
	featuredCount int
	debug         bool
	log           *zap.Logger
}

// NewRecommendationService creates a new recommendation service with dependencies
func NewRecommendationService(
	cache domain.CacheRepository,
	client domain.RecommenderClient,
	config RecommendationServiceConfig,
) *RecommendationService {
	featured := config.FeaturedCount
	if featured == 0 {
		featured = defaultFeaturedCount
	}
	if featured < 0 {
		featured = 0
	}

	log := config.Logger
	if log == nil {
		log = logger.Get()
	}

	return &RecommendationService{
		cache:         cache,
		client:        client,
		featuredCount: featured,
		debug:         config.EnableDebugLogging,
		log:           log.Named("recommendations"),
	}
}

// Recommend fetches candidates for the requested item and renders them.
// Flow: normalize name -> check cache -> ask recommender -> cache -> partition -> render
func (s *RecommendationService) Recommend(
	ctx context.Context,
	request *domain.RecommendationRequest,
) (*domain.RecommendationResult, error) {
	if request == nil || IsNoItem(request.ProductName) {
		return nil, domain.ErrInvalidRequest
	}

	productName := FormatItemName(request.ProductName)
	cacheKey := generateCacheKey(productName)

	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		metrics.RecommendationLookups.WithLabelValues(domain.SourceCache).Inc()
		result := s.render(productName, cached)
		result.Source = domain.SourceCache
		return result, nil
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		s.log.Warn("cache read failed", zap.String("key", cacheKey), zap.Error(err))
	}

	candidates, err := s.client.AllRecommendations(ctx, productName)
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		// Nothing to cache; still answer with the empty-list sentences
		candidates = []string{}
	case err != nil:
		if errors.Is(err, domain.ErrRecommenderFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrRecommenderFailure, err)
	default:
		if err := s.cache.Set(ctx, cacheKey, candidates); err != nil {
			s.log.Warn("cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	metrics.RecommendationLookups.WithLabelValues(domain.SourceRecommender).Inc()
	result := s.render(productName, candidates)
	result.Source = domain.SourceRecommender
	return result, nil
}

// Partition splits caller-supplied candidates without contacting the recommender
func (s *RecommendationService) Partition(
	ctx context.Context,
	request *domain.PartitionRequest,
) (*domain.RecommendationResult, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates := request.Candidates
	if candidates == nil {
		candidates = []string{}
	}

	return s.render(strings.TrimSpace(request.ProductName), candidates), nil
}

// render partitions candidates and builds the reply sentences
func (s *RecommendationService) render(productName string, candidates []string) *domain.RecommendationResult {
	partition := Partition(candidates, productName)

	metrics.PartitionItems.WithLabelValues("matching").Observe(float64(len(partition.Matching)))
	metrics.PartitionItems.WithLabelValues("other").Observe(float64(len(partition.Other)))

	if s.debug {
		s.log.Debug("partitioned recommendations",
			zap.String("product", productName),
			zap.Strings("tokens", Tokenize(productName)),
			zap.Int("matching", len(partition.Matching)),
			zap.Int("other", len(partition.Other)),
		)
	}

	featured := s.featured(candidates)

	return &domain.RecommendationResult{
		ProductName:     productName,
		Recommendations: candidates,
		Matching:        partition.Matching,
		Other:           partition.Other,
		MatchingMessage: RenderMatching(partition.Matching),
		OtherMessage:    RenderOther(partition.Other),
		Featured:        featured,
		FeaturedMessage: RenderRecommendations(featured),
	}
}

// featured returns a copy of the first featuredCount candidates
func (s *RecommendationService) featured(candidates []string) []string {
	n := min(s.featuredCount, len(candidates))
	out := make([]string, n)
	copy(out, candidates[:n])
	return out
}

// generateCacheKey creates a normalized cache key from an item name.
// Format: "recommendations:{normalized_product_name}"
func generateCacheKey(productName string) string {
	return "recommendations:" + normalizeForCacheKey(productName)
}

// normalizeForCacheKey normalizes a string for use as cache key component.
// Converts to lowercase, removes punctuation and symbols in any script, and trims whitespace.
func normalizeForCacheKey(s string) string {
	if s == "" {
		return ""
	}
	result := strings.ToLower(s)
	result = nonAlphanumericRegex.ReplaceAllString(result, "")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}
