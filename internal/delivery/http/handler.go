package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/echoai/recommender/internal/domain"
	"github.com/echoai/recommender/internal/logger"
	"github.com/echoai/recommender/internal/usecase"
)

const (
	serviceName    = "echo-recommender"
	serviceVersion = "1.0.0"
)

// RecommendationService is what the handler needs from the recommendation usecase
type RecommendationService interface {
	Recommend(ctx context.Context, request *domain.RecommendationRequest) (*domain.RecommendationResult, error)
	Partition(ctx context.Context, request *domain.PartitionRequest) (*domain.RecommendationResult, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recommendations RecommendationService
	lookupTimeout   time.Duration
	now             func() time.Time
}

// HandlerOption configures a Handler
type HandlerOption func(*Handler)

// WithLookupTimeout bounds each recommendation lookup so the fallback reply
// is written before the server's write deadline. Zero means no bound.
func WithLookupTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) {
		if d > 0 {
			h.lookupTimeout = d
		}
	}
}

// NewHandler creates a new HTTP handler. A nil service makes the recommendation routes reply 501.
func NewHandler(recommendations RecommendationService, opts ...HandlerOption) *Handler {
	h := &Handler{
		recommendations: recommendations,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// LookupTimeout returns the per-lookup bound, zero when unbounded
func (h *Handler) LookupTimeout() time.Duration {
	return h.lookupTimeout
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// Greeting returns the greeting for now, or for the RFC3339 instant in ?at=
func (h *Handler) Greeting(c *gin.Context) {
	instant := h.now()
	if at := c.Query("at"); at != "" {
		parsed, err := parseInstant(at)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "invalid 'at' parameter, expected RFC3339 timestamp",
			})
			return
		}
		instant = parsed
	}

	c.JSON(http.StatusOK, usecase.GreetingFor(instant))
}

// SearchRecommendations fetches and renders recommendations for one item
func (h *Handler) SearchRecommendations(c *gin.Context) {
	if h.recommendations == nil {
		respondNotConfigured(c)
		return
	}

	var req domain.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	if h.lookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.lookupTimeout)
		defer cancel()
	}

	result, err := h.recommendations.Recommend(ctx, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// PartitionRecommendations splits caller-supplied candidates against a product name
func (h *Handler) PartitionRecommendations(c *gin.Context) {
	if h.recommendations == nil {
		respondNotConfigured(c)
		return
	}

	var req domain.PartitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	result, err := h.recommendations.Partition(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// OrderSummary renders the completion message for a list of purchased items
func (h *Handler) OrderSummary(c *gin.Context) {
	var req domain.OrderSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, domain.MessageResponse{
		Message: usecase.RenderOrderSummary(req.Items),
	})
}

// OrderIntent renders the reply to a yes/no order confirmation
func (h *Handler) OrderIntent(c *gin.Context) {
	var req domain.OrderIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, domain.MessageResponse{
		Message: usecase.RenderOrderIntent(*req.Confirmed),
	})
}

// parseInstant parses an RFC3339 query value. An unescaped "+" in a query
// string decodes to a space, so "12:00:00 05:00" is read as "12:00:00+05:00".
func parseInstant(value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, value)
	if err == nil || !strings.Contains(value, " ") {
		return parsed, err
	}
	return time.Parse(time.RFC3339, strings.ReplaceAll(value, " ", "+"))
}

func respondNotConfigured(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{
		"error": "recommendation service not configured",
	})
}

// respondError maps domain errors to HTTP responses
func respondError(c *gin.Context, err error) {
	log := logger.FromContext(c)

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrRecommenderFailure):
		log.Warn("recommendation service unavailable", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "recommendation service temporarily unavailable",
			"message": usecase.UnavailableMessage,
		})
	default:
		log.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
