package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/echoai/recommender/config"
	"github.com/echoai/recommender/internal/logger"
)

// SetupRouter creates and configures the Gin router.
// Background work started by middleware stops when ctx is done.
func SetupRouter(ctx context.Context, cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(logger.RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitByIP(ctx, cfg.RateLimit.PerIP, limiterCleanupInterval, limiterExpiration))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/greeting", handler.Greeting)

		recommendations := v1.Group("/recommendations")
		{
			recommendations.POST("/search", handler.SearchRecommendations)
			recommendations.POST("/partition", handler.PartitionRecommendations)
		}

		orders := v1.Group("/orders")
		{
			orders.POST("/summary", handler.OrderSummary)
			orders.POST("/intent", handler.OrderIntent)
		}
	}

	return router
}

const (
	minWriteTimeout = 30 * time.Second
	// writeMargin leaves room to render and send the reply after a lookup gives up
	writeMargin = 5 * time.Second
)

// NewServer wraps the router in an http.Server. The write timeout always
// exceeds lookupTimeout so a timed-out lookup can still send its fallback reply.
func NewServer(addr string, handler http.Handler, lookupTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      max(minWriteTimeout, lookupTimeout+writeMargin),
		IdleTimeout:       60 * time.Second,
	}
}
