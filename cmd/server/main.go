package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/echoai/recommender/config"
	httpDelivery "github.com/echoai/recommender/internal/delivery/http"
	"github.com/echoai/recommender/internal/infrastructure/cache"
	"github.com/echoai/recommender/internal/infrastructure/recommender"
	"github.com/echoai/recommender/internal/logger"
	"github.com/echoai/recommender/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(false, "info")
		logger.Get().Fatal("failed to load configuration", zap.Error(err))
	}

	logger.Init(cfg.Server.IsDevelopment(), cfg.Log.Level)
	defer logger.Sync()
	log := logger.Get()

	log.Info("starting echo recommender",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	recommendationCache := cache.NewRecommendationCache(cfg.Cache.MaxSize, cfg.Cache.TTL)
	log.Info("cache configured",
		zap.Duration("ttl", recommendationCache.TTL()),
		zap.Int("max_size", cfg.Cache.MaxSize),
	)

	client := recommender.NewClient(cfg.Recommender.BaseURL,
		recommender.WithTimeout(cfg.Recommender.Timeout),
		recommender.WithRateLimit(cfg.Recommender.RatePerSecond, cfg.Recommender.Burst),
		recommender.WithMaxRetries(cfg.Recommender.MaxRetries),
		recommender.WithUserAgent(cfg.Recommender.UserAgent),
		recommender.WithLogger(log),
	)
	if cfg.Server.IsDevelopment() {
		client.SetDebug(true)
		log.Info("recommender client debug mode enabled")
	}
	log.Info("recommender configured", zap.String("base_url", cfg.Recommender.BaseURL))

	healthCtx, cancelHealth := context.WithTimeout(context.Background(), cfg.Recommender.Timeout)
	if err := client.Health(healthCtx); err != nil {
		log.Warn("recommendation service is not reachable yet", zap.Error(err))
	}
	cancelHealth()

	recommendationService := usecase.NewRecommendationService(
		recommendationCache,
		client,
		usecase.RecommendationServiceConfig{
			FeaturedCount:      cfg.Matching.FeaturedCount,
			EnableDebugLogging: cfg.Matching.DebugLogging,
			Logger:             log,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lookupBudget := cfg.Recommender.LookupBudget()
	handler := httpDelivery.NewHandler(recommendationService, httpDelivery.WithLookupTimeout(lookupBudget))
	router := httpDelivery.SetupRouter(ctx, cfg, handler)
	server := httpDelivery.NewServer(fmt.Sprintf(":%s", cfg.Server.Port), router, handler.LookupTimeout())
	log.Info("timeouts configured",
		zap.Duration("lookup", lookupBudget),
		zap.Duration("write", server.WriteTimeout),
	)

	go func() {
		log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
