package main

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/supptrack/backend/config"
	httpDelivery "github.com/supptrack/backend/internal/delivery/http"
	"github.com/supptrack/backend/internal/infrastructure/cache"
	"github.com/supptrack/backend/internal/infrastructure/postgres"
	"github.com/supptrack/backend/internal/infrastructure/vendorfeed"
	"github.com/supptrack/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.InitLogger(cfg.Log); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zap.L().Sync() }()

	zap.L().Info("starting supptrack backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.Float64("mergeThreshold", cfg.Matching.MergeThreshold),
	)

	ctx := context.Background()

	// Infrastructure
	store, err := postgres.NewStore(ctx, cfg.Database.URL, postgres.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		zap.L().Fatal("failed to connect to database", zap.Error(err))
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		zap.L().Fatal("failed to run migrations", zap.Error(err))
	}

	memoryCache := cache.NewMemoryCache(cfg.Cache.TTL)
	feedClient := vendorfeed.NewClient(cfg.Feed.Timeout, cfg.Feed.RatePerSecond)

	// Usecase layer
	reconciler := usecase.NewReconciler(store, usecase.ReconcilerConfig{
		MergeThreshold: cfg.Matching.MergeThreshold,
		MaxConcurrency: cfg.Matching.MaxConcurrency,
	})
	aggregator := usecase.NewPriceAggregator(store, cfg.Matching.MaxConcurrency)

	// Delivery
	handler := httpDelivery.NewHandler(store, reconciler, aggregator, memoryCache, feedClient)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zap.L().Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		zap.L().Fatal("server exited", zap.Error(err))
	}
}
