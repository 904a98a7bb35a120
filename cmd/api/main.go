package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lkiparis/printforge-backend/api/routes"
	"github.com/lkiparis/printforge-backend/internal/cart"
	"github.com/lkiparis/printforge-backend/internal/pricing"
	"github.com/lkiparis/printforge-backend/internal/production"
	"github.com/lkiparis/printforge-backend/pkg/config"
	"github.com/lkiparis/printforge-backend/pkg/env"
	"github.com/lkiparis/printforge-backend/pkg/logger"
	"github.com/lkiparis/printforge-backend/pkg/metrics"
	"github.com/lkiparis/printforge-backend/pkg/storage/fsrecord"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	cartRepo, err := cart.NewRepository(cfg.Storage.CartDir(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to open cart storage", err)
		os.Exit(1)
	}
	productionRepo, err := production.NewRepository(cfg.Storage.ProductionDir(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to open production storage", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	productionService, err := production.NewService(productionRepo, cartRepo, logg, metrics.NewProductionMetrics(registry))
	if err != nil {
		logg.Error(context.Background(), "failed to create production service", err)
		os.Exit(1)
	}

	estimator, err := pricing.NewEstimator(cfg.Pricing.MarginEUR)
	if err != nil {
		logg.Error(context.Background(), "failed to configure pricing", err)
		os.Exit(1)
	}

	storagePinger := fsrecord.NewDirPinger(cfg.Storage.CartDir(), cfg.Storage.ProductionDir())

	addr := ":" + env.Get("PORT", cfg.App.Port)

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"storage_root": cfg.Storage.Root,
	})
	logg.Info(ctx, "api server starting")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, storagePinger, estimator, cartService, productionService, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
