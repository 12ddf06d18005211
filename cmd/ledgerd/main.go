package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ledgerplan/ledgerd/internal/config"
	"github.com/ledgerplan/ledgerd/internal/domain"
	"github.com/ledgerplan/ledgerd/internal/handler"
	"github.com/ledgerplan/ledgerd/internal/infra/cache"
	"github.com/ledgerplan/ledgerd/internal/infra/observability"
	"github.com/ledgerplan/ledgerd/internal/infra/postgrest"
	"github.com/ledgerplan/ledgerd/internal/infra/resilience"
	"github.com/ledgerplan/ledgerd/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("store_url", cfg.StoreURL),
		zap.Duration("store_timeout", cfg.StoreTimeout),
		zap.Int("horizon_months", cfg.HorizonMonths),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
	)

	if cfg.StoreURL == "" {
		logger.Fatal("STORE_URL is required")
	}

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "ledgerd")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	timelineCache := cache.New[[]domain.TimelineBucket](cfg.CacheTTL)

	// --- Store ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	store := postgrest.NewStore(
		httpClient,
		cfg.StoreURL,
		cfg.StoreAnonKey,
		cfg.StoreServiceKey,
		resilienceCfg,
		cfg.StoreTimeout,
		metrics,
		logger,
	)

	// --- Services ---
	ledgerSvc := service.NewLedger(store, cfg.HorizonMonths, metrics, logger, nil)

	// --- Router ---
	router := handler.NewRouter(ledgerSvc, metrics, timelineCache, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
