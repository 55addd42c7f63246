package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fintrack-app/fintrack-api/internal/config"
	"github.com/fintrack-app/fintrack-api/internal/domain"
	"github.com/fintrack-app/fintrack-api/internal/handler"
	"github.com/fintrack-app/fintrack-api/internal/infra/cache"
	"github.com/fintrack-app/fintrack-api/internal/infra/identity"
	"github.com/fintrack-app/fintrack-api/internal/infra/media"
	"github.com/fintrack-app/fintrack-api/internal/infra/observability"
	"github.com/fintrack-app/fintrack-api/internal/infra/resilience"
	"github.com/fintrack-app/fintrack-api/internal/infra/sqlite"
	"github.com/fintrack-app/fintrack-api/internal/service"

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
		zap.String("db_path", cfg.DBPath),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("user_cache_ttl", cfg.UserCacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "fintrack-api")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Store ---
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatal("failed to create data directory", zap.Error(err))
		}
	}
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer store.Close()

	// --- Identity verification ---
	verifier := identity.NewVerifier(cfg.TokenSecret, cfg.TokenIssuer)

	// --- Object store client ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	mediaClient := media.NewClient(cfg.StorageURL, cfg.StorageKey, cfg.HTTPTimeout, resilienceCfg)

	// --- Cache ---
	userCache := cache.New[*domain.User](cfg.UserCacheTTL)

	// --- Services ---
	userSvc := service.NewUserService(store, userCache, mediaClient, cfg.StorageBucket, metrics, logger)
	budgetSvc := service.NewBudgetService(store, store, logger)
	svcs := handler.Services{
		Ledger:     service.NewLedgerService(store, metrics, logger),
		Statements: service.NewStatementService(store, store, logger),
		Wallets:    service.NewWalletService(store, store, logger),
		Budgets:    budgetSvc,
		Goals:      service.NewGoalService(store, logger),
		Dishes:     service.NewDishService(store, budgetSvc, logger),
		Users:      userSvc,
		Health:     service.NewHealthService(store, metrics),
		Verifier:   verifier,
	}

	// --- Router ---
	router := handler.NewRouter(svcs, metrics, cfg.AllowedOrigins, logger)

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

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
