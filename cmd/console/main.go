package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fluxoclean/console-bfa-go/internal/config"
	"github.com/fluxoclean/console-bfa-go/internal/handler"
	"github.com/fluxoclean/console-bfa-go/internal/infra/cache"
	"github.com/fluxoclean/console-bfa-go/internal/infra/observability"
	"github.com/fluxoclean/console-bfa-go/internal/infra/platform"
	"github.com/fluxoclean/console-bfa-go/internal/infra/resilience"
	"github.com/fluxoclean/console-bfa-go/internal/poller"
	"github.com/fluxoclean/console-bfa-go/internal/service"

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
		zap.String("platform_api_url", cfg.PlatformAPIURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("poll_interval", cfg.PollInterval),
		zap.Strings("manual_service_types", cfg.ManualServiceTypes),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Duration("jwt_access_ttl", cfg.JWTAccessTTL),
		zap.Duration("jwt_refresh_ttl", cfg.JWTRefreshTTL),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "fluxoclean-console")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Refresh session store ---
	sessions := cache.New[service.RefreshSession](cfg.JWTRefreshTTL)
	defer sessions.Close()

	// --- Reset-token probe cache ---
	resetProbes := cache.New[bool](cfg.TokenCacheTTL)
	defer resetProbes.Close()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("platform-api")

	// --- Platform client ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	platformClient := platform.NewClient(
		httpClient,
		cfg.PlatformAPIURL,
		cfg.PlatformAPIKey,
		cb,
		resilienceCfg,
		logger,
	)

	// --- Snapshot poller ---
	snapshotPoller := poller.New(platformClient.ListTenants, cfg.PollInterval, metrics, logger)
	snapshotPoller.Start(context.Background())
	defer snapshotPoller.Stop()

	// --- Services ---
	consoleSvc := service.NewConsoleService(
		snapshotPoller,
		platformClient,
		platformClient,
		cfg.ManualServiceTypes,
		metrics,
		logger,
	)
	authSvc := service.NewAuthService(
		platformClient,
		sessions,
		resetProbes,
		cfg.JWTSecret,
		cfg.JWTAccessTTL,
		cfg.JWTRefreshTTL,
		cfg.AdminEmail,
		cfg.AdminPasswordHash,
		logger,
	)
	broadcastSvc := service.NewBroadcastService(platformClient, logger)

	if cfg.AdminEmail == "" || cfg.AdminPasswordHash == "" {
		logger.Warn("console login disabled: ADMIN_EMAIL / ADMIN_PASSWORD_HASH not configured")
	}

	// --- Router ---
	router := handler.NewRouter(consoleSvc, authSvc, broadcastSvc, metrics, logger)

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
