package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Mapharazzo/mortgauge/internal/cache"
	"github.com/Mapharazzo/mortgauge/internal/tracing"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Run serves the API on cfg.Address until ctx is cancelled, then drains
// in-flight requests and releases the cache, limiter and tracer.
func Run(ctx context.Context, cfg *Config, logger *zap.Logger, version string) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	repo, err := cache.New(cfg.Cache.Backend, cfg.Cache.Address, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	if redisCache, ok := repo.(*cache.RedisCache); ok {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			logger.Warn("redis cache is unreachable, requests will be computed uncached",
				zap.String("op", "server.Run"),
				zap.String("address", cfg.Cache.Address),
				zap.Error(err),
			)
		}
		cancel()
	}

	var limiter *RateLimiter
	if cfg.RateLimit.Requests > 0 {
		limiter = NewRateLimiter(cfg.RateLimit.Requests, cfg.RateWindow())
		defer limiter.Stop()
	}

	shutdownTracing, err := tracing.InitTracing(ctx, cfg.Tracing, version, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	srv := &http.Server{
		Addr: cfg.Address,
		Handler: NewHandler(logger, Options{
			MaxBodySize: cfg.BodySizeBytes(),
			Version:     version,
			Cache:       repo,
			CacheTTL:    cfg.CacheTTL(),
			RateLimiter: limiter,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("listening on %s", cfg.Address),
			zap.String("op", "server.Run"),
			zap.String("cache", cfg.Cache.Backend),
			zap.Int("rateLimit", cfg.RateLimit.Requests),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case err := <-serverErr:
		runErr = err
	case <-ctx.Done():
		logger.Info("shutting down server", zap.String("op", "server.Run"))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", zap.String("op", "server.Run"), zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("failed to flush traces", zap.String("op", "server.Run"), zap.Error(err))
	}
	if repo != nil {
		if err := repo.Close(); err != nil {
			logger.Warn("failed to close cache", zap.String("op", "server.Run"), zap.Error(err))
		}
	}

	if runErr != nil {
		return fmt.Errorf("server failed: %w", runErr)
	}
	return nil
}
