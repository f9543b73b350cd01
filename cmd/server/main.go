package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/auth"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/coupon"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/handlers"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/ratelimit"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/repository"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/telemetry"
	"github.com/Lixing-Zhang/kart-challenge/storefront/pkg/logger"
)

func main() {
	// A .env file is optional; the environment always wins.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to read .env: %v\n", err)
		os.Exit(1)
	}

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

func run(cfg *config.Config, log *slog.Logger) error {
	log.Info("starting storefront functions",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"rate_limit_backend", cfg.RateLimit.Backend,
	)

	shutdownTracing, err := telemetry.Setup(cfg.Tracing.ServiceName, cfg.Tracing.Exporter)
	if err != nil {
		return fmt.Errorf("set up tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Error("failed to flush traces", "error", err)
		}
	}()

	ctx := context.Background()

	// Initialize database
	db, err := repository.Open(ctx, cfg.Database.URL, repository.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, log)
	if err != nil {
		return err
	}
	defer db.Close()

	// Initialize rate limiters
	couponLimiter, orderLimiter, closeStore, err := newLimiters(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	// Initialize repositories
	couponRepo := repository.NewCouponRepository(db, cfg.Database.QueryTimeout)
	orderRepo := repository.NewOrderRepository(db, cfg.Database.QueryTimeout)

	// Initialize services
	var resolver auth.Resolver
	if cfg.Auth.URL != "" {
		resolver = auth.NewGoTrueClient(cfg.Auth.URL, cfg.Auth.APIKey, cfg.Auth.Timeout,
			auth.WithHTTPClient(telemetry.NewHTTPClient(cfg.Auth.Timeout)),
		)
	} else {
		log.Warn("AUTH_URL not set, all orders are recorded as guest orders")
	}
	couponValidator := coupon.NewValidator(couponRepo, log)
	orderService := service.NewOrderService(orderRepo, resolver, log)

	// Initialize handlers
	router := handlers.NewRouter(handlers.RouterConfig{
		Coupon:         handlers.NewCouponHandler(couponValidator, couponLimiter, log),
		Order:          handlers.NewOrderHandler(orderService, orderLimiter, log),
		Health:         handlers.NewHealthHandler(db, 2*time.Second, log),
		ServiceName:    cfg.Tracing.ServiceName,
		GatewayKeys:    cfg.Gateway.APIKeys,
		RequestTimeout: cfg.Server.RequestTimeout,
		Logger:         log,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// newLimiters builds the coupon and order limiters on the configured backend.
// The memory backend gives each limiter its own store.
func newLimiters(ctx context.Context, cfg *config.Config, log *slog.Logger) (couponLimiter, orderLimiter *ratelimit.Limiter, closeStore func() error, err error) {
	rl := cfg.RateLimit

	if rl.Backend != config.BackendRedis {
		couponLimiter = ratelimit.New("validate-coupon", rl.CouponLimit, rl.CouponWindow, ratelimit.NewMemoryStore(), ratelimit.WithLogger(log))
		orderLimiter = ratelimit.New("create-order", rl.OrderLimit, rl.OrderWindow, ratelimit.NewMemoryStore(), ratelimit.WithLogger(log))
		return couponLimiter, orderLimiter, func() error { return nil }, nil
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	store := ratelimit.NewRedisStore(redis.NewClient(opts), cfg.Redis.Namespace)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		// Limiters fail open, so an unreachable Redis degrades to no limiting.
		log.Warn("redis unreachable at startup, rate limiting is degraded", "error", err)
	}

	couponLimiter = ratelimit.New("validate-coupon", rl.CouponLimit, rl.CouponWindow, store, ratelimit.WithLogger(log))
	orderLimiter = ratelimit.New("create-order", rl.OrderLimit, rl.OrderWindow, store, ratelimit.WithLogger(log))
	return couponLimiter, orderLimiter, store.Close, nil
}
