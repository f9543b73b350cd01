package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/middleware"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/telemetry"
)

// Routes served by the storefront functions.
const (
	HealthPath         = "/health"
	ValidateCouponPath = "/functions/v1/validate-coupon"
	CreateOrderPath    = "/functions/v1/create-order"
)

// RouterConfig wires handlers and cross-cutting middleware into a router.
type RouterConfig struct {
	Coupon *CouponHandler
	Order  *OrderHandler
	Health *HealthHandler

	ServiceName    string
	GatewayKeys    []string
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// NewRouter builds the HTTP routing tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(telemetry.Middleware(cfg.ServiceName, HealthPath))
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(chimiddleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"authorization", "x-client-info", "apikey", "content-type"},
		ExposedHeaders:   []string{"Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get(HealthPath, cfg.Health.ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.GatewayKeys))

		r.Handle(ValidateCouponPath, cfg.Coupon)
		r.Handle(CreateOrderPath, cfg.Order)
	})

	return r
}
