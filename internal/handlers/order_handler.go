package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/auth"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/ratelimit"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/validation"
	"github.com/Lixing-Zhang/kart-challenge/storefront/pkg/logger"
)

type orderCreator interface {
	CreateOrder(ctx context.Context, req models.OrderCreationRequest, bearer string) (*models.OrderConfirmation, error)
}

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService orderCreator
	limiter      rateLimiter
	log          *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService orderCreator, limiter rateLimiter, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		limiter:      limiter,
		log:          log,
	}
}

// ServeHTTP serves /functions/v1/create-order.
func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.CreateOrder(w, r)
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	default:
		writeOrderError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed, h.log)
	}
}

// CreateOrder validates a checkout submission and records it as a pending order.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	client := ratelimit.ClientAddress(r)

	decision := h.limiter.Check(ctx, client)
	setRateLimitHeaders(w, h.limiter.Limit(), decision)
	if !decision.Allowed {
		h.log.WarnContext(ctx, "order rate limit exceeded", "client", logger.Mask(client))
		writeOrderError(w, http.StatusTooManyRequests, msgTooManyOrders, h.log)
		return
	}

	var body models.OrderRequest
	if err := decodeJSON(w, r, &body); err != nil {
		h.log.DebugContext(ctx, "unreadable order request", "error", err)
		writeOrderError(w, http.StatusBadRequest, msgInvalidRequest, h.log)
		return
	}

	req, err := validation.Order(body)
	if err != nil {
		h.log.InfoContext(ctx, "order validation failed",
			"client", logger.Mask(client),
			"error", err,
		)
		writeOrderError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	h.log.InfoContext(ctx, "processing order",
		"client", logger.Mask(client),
		"items", len(req.Items),
		"total", req.Total.StringFixed(2),
	)

	conf, err := h.orderService.CreateOrder(ctx, req, auth.BearerToken(r.Header.Get("Authorization")))
	if err != nil {
		h.log.ErrorContext(ctx, "failed to create order", "error", err)
		writeOrderError(w, http.StatusInternalServerError, msgOrderNotCreated, h.log)
		return
	}

	h.log.InfoContext(ctx, "order created",
		"order_number", conf.OrderNumber,
		"client", logger.Mask(client),
	)
	WriteJSON(w, http.StatusCreated, OrderResponse{
		Success:     true,
		OrderID:     conf.ID,
		OrderNumber: conf.OrderNumber,
	}, h.log)
}
