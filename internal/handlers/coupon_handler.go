package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/ratelimit"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/validation"
	"github.com/Lixing-Zhang/kart-challenge/storefront/pkg/logger"
)

// couponValidator is the interface for coupon validation
type couponValidator interface {
	Validate(ctx context.Context, req models.CouponValidationRequest) (*models.CouponValidationResult, error)
}

// CouponHandler handles HTTP requests for coupon validation
type CouponHandler struct {
	validator couponValidator
	limiter   rateLimiter
	log       *slog.Logger
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(validator couponValidator, limiter rateLimiter, log *slog.Logger) *CouponHandler {
	return &CouponHandler{
		validator: validator,
		limiter:   limiter,
		log:       log,
	}
}

// ServeHTTP serves /functions/v1/validate-coupon.
func (h *CouponHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.ValidateCoupon(w, r)
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	default:
		writeCouponError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed, h.log)
	}
}

// ValidateCoupon checks a coupon code against a cart total. The rate limit is
// applied before the body is read.
func (h *CouponHandler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	client := ratelimit.ClientAddress(r)

	decision := h.limiter.Check(ctx, client)
	setRateLimitHeaders(w, h.limiter.Limit(), decision)
	if !decision.Allowed {
		h.log.WarnContext(ctx, "coupon rate limit exceeded", "client", logger.Mask(client))
		writeCouponError(w, http.StatusTooManyRequests, msgTooManyAttempts, h.log)
		return
	}

	var body models.CouponRequest
	if err := decodeJSON(w, r, &body); err != nil {
		h.log.DebugContext(ctx, "unreadable coupon request", "error", err)
		writeCouponError(w, http.StatusBadRequest, msgInvalidRequest, h.log)
		return
	}

	req, err := validation.Coupon(body)
	if err != nil {
		writeCouponError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	h.log.InfoContext(ctx, "validating coupon",
		"client", logger.Mask(client),
		"remaining", decision.Remaining,
	)

	result, err := h.validator.Validate(ctx, req)
	if err != nil {
		h.log.ErrorContext(ctx, "coupon validation failed", "error", err)
		writeCouponError(w, http.StatusInternalServerError, msgCouponUnavailable, h.log)
		return
	}

	if !result.Valid {
		writeCouponError(w, http.StatusOK, result.Error, h.log)
		return
	}

	h.log.InfoContext(ctx, "coupon applied", "client", logger.Mask(client))
	WriteJSON(w, http.StatusOK, CouponResponse{
		Valid:          true,
		DiscountType:   string(result.DiscountType),
		DiscountValue:  money(result.DiscountValue),
		DiscountAmount: money(result.DiscountAmount),
		CouponID:       result.CouponID,
	}, h.log)
}
