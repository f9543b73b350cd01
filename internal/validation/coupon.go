package validation

import (
	"math"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

// Coupon validates and sanitizes a coupon request.
func Coupon(req models.CouponRequest) (models.CouponValidationRequest, error) {
	if req.Code == nil || *req.Code == "" || utf8.RuneCountInString(*req.Code) > MaxCouponCode {
		return models.CouponValidationRequest{}, invalid("code", MsgInvalidCouponCode)
	}

	if req.CartTotal == nil || !isFinite(*req.CartTotal) || *req.CartTotal < 0 {
		return models.CouponValidationRequest{}, invalid("cartTotal", MsgInvalidRequest)
	}

	code := SanitizeCouponCode(*req.Code)
	if code == "" {
		return models.CouponValidationRequest{}, invalid("code", MsgInvalidCouponCode)
	}

	return models.CouponValidationRequest{
		Code:      code,
		CartTotal: decimal.NewFromFloat(*req.CartTotal),
	}, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
