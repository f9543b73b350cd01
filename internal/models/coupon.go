package models

import "github.com/shopspring/decimal"

// CouponRequest is the JSON body accepted by the coupon endpoint.
// Pointer fields distinguish missing values from zero values.
type CouponRequest struct {
	Code      *string  `json:"code"`
	CartTotal *float64 `json:"cartTotal"`
}

// CouponValidationRequest is a sanitized CouponRequest.
type CouponValidationRequest struct {
	Code      string
	CartTotal decimal.Decimal
}

// DiscountType names how a coupon reduces the cart total.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// CouponCheck is the data store's verdict for a code and cart total.
// Field names follow the validate_coupon database function's JSON result.
type CouponCheck struct {
	Valid         bool            `json:"valid"`
	Error         string          `json:"error,omitempty"`
	DiscountType  DiscountType    `json:"discount_type,omitempty"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	CouponID      string          `json:"coupon_id,omitempty"`
}

// CouponValidationResult is what the coupon endpoint reports to the caller.
// It is computed per request and never persisted.
type CouponValidationResult struct {
	Valid          bool
	DiscountType   DiscountType
	DiscountValue  decimal.Decimal
	DiscountAmount decimal.Decimal
	CouponID       string
	Error          string
}
