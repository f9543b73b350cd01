package coupon

import (
	"context"
	"log/slog"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

// MsgInvalidCoupon is the only reason given for a rejected coupon. Callers
// cannot tell a missing code from an expired or exhausted one.
const MsgInvalidCoupon = "Invalid coupon code"

// Checker asks the data store whether a coupon applies to a cart total. The
// check and any usage bookkeeping happen in a single atomic call.
type Checker interface {
	CheckCoupon(ctx context.Context, code string, cartTotal decimal.Decimal) (*models.CouponCheck, error)
}

// Validator turns a data store verdict into the result shown to the shopper.
type Validator struct {
	checker Checker
	logger  *slog.Logger
}

// NewValidator creates a Validator backed by checker.
func NewValidator(checker Checker, logger *slog.Logger) *Validator {
	return &Validator{
		checker: checker,
		logger:  logger,
	}
}

// Validate checks req.Code against req.CartTotal. A rejected coupon is not an
// error: the result carries Valid=false and the generic message. Errors are
// reserved for data store failures.
func (v *Validator) Validate(ctx context.Context, req models.CouponValidationRequest) (*models.CouponValidationResult, error) {
	check, err := v.checker.CheckCoupon(ctx, req.Code, req.CartTotal)
	if err != nil {
		return nil, errors.Wrap(err, "check coupon")
	}

	if !check.Valid {
		v.logger.DebugContext(ctx, "coupon rejected", "reason", check.Error)
		return rejected(), nil
	}

	d, err := ParseDiscount(check.DiscountType, check.DiscountValue)
	if err != nil {
		v.logger.WarnContext(ctx, "coupon has unusable discount",
			"coupon_id", check.CouponID,
			"error", err,
		)
		return rejected(), nil
	}

	return &models.CouponValidationResult{
		Valid:          true,
		DiscountType:   d.Type(),
		DiscountValue:  d.Value(),
		DiscountAmount: d.Amount(req.CartTotal),
		CouponID:       check.CouponID,
	}, nil
}

func rejected() *models.CouponValidationResult {
	return &models.CouponValidationResult{Valid: false, Error: MsgInvalidCoupon}
}
