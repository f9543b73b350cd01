package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

// validate_coupon checks eligibility (active, dates, minimum total, usage cap)
// and records the use in one statement. It returns a JSON object.
const validateCouponQuery = `SELECT validate_coupon($1, $2)`

// CouponRepository evaluates coupons with the validate_coupon database function.
type CouponRepository struct {
	db      *sql.DB
	timeout queryTimeout
}

// NewCouponRepository creates a CouponRepository. A positive timeout bounds
// every call.
func NewCouponRepository(db *sql.DB, timeout time.Duration) *CouponRepository {
	return &CouponRepository{
		db:      db,
		timeout: queryTimeout(timeout),
	}
}

// CheckCoupon asks the database whether code applies to cartTotal.
func (r *CouponRepository) CheckCoupon(ctx context.Context, code string, cartTotal decimal.Decimal) (*models.CouponCheck, error) {
	ctx, cancel := r.timeout.apply(ctx)
	defer cancel()

	var raw []byte
	err := r.db.QueryRowContext(ctx, validateCouponQuery, code, cartTotal).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrNoRows
	case err != nil:
		return nil, errors.Wrap(err, "call validate_coupon")
	}

	if len(raw) == 0 || string(raw) == "null" {
		return nil, ErrNoRows
	}

	var check models.CouponCheck
	if err := json.Unmarshal(raw, &check); err != nil {
		return nil, errors.Wrap(err, "decode validate_coupon result")
	}
	return &check, nil
}
