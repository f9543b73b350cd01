package coupon

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

var hundred = decimal.NewFromInt(100)

// ErrUnsupportedDiscount is returned by ParseDiscount for a discount the
// storefront cannot apply.
var ErrUnsupportedDiscount = errors.New("unsupported discount")

// Discount is a coupon's reduction rule. It is either a Percentage or a Fixed.
type Discount interface {
	Type() models.DiscountType
	Value() decimal.Decimal
	// Amount is the reduction applied to cartTotal, rounded to cents.
	Amount(cartTotal decimal.Decimal) decimal.Decimal

	discount()
}

// Percentage takes Percent per hundred off the cart total.
type Percentage struct {
	Percent decimal.Decimal
}

func (Percentage) Type() models.DiscountType { return models.DiscountPercentage }

func (p Percentage) Value() decimal.Decimal { return p.Percent }

func (p Percentage) Amount(cartTotal decimal.Decimal) decimal.Decimal {
	return cartTotal.Mul(p.Percent).Div(hundred).Round(2)
}

func (Percentage) discount() {}

// Fixed takes a flat amount off, never more than the cart total.
type Fixed struct {
	Off decimal.Decimal
}

func (Fixed) Type() models.DiscountType { return models.DiscountFixed }

func (f Fixed) Value() decimal.Decimal { return f.Off }

func (f Fixed) Amount(cartTotal decimal.Decimal) decimal.Decimal {
	return decimal.Min(f.Off, cartTotal).Round(2)
}

func (Fixed) discount() {}

// ParseDiscount builds the Discount named by typ. Unknown types and
// non-positive values yield ErrUnsupportedDiscount.
func ParseDiscount(typ models.DiscountType, value decimal.Decimal) (Discount, error) {
	if !value.IsPositive() {
		return nil, errors.Wrapf(ErrUnsupportedDiscount, "%s value %s", typ, value)
	}

	switch typ {
	case models.DiscountPercentage:
		return Percentage{Percent: value}, nil
	case models.DiscountFixed:
		return Fixed{Off: value}, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedDiscount, "type %q", typ)
	}
}
