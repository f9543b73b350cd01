package validation

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Maximum lengths of sanitized fields, in characters.
const (
	MaxEmail      = 255
	MaxName       = 50
	MaxAddress    = 200
	MaxApartment  = 50
	MaxCity       = 100
	MaxState      = 50
	MaxZip        = 20
	MaxCountry    = 50
	MaxPhone      = 20
	MaxCouponCode = 50
	MaxItemID     = 36
	MaxItemName   = 200
	MaxImage      = 500
)

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// SanitizeString strips angle brackets, trims surrounding whitespace and
// truncates the result to max characters.
func SanitizeString(s string, max int) string {
	s = strings.TrimSpace(angleBrackets.Replace(s))
	return truncate(s, max)
}

// SanitizeCouponCode uppercases s and keeps only A-Z, 0-9, '-' and '_'.
func SanitizeCouponCode(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return -1
	}, s)
}

// RoundCents rounds f half away from zero to two decimal places. Rounding
// starts from the shortest decimal form of f, so 19.995 becomes 20.00.
func RoundCents(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
