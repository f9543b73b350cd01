// Package validation checks request payloads and reduces accepted fields to a
// safe, length-bounded form.
//
// Validation stops at the first failure. Coupon failures carry generic messages
// so callers cannot probe which codes exist; order failures name the field so a
// shopper can correct the form.
package validation

const (
	MsgInvalidRequest    = "Invalid request"
	MsgInvalidCouponCode = "Invalid coupon code"
)

// Error is a client-facing validation failure.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func invalid(field, message string) *Error {
	return &Error{Field: field, Message: message}
}
