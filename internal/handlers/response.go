package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"
)

// Client-facing messages. Details stay in the server log.
const (
	msgMethodNotAllowed    = "Method not allowed"
	msgInvalidRequest      = "Invalid request"
	msgTooManyAttempts     = "Too many attempts. Please try again later."
	msgTooManyOrders       = "Too many orders. Please try again later."
	msgCouponUnavailable   = "Unable to validate coupon"
	msgOrderNotCreated     = "Failed to create order"
	msgDatabaseUnavailable = "database unavailable"
)

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// CouponResponse is the body of every coupon endpoint response. The discount
// fields are set only on success, where a zero amount is still reported.
type CouponResponse struct {
	Valid          bool     `json:"valid"`
	DiscountType   string   `json:"discountType,omitempty"`
	DiscountValue  *float64 `json:"discountValue,omitempty"`
	DiscountAmount *float64 `json:"discountAmount,omitempty"`
	CouponID       string   `json:"couponId,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// OrderResponse is the body of every order endpoint response.
type OrderResponse struct {
	Success     bool   `json:"success"`
	OrderID     string `json:"orderId,omitempty"`
	OrderNumber string `json:"orderNumber,omitempty"`
	Error       string `json:"error,omitempty"`
}

func money(d decimal.Decimal) *float64 {
	f := d.InexactFloat64()
	return &f
}

func writeCouponError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, CouponResponse{Valid: false, Error: message}, logger)
}

func writeOrderError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, OrderResponse{Success: false, Error: message}, logger)
}
