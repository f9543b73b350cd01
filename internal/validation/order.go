package validation

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

const maxItemQuantity = 100

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-+()]{7,20}$`)
)

// Order validates req and returns its sanitized form. The returned error is a
// *Error naming the first offending field.
func Order(req models.OrderRequest) (models.OrderCreationRequest, error) {
	if err := checkOrder(req); err != nil {
		return models.OrderCreationRequest{}, err
	}
	return sanitizeOrder(req), nil
}

func checkOrder(req models.OrderRequest) *Error {
	if req.Email == "" || !emailPattern.MatchString(req.Email) {
		return invalid("email", "Invalid email address")
	}

	addr := req.ShippingAddress
	if addr == nil {
		return invalid("shippingAddress", "Shipping address is required")
	}
	required := []struct {
		field string
		value string
	}{
		{"firstName", addr.FirstName},
		{"lastName", addr.LastName},
		{"address", addr.Address},
		{"city", addr.City},
		{"state", addr.State},
		{"zip", addr.Zip},
		{"country", addr.Country},
		{"phone", addr.Phone},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return invalid(f.field, f.field+" is required")
		}
	}
	if !phonePattern.MatchString(addr.Phone) {
		return invalid("phone", "Invalid phone number")
	}

	if len(req.Items) == 0 {
		return invalid("items", "Order must contain at least one item")
	}
	for _, item := range req.Items {
		if item.ID == "" || item.Name == "" || item.Price == nil || item.Quantity == nil {
			return invalid("items", "Invalid item data")
		}
		price, qty := *item.Price, *item.Quantity
		if !isFinite(price) || price <= 0 || !isFinite(qty) || qty != math.Trunc(qty) || qty < 1 || qty > maxItemQuantity {
			return invalid("items", "Invalid item quantity or price")
		}
	}

	if !positive(req.Subtotal) {
		return invalid("subtotal", "Invalid subtotal")
	}
	if !nonNegative(req.Shipping) {
		return invalid("shipping", "Invalid shipping cost")
	}
	if !nonNegative(req.Tax) {
		return invalid("tax", "Invalid tax amount")
	}
	if !positive(req.Total) {
		return invalid("total", "Invalid total")
	}

	switch models.PaymentMethod(req.PaymentMethod) {
	case models.PaymentStripe, models.PaymentPayPal:
	default:
		return invalid("paymentMethod", "Invalid payment method")
	}
	switch models.ShippingMethod(req.ShippingMethod) {
	case models.ShippingStandard, models.ShippingExpress:
	default:
		return invalid("shippingMethod", "Invalid shipping method")
	}

	return nil
}

func sanitizeOrder(req models.OrderRequest) models.OrderCreationRequest {
	addr := req.ShippingAddress

	items := make([]models.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.LineItem{
			ID:       SanitizeString(item.ID, MaxItemID),
			Name:     SanitizeString(item.Name, MaxItemName),
			Price:    RoundCents(*item.Price),
			Quantity: int(*item.Quantity),
			Image:    SanitizeString(item.Image, MaxImage),
		})
	}

	out := models.OrderCreationRequest{
		Email: strings.ToLower(SanitizeString(req.Email, MaxEmail)),
		ShippingAddress: models.ShippingAddress{
			FirstName: SanitizeString(addr.FirstName, MaxName),
			LastName:  SanitizeString(addr.LastName, MaxName),
			Address:   SanitizeString(addr.Address, MaxAddress),
			Apartment: SanitizeString(addr.Apartment, MaxApartment),
			City:      SanitizeString(addr.City, MaxCity),
			State:     SanitizeString(addr.State, MaxState),
			Zip:       SanitizeString(addr.Zip, MaxZip),
			Country:   SanitizeString(addr.Country, MaxCountry),
			Phone:     SanitizeString(addr.Phone, MaxPhone),
		},
		Items:          items,
		Subtotal:       RoundCents(*req.Subtotal),
		Shipping:       RoundCents(*req.Shipping),
		Tax:            RoundCents(*req.Tax),
		Total:          RoundCents(*req.Total),
		CouponCode:     strings.ToUpper(SanitizeString(req.CouponCode, MaxCouponCode)),
		Discount:       decimal.Zero,
		PaymentMethod:  models.PaymentMethod(req.PaymentMethod),
		ShippingMethod: models.ShippingMethod(req.ShippingMethod),
	}
	if req.Discount != nil {
		out.Discount = RoundCents(*req.Discount)
	}
	return out
}

func positive(f *float64) bool {
	return f != nil && isFinite(*f) && *f > 0
}

func nonNegative(f *float64) bool {
	return f != nil && isFinite(*f) && *f >= 0
}
