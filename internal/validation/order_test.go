package validation

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

func validOrderRequest() models.OrderRequest {
	return models.OrderRequest{
		Email: "Jane.Doe@Example.com",
		ShippingAddress: &models.AddressInput{
			FirstName: "Jane",
			LastName:  "Doe",
			Address:   "1 Market Street",
			City:      "San Francisco",
			State:     "CA",
			Zip:       "94105",
			Country:   "US",
			Phone:     "+1 (415) 555-0100",
		},
		Items: []models.ItemInput{
			{ID: "3f2a0c1e-9b7d-4c55-8a61-2f0e4d3c2b1a", Name: "Linen Shirt", Price: floatPtr(49.99), Quantity: floatPtr(2)},
			{ID: "sku-42", Name: "Canvas Tote", Price: floatPtr(19.5), Quantity: floatPtr(1)},
		},
		Subtotal:       floatPtr(119.48),
		Shipping:       floatPtr(0),
		Tax:            floatPtr(9.56),
		Total:          floatPtr(129.04),
		PaymentMethod:  "stripe",
		ShippingMethod: "standard",
	}
}

func TestOrder_Valid(t *testing.T) {
	got, err := Order(validOrderRequest())
	require.NoError(t, err)

	assert.Equal(t, "jane.doe@example.com", got.Email)
	assert.Equal(t, "Jane", got.ShippingAddress.FirstName)
	assert.Empty(t, got.ShippingAddress.Apartment)
	require.Len(t, got.Items, 2)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, "49.99", got.Items[0].Price.StringFixed(2))
	assert.Equal(t, "129.04", got.Total.StringFixed(2))
	assert.True(t, got.Discount.IsZero())
	assert.Empty(t, got.CouponCode)
	assert.Equal(t, models.PaymentStripe, got.PaymentMethod)
	assert.Equal(t, models.ShippingStandard, got.ShippingMethod)
}

func TestOrder_Sanitizes(t *testing.T) {
	req := validOrderRequest()
	req.ShippingAddress.FirstName = "  <b>Jane</b>  "
	req.ShippingAddress.Address = strings.Repeat("x", 250)
	req.ShippingAddress.Apartment = " Apt <4> "
	req.Items[0].Name = "<i>Linen</i> Shirt"
	req.Items[0].Image = "https://cdn.example.com/" + strings.Repeat("a", 600)
	req.Items[0].Price = floatPtr(19.999)
	req.Subtotal = floatPtr(19.995)
	req.CouponCode = " save<20> "
	req.Discount = floatPtr(5.555)

	got, err := Order(req)
	require.NoError(t, err)

	assert.Equal(t, "bJane/b", got.ShippingAddress.FirstName)
	assert.Len(t, got.ShippingAddress.Address, MaxAddress)
	assert.Equal(t, "Apt 4", got.ShippingAddress.Apartment)
	assert.Equal(t, "iLinen/i Shirt", got.Items[0].Name)
	assert.Len(t, got.Items[0].Image, MaxImage)
	assert.Equal(t, "20.00", got.Items[0].Price.StringFixed(2))
	assert.Equal(t, "20.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "SAVE20", got.CouponCode)
	assert.Equal(t, "5.56", got.Discount.StringFixed(2))
}

func TestOrder_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.OrderRequest)
		field   string
		message string
	}{
		{"empty email", func(r *models.OrderRequest) { r.Email = "" }, "email", "Invalid email address"},
		{"malformed email", func(r *models.OrderRequest) { r.Email = "jane@example" }, "email", "Invalid email address"},
		{"email with space", func(r *models.OrderRequest) { r.Email = "jane doe@example.com" }, "email", "Invalid email address"},
		{"missing address", func(r *models.OrderRequest) { r.ShippingAddress = nil }, "shippingAddress", "Shipping address is required"},
		{"blank first name", func(r *models.OrderRequest) { r.ShippingAddress.FirstName = "   " }, "firstName", "firstName is required"},
		{"missing city", func(r *models.OrderRequest) { r.ShippingAddress.City = "" }, "city", "city is required"},
		{"missing phone", func(r *models.OrderRequest) { r.ShippingAddress.Phone = "" }, "phone", "phone is required"},
		{"phone with letters", func(r *models.OrderRequest) { r.ShippingAddress.Phone = "555-CALL-NOW" }, "phone", "Invalid phone number"},
		{"phone too short", func(r *models.OrderRequest) { r.ShippingAddress.Phone = "12345" }, "phone", "Invalid phone number"},
		{"phone too long", func(r *models.OrderRequest) { r.ShippingAddress.Phone = strings.Repeat("1", 21) }, "phone", "Invalid phone number"},
		{"no items", func(r *models.OrderRequest) { r.Items = nil }, "items", "Order must contain at least one item"},
		{"item without id", func(r *models.OrderRequest) { r.Items[0].ID = "" }, "items", "Invalid item data"},
		{"item without name", func(r *models.OrderRequest) { r.Items[1].Name = "" }, "items", "Invalid item data"},
		{"item without price", func(r *models.OrderRequest) { r.Items[0].Price = nil }, "items", "Invalid item data"},
		{"item without quantity", func(r *models.OrderRequest) { r.Items[0].Quantity = nil }, "items", "Invalid item data"},
		{"zero quantity", func(r *models.OrderRequest) { r.Items[0].Quantity = floatPtr(0) }, "items", "Invalid item quantity or price"},
		{"quantity over 100", func(r *models.OrderRequest) { r.Items[1].Quantity = floatPtr(101) }, "items", "Invalid item quantity or price"},
		{"fractional quantity", func(r *models.OrderRequest) { r.Items[0].Quantity = floatPtr(1.5) }, "items", "Invalid item quantity or price"},
		{"zero price", func(r *models.OrderRequest) { r.Items[0].Price = floatPtr(0) }, "items", "Invalid item quantity or price"},
		{"infinite price", func(r *models.OrderRequest) { r.Items[0].Price = floatPtr(math.Inf(1)) }, "items", "Invalid item quantity or price"},
		{"missing subtotal", func(r *models.OrderRequest) { r.Subtotal = nil }, "subtotal", "Invalid subtotal"},
		{"zero subtotal", func(r *models.OrderRequest) { r.Subtotal = floatPtr(0) }, "subtotal", "Invalid subtotal"},
		{"NaN subtotal", func(r *models.OrderRequest) { r.Subtotal = floatPtr(math.NaN()) }, "subtotal", "Invalid subtotal"},
		{"negative shipping", func(r *models.OrderRequest) { r.Shipping = floatPtr(-0.01) }, "shipping", "Invalid shipping cost"},
		{"infinite shipping", func(r *models.OrderRequest) { r.Shipping = floatPtr(math.Inf(1)) }, "shipping", "Invalid shipping cost"},
		{"negative tax", func(r *models.OrderRequest) { r.Tax = floatPtr(-1) }, "tax", "Invalid tax amount"},
		{"zero total", func(r *models.OrderRequest) { r.Total = floatPtr(0) }, "total", "Invalid total"},
		{"negative total", func(r *models.OrderRequest) { r.Total = floatPtr(-10) }, "total", "Invalid total"},
		{"infinite total", func(r *models.OrderRequest) { r.Total = floatPtr(math.Inf(-1)) }, "total", "Invalid total"},
		{"unknown payment method", func(r *models.OrderRequest) { r.PaymentMethod = "cash" }, "paymentMethod", "Invalid payment method"},
		{"unknown shipping method", func(r *models.OrderRequest) { r.ShippingMethod = "drone" }, "shippingMethod", "Invalid shipping method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validOrderRequest()
			tt.mutate(&req)

			_, err := Order(req)
			require.Error(t, err)

			var verr *Error
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.message, verr.Message)
		})
	}
}

func TestOrder_ReportsFirstFailureOnly(t *testing.T) {
	req := validOrderRequest()
	req.Email = "bad"
	req.Items = nil
	req.Total = floatPtr(-1)

	_, err := Order(req)
	require.Error(t, err)
	assert.Equal(t, "Invalid email address", err.Error())
}

func TestOrder_BoundaryQuantities(t *testing.T) {
	for _, qty := range []float64{1, 100} {
		req := validOrderRequest()
		req.Items[0].Quantity = floatPtr(qty)

		got, err := Order(req)
		require.NoError(t, err)
		assert.Equal(t, int(qty), got.Items[0].Quantity)
	}
}

func TestOrder_DiscountIsOnlyRounded(t *testing.T) {
	for in, want := range map[float64]string{
		-5.555: "-5.56",
		0:      "0.00",
		1000:   "1000.00",
	} {
		req := validOrderRequest()
		req.Discount = floatPtr(in)

		got, err := Order(req)
		require.NoError(t, err)
		assert.Equal(t, want, got.Discount.StringFixed(2))
	}
}
