package models

import "github.com/shopspring/decimal"

// OrderRequest is the JSON body accepted by the order endpoint, before validation.
type OrderRequest struct {
	Email           string        `json:"email"`
	ShippingAddress *AddressInput `json:"shippingAddress"`
	Items           []ItemInput   `json:"items"`
	Subtotal        *float64      `json:"subtotal"`
	Shipping        *float64      `json:"shipping"`
	Tax             *float64      `json:"tax"`
	Total           *float64      `json:"total"`
	CouponCode      string        `json:"couponCode,omitempty"`
	Discount        *float64      `json:"discount,omitempty"`
	PaymentMethod   string        `json:"paymentMethod"`
	ShippingMethod  string        `json:"shippingMethod"`
}

// AddressInput is the shipping address as submitted by the checkout form.
type AddressInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	Apartment string `json:"apartment,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

// ItemInput is one cart line as submitted. Quantity is decoded as a number so
// fractional values can be rejected by validation rather than by the decoder.
type ItemInput struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    *float64 `json:"price"`
	Quantity *float64 `json:"quantity"`
	Image    string   `json:"image,omitempty"`
}

type PaymentMethod string

const (
	PaymentStripe PaymentMethod = "stripe"
	PaymentPayPal PaymentMethod = "paypal"
)

type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
)

// OrderCreationRequest is a validated and sanitized OrderRequest.
// Every monetary value is already rounded to cents.
type OrderCreationRequest struct {
	Email           string
	ShippingAddress ShippingAddress
	Items           []LineItem
	Subtotal        decimal.Decimal
	Shipping        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	CouponCode      string
	Discount        decimal.Decimal
	PaymentMethod   PaymentMethod
	ShippingMethod  ShippingMethod
}

// ShippingAddress is a sanitized AddressInput. Apartment may be empty.
type ShippingAddress struct {
	FirstName string
	LastName  string
	Address   string
	Apartment string
	City      string
	State     string
	Zip       string
	Country   string
	Phone     string
}

// LineItem is a sanitized ItemInput.
type LineItem struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Quantity int
	Image    string
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// OrderRecord is the row written to the orders table.
type OrderRecord struct {
	UserID          *string
	Email           string
	ShippingAddress AddressRecord
	Subtotal        decimal.Decimal
	Shipping        decimal.Decimal
	Tax             decimal.Decimal
	Discount        decimal.Decimal
	Total           decimal.Decimal
	CouponCode      *string
	PaymentMethod   PaymentMethod
	Status          OrderStatus
	PaymentStatus   PaymentStatus
}

// AddressRecord is the denormalized shipping address stored as JSON on the order.
type AddressRecord struct {
	FullName     string  `json:"full_name"`
	AddressLine1 string  `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	PostalCode   string  `json:"postal_code"`
	Country      string  `json:"country"`
	Phone        string  `json:"phone"`
}

// OrderItemRecord is one row written to the order_items table.
// ProductID is nil when the cart item id is not a catalog id.
type OrderItemRecord struct {
	OrderID   string
	ProductID *string
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

// OrderConfirmation identifies a created order.
type OrderConfirmation struct {
	ID          string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
}
