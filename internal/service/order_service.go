package service

import (
	"context"
	"log/slog"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/auth"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/pkg/logger"
)

// ErrOrderNotCreated is matched by every error CreateOrder returns when the
// order row could not be written.
var ErrOrderNotCreated = errors.New("order not created")

// OrderError carries the storage failure behind ErrOrderNotCreated.
type OrderError struct {
	Err error
}

func (e *OrderError) Error() string {
	return ErrOrderNotCreated.Error() + ": " + e.Err.Error()
}

func (e *OrderError) Unwrap() error { return e.Err }

func (e *OrderError) Is(target error) bool { return target == ErrOrderNotCreated }

// OrderRepository persists orders and their line items.
type OrderRepository interface {
	CreateOrder(ctx context.Context, rec models.OrderRecord) (*models.OrderConfirmation, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItemRecord) error
}

// OrderService handles order business logic
type OrderService struct {
	repo     OrderRepository
	resolver auth.Resolver
	logger   *slog.Logger
}

// NewOrderService creates a new order service. A nil resolver makes every
// order a guest order.
func NewOrderService(repo OrderRepository, resolver auth.Resolver, logger *slog.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		resolver: resolver,
		logger:   logger,
	}
}

// CreateOrder records a pending order for req. bearer is the caller's token,
// or "" for a guest checkout. Line items are written after the order and a
// failure there does not fail the order.
func (s *OrderService) CreateOrder(ctx context.Context, req models.OrderCreationRequest, bearer string) (*models.OrderConfirmation, error) {
	principal := s.principal(ctx, bearer)

	conf, err := s.repo.CreateOrder(ctx, newOrderRecord(req, principal))
	if err != nil {
		return nil, &OrderError{Err: errors.Wrap(err, "store order")}
	}

	if err := s.repo.CreateOrderItems(ctx, newItemRecords(conf.ID, req.Items)); err != nil {
		// The order stands; items are reconciled out of band.
		s.logger.ErrorContext(ctx, "order items not stored",
			"order_number", conf.OrderNumber,
			"items", len(req.Items),
			"error", err,
		)
	}

	return conf, nil
}

func (s *OrderService) principal(ctx context.Context, bearer string) auth.Principal {
	if bearer == "" || s.resolver == nil {
		return auth.Guest()
	}

	id, err := s.resolver.Resolve(ctx, bearer)
	if err != nil {
		s.logger.WarnContext(ctx, "bearer token not resolved, continuing as guest", "error", err)
		return auth.Guest()
	}

	s.logger.DebugContext(ctx, "authenticated order", "user", logger.Mask(id.UserID))
	return auth.Authenticated(id)
}

func newOrderRecord(req models.OrderCreationRequest, principal auth.Principal) models.OrderRecord {
	addr := req.ShippingAddress

	rec := models.OrderRecord{
		UserID: principal.UserID(),
		Email:  req.Email,
		ShippingAddress: models.AddressRecord{
			FullName:     addr.FirstName + " " + addr.LastName,
			AddressLine1: addr.Address,
			City:         addr.City,
			State:        addr.State,
			PostalCode:   addr.Zip,
			Country:      addr.Country,
			Phone:        addr.Phone,
		},
		Subtotal:      req.Subtotal,
		Shipping:      req.Shipping,
		Tax:           req.Tax,
		Discount:      req.Discount,
		Total:         req.Total,
		PaymentMethod: req.PaymentMethod,
		Status:        models.OrderPending,
		PaymentStatus: models.PaymentPending,
	}
	if addr.Apartment != "" {
		apt := addr.Apartment
		rec.ShippingAddress.AddressLine2 = &apt
	}
	if req.CouponCode != "" {
		code := req.CouponCode
		rec.CouponCode = &code
	}
	return rec
}

func newItemRecords(orderID string, items []models.LineItem) []models.OrderItemRecord {
	out := make([]models.OrderItemRecord, 0, len(items))
	for _, item := range items {
		out = append(out, models.OrderItemRecord{
			OrderID:   orderID,
			ProductID: productID(item.ID),
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	return out
}

// productID returns id when it can reference a catalog product. Cart ids that
// are not canonical 36-character UUIDs are stored without a product link.
func productID(id string) *string {
	if len(id) != 36 {
		return nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	return &id
}
