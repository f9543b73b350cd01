package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

const insertOrderQuery = `INSERT INTO orders (
	user_id, email, shipping_address,
	subtotal_usd, shipping_usd, tax_usd, discount_usd, total_usd,
	coupon_code, payment_method, status, payment_status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id, order_number`

const insertItemsPrefix = `INSERT INTO order_items (order_id, product_id, name, price_usd, quantity) VALUES `

const itemColumns = 5

// OrderRepository writes orders and their line items.
type OrderRepository struct {
	db      *sql.DB
	timeout queryTimeout
}

// NewOrderRepository creates an OrderRepository. A positive timeout bounds
// every statement.
func NewOrderRepository(db *sql.DB, timeout time.Duration) *OrderRepository {
	return &OrderRepository{
		db:      db,
		timeout: queryTimeout(timeout),
	}
}

// CreateOrder inserts rec and returns the generated id and order number.
func (r *OrderRepository) CreateOrder(ctx context.Context, rec models.OrderRecord) (*models.OrderConfirmation, error) {
	address, err := json.Marshal(rec.ShippingAddress)
	if err != nil {
		return nil, errors.Wrap(err, "encode shipping address")
	}

	ctx, cancel := r.timeout.apply(ctx)
	defer cancel()

	var conf models.OrderConfirmation
	err = r.db.QueryRowContext(ctx, insertOrderQuery,
		rec.UserID,
		rec.Email,
		string(address),
		rec.Subtotal,
		rec.Shipping,
		rec.Tax,
		rec.Discount,
		rec.Total,
		rec.CouponCode,
		string(rec.PaymentMethod),
		string(rec.Status),
		string(rec.PaymentStatus),
	).Scan(&conf.ID, &conf.OrderNumber)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrNoRows
	case err != nil:
		return nil, errors.Wrap(err, "insert order")
	}
	return &conf, nil
}

// CreateOrderItems inserts all items with a single statement.
func (r *OrderRepository) CreateOrderItems(ctx context.Context, items []models.OrderItemRecord) error {
	if len(items) == 0 {
		return nil
	}

	query, args := buildItemsInsert(items)

	ctx, cancel := r.timeout.apply(ctx)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "insert %d order items", len(items))
	}
	return nil
}

func buildItemsInsert(items []models.OrderItemRecord) (string, []any) {
	var b strings.Builder
	b.WriteString(insertItemsPrefix)

	args := make([]any, 0, len(items)*itemColumns)
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		n := i * itemColumns
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5)
		args = append(args, item.OrderID, item.ProductID, item.Name, item.Price, item.Quantity)
	}
	return b.String(), args
}
