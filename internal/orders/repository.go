package orders

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/joao-fontenele/mercadinho/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	order.ID = uuid.New().String()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_name, customer_phone, address, neighborhood,
			subtotal, discount, delivery_fee, total_amount, applied_coupon,
			payment_method, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11, $12, $13, $13)
	`, order.ID, order.CustomerName, order.CustomerPhone, order.Address, order.Neighborhood,
		order.Subtotal, order.Discount, order.DeliveryFee, order.TotalAmount, order.AppliedCoupon,
		order.PaymentMethod, order.Status, order.CreatedAt)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, name, price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.New().String(), order.ID, item.ProductID, item.Name, item.Price, item.Quantity)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

const orderColumns = `
	id, customer_name, customer_phone, address, neighborhood,
	subtotal, discount, delivery_fee, total_amount, COALESCE(applied_coupon, ''),
	payment_method, status, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.CustomerName, &o.CustomerPhone, &o.Address, &o.Neighborhood,
		&o.Subtotal, &o.Discount, &o.DeliveryFee, &o.TotalAmount, &o.AppliedCoupon,
		&o.PaymentMethod, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	order, err := scanOrder(r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE id = $1
	`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, name, price, quantity
		FROM order_items
		WHERE order_id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &order, nil
}

// ListFilter narrows and paginates the back-office order list. Query
// matches customer name, payment method, applied coupon or order id;
// Payment one of the payment kinds; Status an order status. A zero
// PageSize disables pagination.
type ListFilter struct {
	Query    string
	Payment  domain.PaymentKind
	Status   domain.OrderStatus
	Page     int
	PageSize int
}

// paymentPatterns maps a payment kind to the ILIKE patterns that
// classify a free-text payment method into it.
func paymentPatterns(kind domain.PaymentKind) []string {
	switch kind {
	case domain.PaymentPix:
		return []string{"%pix%"}
	case domain.PaymentCash:
		return []string{"%dinheiro%", "%cash%"}
	case domain.PaymentCard:
		return []string{"%cart%"}
	}
	return nil
}

// List returns a page of orders matching the filter, newest first, plus
// the total match count before pagination.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]domain.Order, int, error) {
	where := []string{"TRUE"}
	args := []any{}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(customer_name ILIKE $%d OR payment_method ILIKE $%d OR applied_coupon ILIKE $%d OR id ILIKE $%d)",
			n, n, n, n))
	}
	if patterns := paymentPatterns(filter.Payment); patterns != nil {
		clauses := make([]string, len(patterns))
		for i, p := range patterns {
			args = append(args, p)
			clauses[i] = fmt.Sprintf("payment_method ILIKE $%d", len(args))
		}
		where = append(where, "("+strings.Join(clauses, " OR ")+")")
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	condition := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE `+condition, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + condition + ` ORDER BY created_at DESC`
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	orders, err := r.queryOrders(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// ListSince returns all orders created at or after since, items
// included, for the analytics endpoints.
func (r *Repository) ListSince(ctx context.Context, since time.Time) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE created_at >= $1
		ORDER BY created_at DESC
	`, since)
}

// ListAll returns every order with its items.
func (r *Repository) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY created_at DESC
	`)
}

// queryOrders runs an order query and attaches items with a single
// follow-up query instead of one per order.
func (r *Repository) queryOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orderMap := make(map[string]*domain.Order)
	var orderIDs []string

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		order.Items = []domain.OrderItem{}
		orderMap[order.ID] = &order
		orderIDs = append(orderIDs, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(orderIDs) == 0 {
		return []domain.Order{}, nil
	}

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT order_id, product_id, name, price, quantity
		FROM order_items
		WHERE order_id = ANY($1)
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = itemRows.Close() }()

	for itemRows.Next() {
		var orderID string
		var item domain.OrderItem
		if err := itemRows.Scan(&orderID, &item.ProductID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		order := orderMap[orderID]
		order.Items = append(order.Items, item)
	}

	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		orders = append(orders, *orderMap[id])
	}

	return orders, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, id)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	if rowsAffected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, id)
}
