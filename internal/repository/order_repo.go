package repository

import (
	"context"
	"errors"
	"fmt"

	"PerfumeStoreAPI/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrOrderNotFound marks lookups and status updates against a missing order.
var ErrOrderNotFound = errors.New("Order not found")

type OrderRepository struct {
	DB *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: db}
}

// Begin opens a transaction on the underlying pool.
func (r *OrderRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.DB.Begin(ctx)
}

// CreateTx inserts the order row with the placeholder pending status. The
// final status is set in the same transaction once every line item clears.
func (r *OrderRepository) CreateTx(ctx context.Context, tx pgx.Tx, userID int64, reference string,
	ship model.ShippingAddress, paymentMethod string, totalAmount, shippingCost, taxAmount float64) (int64, error) {

	var id int64
	query := `
		INSERT INTO orders (
			reference, user_id, total_amount, shipping_cost, tax_amount,
			shipping_first_name, shipping_last_name, shipping_email, shipping_phone,
			shipping_address, shipping_city, shipping_state, shipping_zip,
			payment_method, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`
	err := tx.QueryRow(ctx, query,
		reference, userID, totalAmount, shippingCost, taxAmount,
		ship.FirstName, ship.LastName, ship.Email, ship.Phone,
		ship.Address, ship.City, ship.State, ship.Zip,
		paymentMethod, model.StatusPending,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *OrderRepository) InsertItemTx(ctx context.Context, tx pgx.Tx, orderID, perfumeID int64, qty int, size string, unitPrice float64) error {
	query := `INSERT INTO order_items (order_id, perfume_id, quantity, size, unit_price) VALUES ($1, $2, $3, $4, $5)`
	_, err := tx.Exec(ctx, query, orderID, perfumeID, qty, size, unitPrice)
	return err
}

func (r *OrderRepository) SetStatusTx(ctx context.Context, tx pgx.Tx, orderID int64, status string) error {
	_, err := tx.Exec(ctx, `UPDATE orders SET status=$1 WHERE id=$2`, status, orderID)
	return err
}

// ListByUser returns a customer's orders, newest first, without items.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `
		SELECT id, reference, total_amount, status, payment_method, created_at,
		       shipping_first_name, shipping_last_name, shipping_city, shipping_address, shipping_zip
		FROM orders
		WHERE user_id=$1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.Reference, &o.TotalAmount, &o.Status, &o.PaymentMethod, &o.CreatedAt,
			&o.ShippingFirst, &o.ShippingLast, &o.ShippingCity, &o.ShippingAddr, &o.ShippingZip); err != nil {
			return nil, err
		}
		o.UserID = userID
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ListRecentByUser returns the user's last n orders with the monetary
// components needed to compute a grand total.
func (r *OrderRepository) ListRecentByUser(ctx context.Context, userID int64, limit int) ([]model.Order, error) {
	query := `
		SELECT id, total_amount, shipping_cost, tax_amount, status, payment_method, created_at, shipping_city
		FROM orders
		WHERE user_id=$1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.DB.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.TotalAmount, &o.ShippingCost, &o.TaxAmount,
			&o.Status, &o.PaymentMethod, &o.CreatedAt, &o.ShippingCity); err != nil {
			return nil, err
		}
		o.UserID = userID
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ItemsByOrder returns an order's line items joined with perfume names.
func (r *OrderRepository) ItemsByOrder(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	query := `
		SELECT oi.perfume_id, p.name, oi.quantity, oi.size, oi.unit_price
		FROM order_items oi
		JOIN perfumes p ON p.id = oi.perfume_id
		WHERE oi.order_id=$1
	`
	rows, err := r.DB.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.OrderItem{}
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.PerfumeID, &it.Name, &it.Quantity, &it.Size, &it.UnitPrice); err != nil {
			return nil, err
		}
		it.Subtotal = it.UnitPrice * float64(it.Quantity)
		items = append(items, it)
	}
	return items, rows.Err()
}

// AdminList returns one page of orders with optional status and user filters,
// plus the unfiltered-by-paging total for the pagination block.
func (r *OrderRepository) AdminList(ctx context.Context, status string, userID int64, perPage, offset int) ([]model.Order, int, error) {
	where := ""
	args := []interface{}{}
	if status != "" {
		args = append(args, status)
		where += fmt.Sprintf(" AND status=$%d", len(args))
	}
	if userID != 0 {
		args = append(args, userID)
		where += fmt.Sprintf(" AND user_id=$%d", len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM orders WHERE 1=1` + where
	if err := r.DB.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, perPage, offset)
	query := fmt.Sprintf(`
		SELECT o.id, o.reference, o.user_id,
		       (SELECT username FROM users u WHERE u.id = o.user_id),
		       o.total_amount, o.shipping_cost, o.tax_amount,
		       o.status, o.payment_method, o.created_at
		FROM orders o
		WHERE 1=1%s
		ORDER BY o.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.Reference, &o.UserID, &o.Username,
			&o.TotalAmount, &o.ShippingCost, &o.TaxAmount,
			&o.Status, &o.PaymentMethod, &o.CreatedAt); err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

// AdminGet returns the full order row including the shipping snapshot.
func (r *OrderRepository) AdminGet(ctx context.Context, orderID int64) (*model.Order, error) {
	var o model.Order
	query := `
		SELECT o.id, o.reference, o.user_id,
		       (SELECT username FROM users u WHERE u.id = o.user_id),
		       o.total_amount, o.shipping_cost, o.tax_amount,
		       o.shipping_first_name, o.shipping_last_name, o.shipping_email, o.shipping_phone,
		       o.shipping_address, o.shipping_city, o.shipping_state, o.shipping_zip,
		       o.payment_method, o.status, o.created_at
		FROM orders o
		WHERE o.id=$1
	`
	err := r.DB.QueryRow(ctx, query, orderID).Scan(
		&o.ID, &o.Reference, &o.UserID, &o.Username,
		&o.TotalAmount, &o.ShippingCost, &o.TaxAmount,
		&o.ShippingFirst, &o.ShippingLast, &o.ShippingEmail, &o.ShippingPhone,
		&o.ShippingAddr, &o.ShippingCity, &o.ShippingState, &o.ShippingZip,
		&o.PaymentMethod, &o.Status, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// LockStatusTx reads an order's status FOR UPDATE, keeping the row locked
// until the surrounding transaction ends.
func (r *OrderRepository) LockStatusTx(ctx context.Context, tx pgx.Tx, orderID int64) (string, error) {
	var status string
	if err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, orderID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrOrderNotFound
		}
		return "", err
	}
	return status, nil
}

func (r *OrderRepository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, orderID int64, status string) error {
	_, err := tx.Exec(ctx, `UPDATE orders SET status=$1 WHERE id=$2`, status, orderID)
	return err
}
