package repository

import (
	"context"
	"errors"

	"PerfumeStoreAPI/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// InsertTx stores the masked card record for a card order. Only the last
// four digits, holder name and expiry are written.
func (r *PaymentRepository) InsertTx(ctx context.Context, tx pgx.Tx, orderID int64, last4, holderName, expiry string) error {
	query := `
		INSERT INTO payment_details (order_id, payment_method, card_last4, card_holder_name, expiry)
		VALUES ($1, 'card', $2, $3, $4)
	`
	_, err := tx.Exec(ctx, query, orderID, last4, holderName, expiry)
	return err
}

// GetByOrder returns the masked payment record for an order, or nil when the
// order was cash-on-delivery.
func (r *PaymentRepository) GetByOrder(ctx context.Context, orderID int64) (*model.PaymentDetail, error) {
	var p model.PaymentDetail
	query := `SELECT id, order_id, payment_method, card_last4, card_holder_name, expiry, created_at
		FROM payment_details WHERE order_id=$1`
	err := r.DB.QueryRow(ctx, query, orderID).
		Scan(&p.ID, &p.OrderID, &p.PaymentMethod, &p.CardLast4, &p.CardHolderName, &p.Expiry, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// ListAll returns every masked payment record joined with its order's user.
func (r *PaymentRepository) ListAll(ctx context.Context) ([]model.PaymentDetail, error) {
	query := `
		SELECT pd.id, pd.order_id, o.user_id, pd.payment_method,
		       pd.card_last4, pd.card_holder_name, pd.expiry, pd.created_at
		FROM payment_details pd
		JOIN orders o ON o.id = pd.order_id
		ORDER BY pd.created_at DESC
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []model.PaymentDetail{}
	for rows.Next() {
		var p model.PaymentDetail
		if err := rows.Scan(&p.ID, &p.OrderID, &p.UserID, &p.PaymentMethod,
			&p.CardLast4, &p.CardHolderName, &p.Expiry, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
