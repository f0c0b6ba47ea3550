package repository

import (
	"context"
	"errors"
	"time"

	"PerfumeStoreAPI/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotInCart marks a remove call that matched no rows.
var ErrNotInCart = errors.New("Item not in your cart")

type CartRepository struct {
	DB *pgxpool.Pool
}

func NewCartRepository(db *pgxpool.Pool) *CartRepository {
	return &CartRepository{DB: db}
}

// Begin opens a transaction on the underlying pool.
func (r *CartRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.DB.Begin(ctx)
}

// QuantityTx reads the current cart quantity for the exact
// (user, perfume, size) key, 0 when no row exists.
func (r *CartRepository) QuantityTx(ctx context.Context, tx pgx.Tx, userID, perfumeID int64, size string) (int, error) {
	var qty int
	query := `SELECT quantity FROM carts WHERE user_id=$1 AND perfume_id=$2 AND size=$3`
	if err := tx.QueryRow(ctx, query, userID, perfumeID, size).Scan(&qty); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return qty, nil
}

// UpsertTx sets the ledger row to the given quantity. The caller computes the
// cumulative total; repeated adds overwrite with an already-summed value.
func (r *CartRepository) UpsertTx(ctx context.Context, tx pgx.Tx, userID, perfumeID int64, size string, qty int) error {
	query := `
		INSERT INTO carts (user_id, perfume_id, quantity, size, added_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, perfume_id, size)
		DO UPDATE SET quantity = EXCLUDED.quantity
	`
	_, err := tx.Exec(ctx, query, userID, perfumeID, qty, size, time.Now())
	return err
}

// List returns the cart joined with current perfume price and stock, newest
// first. InStock and PhotoURL are filled by the caller.
func (r *CartRepository) List(ctx context.Context, userID int64) ([]model.CartLine, error) {
	query := `
		SELECT c.id, c.perfume_id, p.name, p.price, c.quantity,
		       CASE WHEN c.size <> '' THEN c.size ELSE p.size END AS size,
		       p.quantity AS stock, c.added_at
		FROM carts c
		JOIN perfumes p ON p.id = c.perfume_id
		WHERE c.user_id=$1
		ORDER BY c.added_at DESC
	`
	rows, err := r.DB.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []model.CartLine{}
	for rows.Next() {
		var l model.CartLine
		if err := rows.Scan(&l.ID, &l.PerfumeID, &l.Name, &l.Price, &l.Quantity, &l.Size, &l.Stock, &l.AddedAt); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// Remove deletes the rows for that user and perfume across all sizes.
func (r *CartRepository) Remove(ctx context.Context, userID, perfumeID int64) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM carts WHERE user_id=$1 AND perfume_id=$2`, userID, perfumeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotInCart
	}
	return nil
}

// ClearTx wipes the whole cart for a user after a successful checkout.
func (r *CartRepository) ClearTx(ctx context.Context, tx pgx.Tx, userID int64) error {
	_, err := tx.Exec(ctx, `DELETE FROM carts WHERE user_id=$1`, userID)
	return err
}
