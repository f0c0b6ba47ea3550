package repository

import (
	"context"
	"errors"
	"time"

	"PerfumeStoreAPI/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrPerfumeNotAvailable marks a perfume that is missing, deleted or
	// gated off by the available flag.
	ErrPerfumeNotAvailable = errors.New("Perfume not available")

	// ErrPerfumeNotFound marks catalog lookups and updates that matched no
	// row.
	ErrPerfumeNotFound = errors.New("perfume not found")

	// ErrPhotoNotFound marks a perfume that is missing or has no photo.
	ErrPhotoNotFound = errors.New("photo not found")
)

type PerfumeRepository struct {
	DB *pgxpool.Pool
}

func NewPerfumeRepository(db *pgxpool.Pool) *PerfumeRepository {
	return &PerfumeRepository{DB: db}
}

// LockedPerfume is the snapshot read under a row lock by stock-touching
// paths. The lock is held until the surrounding transaction ends, so the
// check-and-decrement cannot race a concurrent checkout.
type LockedPerfume struct {
	Name  string
	Price float64
	Stock int
	Size  string
}

// LockForUpdateTx reads an available perfume FOR UPDATE inside tx.
func (r *PerfumeRepository) LockForUpdateTx(ctx context.Context, tx pgx.Tx, perfumeID int64) (*LockedPerfume, error) {
	var p LockedPerfume
	query := `SELECT name, price, quantity, size FROM perfumes WHERE id=$1 AND available FOR UPDATE`
	if err := tx.QueryRow(ctx, query, perfumeID).Scan(&p.Name, &p.Price, &p.Stock, &p.Size); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPerfumeNotAvailable
		}
		return nil, err
	}
	return &p, nil
}

// DecrementStockTx applies a checked stock decrement. The WHERE clause makes
// the update conditional on sufficient stock, and the affected-row count is
// verified, so quantity can never go negative even without the row lock.
func (r *PerfumeRepository) DecrementStockTx(ctx context.Context, tx pgx.Tx, perfumeID int64, qty int) error {
	tag, err := tx.Exec(ctx,
		`UPDATE perfumes SET quantity = quantity - $1 WHERE id=$2 AND quantity >= $1`, qty, perfumeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("insufficient stock")
	}
	return nil
}

func (r *PerfumeRepository) List(ctx context.Context) ([]model.PerfumeListing, error) {
	query := `SELECT id, name, description, price, (photo IS NOT NULL) AS has_photo FROM perfumes ORDER BY id`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.PerfumeListing{}
	for rows.Next() {
		var p model.PerfumeListing
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.HasPhoto); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PerfumeRepository) GetByID(ctx context.Context, id int64) (*model.Perfume, error) {
	var p model.Perfume
	query := `SELECT id, name, description, price, quantity, size, available, (photo IS NOT NULL), created_at
		FROM perfumes WHERE id=$1`
	if err := r.DB.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity, &p.Size, &p.Available, &p.HasPhoto, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPerfumeNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetPhoto returns the stored photo bytes, or ErrPhotoNotFound when the
// perfume is missing or has no photo.
func (r *PerfumeRepository) GetPhoto(ctx context.Context, id int64) ([]byte, error) {
	var photo []byte
	query := `SELECT photo FROM perfumes WHERE id=$1 AND photo IS NOT NULL`
	if err := r.DB.QueryRow(ctx, query, id).Scan(&photo); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPhotoNotFound
		}
		return nil, err
	}
	return photo, nil
}

func (r *PerfumeRepository) Create(ctx context.Context, p *model.Perfume) (int64, error) {
	var id int64
	query := `INSERT INTO perfumes (name, description, price, quantity, size, available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.DB.QueryRow(ctx, query,
		p.Name, p.Description, p.Price, p.Quantity, p.Size, p.Available, time.Now()).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PerfumeRepository) Update(ctx context.Context, p *model.Perfume) error {
	query := `UPDATE perfumes SET name=$1, description=$2, price=$3, quantity=$4, size=$5, available=$6 WHERE id=$7`
	tag, err := r.DB.Exec(ctx, query, p.Name, p.Description, p.Price, p.Quantity, p.Size, p.Available, p.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPerfumeNotFound
	}
	return nil
}

func (r *PerfumeRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM perfumes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPerfumeNotFound
	}
	return nil
}
