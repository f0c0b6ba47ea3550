package services

import (
	"context"
	"errors"
	"fmt"

	"PerfumeStoreAPI/internal/model"
	"PerfumeStoreAPI/internal/repository"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// CartStore is the cart ledger surface. The concrete implementation is
// repository.CartRepository.
type CartStore interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QuantityTx(ctx context.Context, tx pgx.Tx, userID, perfumeID int64, size string) (int, error)
	UpsertTx(ctx context.Context, tx pgx.Tx, userID, perfumeID int64, size string, qty int) error
	List(ctx context.Context, userID int64) ([]model.CartLine, error)
	Remove(ctx context.Context, userID, perfumeID int64) error
	ClearTx(ctx context.Context, tx pgx.Tx, userID int64) error
}

// StockStore covers the locked stock reads and decrements shared by cart adds
// and checkout.
type StockStore interface {
	LockForUpdateTx(ctx context.Context, tx pgx.Tx, perfumeID int64) (*repository.LockedPerfume, error)
	DecrementStockTx(ctx context.Context, tx pgx.Tx, perfumeID int64, qty int) error
}

type CartService struct {
	Cart     CartStore
	Perfumes StockStore
	Logger   *zap.Logger
}

func NewCartService(cr CartStore, pr StockStore, logger *zap.Logger) *CartService {
	return &CartService{Cart: cr, Perfumes: pr, Logger: logger}
}

// Add merges a batch of items into the user's cart ledger. Failures are
// reported per item; successful items commit even when siblings fail. Each
// perfume row is locked before the stock check, so the ceiling cannot be
// raced past by a concurrent add or checkout.
func (s *CartService) Add(ctx context.Context, userID int64, items []model.CartAddItem) ([]model.CartAdded, []model.CartItemError, error) {
	if len(items) == 0 {
		return nil, nil, badRequestf("No items provided")
	}

	tx, err := s.Cart.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	added := []model.CartAdded{}
	itemErrs := []model.CartItemError{}

	for _, it := range items {
		qty := it.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 0 {
			itemErrs = append(itemErrs, model.CartItemError{PerfumeID: it.PerfumeID, Error: "Invalid data"})
			continue
		}

		locked, err := s.Perfumes.LockForUpdateTx(ctx, tx, it.PerfumeID)
		if err != nil {
			if errors.Is(err, repository.ErrPerfumeNotAvailable) {
				itemErrs = append(itemErrs, model.CartItemError{PerfumeID: it.PerfumeID, Error: "Perfume not available"})
				continue
			}
			return nil, nil, err
		}

		size := it.Size
		if size == "" {
			size = locked.Size
		}

		current, err := s.Cart.QuantityTx(ctx, tx, userID, it.PerfumeID, size)
		if err != nil {
			return nil, nil, err
		}

		newTotal := current + qty
		if newTotal > locked.Stock {
			itemErrs = append(itemErrs, model.CartItemError{
				PerfumeID: it.PerfumeID,
				Error:     fmt.Sprintf("Only %d in stock (you have %d)", locked.Stock, current),
			})
			continue
		}

		if err := s.Cart.UpsertTx(ctx, tx, userID, it.PerfumeID, size, newTotal); err != nil {
			return nil, nil, err
		}
		added = append(added, model.CartAdded{PerfumeID: it.PerfumeID, TotalInCart: newTotal, Size: size})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return added, itemErrs, nil
}

// View returns the cart annotated with a read-time in_stock flag.
func (s *CartService) View(ctx context.Context, userID int64) ([]model.CartLine, error) {
	lines, err := s.Cart.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		lines[i].InStock = lines[i].Stock >= lines[i].Quantity
	}
	return lines, nil
}

// Remove deletes the user's cart rows for a perfume across all sizes.
func (s *CartService) Remove(ctx context.Context, userID, perfumeID int64) error {
	if err := s.Cart.Remove(ctx, userID, perfumeID); err != nil {
		if errors.Is(err, repository.ErrNotInCart) {
			return notFoundf("Item not in your cart")
		}
		return err
	}
	return nil
}
