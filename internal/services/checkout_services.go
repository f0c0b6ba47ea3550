package services

import (
	"context"
	"errors"
	"math"

	"PerfumeStoreAPI/internal/model"
	"PerfumeStoreAPI/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// OrderStore is the order-writing surface checkout needs. The concrete
// implementation is repository.OrderRepository.
type OrderStore interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	CreateTx(ctx context.Context, tx pgx.Tx, userID int64, reference string,
		ship model.ShippingAddress, paymentMethod string, totalAmount, shippingCost, taxAmount float64) (int64, error)
	InsertItemTx(ctx context.Context, tx pgx.Tx, orderID, perfumeID int64, qty int, size string, unitPrice float64) error
	SetStatusTx(ctx context.Context, tx pgx.Tx, orderID int64, status string) error
}

// PaymentStore writes the masked card record.
type PaymentStore interface {
	InsertTx(ctx context.Context, tx pgx.Tx, orderID int64, last4, holderName, expiry string) error
}

// priceTolerance bounds the allowed drift between the client-supplied unit
// price and the catalog price. Anything past a rounding error is rejected.
const priceTolerance = 0.01

type CheckoutService struct {
	Orders   OrderStore
	Cart     CartStore
	Perfumes StockStore
	Payments PaymentStore
	Logger   *zap.Logger
}

func NewCheckoutService(or OrderStore, cr CartStore, pr StockStore, pay PaymentStore, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{Orders: or, Cart: cr, Perfumes: pr, Payments: pay, Logger: logger}
}

type CheckoutResult struct {
	OrderID       int64
	Reference     string
	Status        string
	PaymentMethod string
	Total         float64
}

// Checkout validates the payload, then runs the whole order creation as one
// transaction: order row, line items with locked stock decrements, masked
// payment record, cart clear and final status. Any line failing stock or
// availability rolls the entire order back; no partial order is ever visible.
func (s *CheckoutService) Checkout(ctx context.Context, userID int64, req *model.CheckoutRequest) (*CheckoutResult, error) {
	if err := req.Validate(); err != nil {
		return nil, badRequestf("%s", err.Error())
	}

	tx, err := s.Orders.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	reference := "ORD-" + uuid.NewString()
	orderID, err := s.Orders.CreateTx(ctx, tx, userID, reference,
		req.NormalizedShipping(), req.PaymentMethod, *req.TotalPrice, *req.ShippingCost, *req.Tax)
	if err != nil {
		return nil, err
	}

	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, badRequestf("Quantity must be positive")
		}

		locked, err := s.Perfumes.LockForUpdateTx(ctx, tx, it.PerfumeID)
		if err != nil {
			if errors.Is(err, repository.ErrPerfumeNotAvailable) {
				return nil, notFoundf("Perfume ID %d not found or unavailable", it.PerfumeID)
			}
			return nil, err
		}
		if locked.Stock < it.Quantity {
			return nil, badRequestf("Only %d left of %s", locked.Stock, locked.Name)
		}
		if math.Abs(it.Price-locked.Price) > priceTolerance {
			return nil, badRequestf("Price mismatch for %s", locked.Name)
		}

		size := it.SelectedSize
		if size == "" {
			size = locked.Size
		}
		if err := s.Orders.InsertItemTx(ctx, tx, orderID, it.PerfumeID, it.Quantity, size, it.Price); err != nil {
			return nil, err
		}
		if err := s.Perfumes.DecrementStockTx(ctx, tx, it.PerfumeID, it.Quantity); err != nil {
			return nil, err
		}
	}

	if req.PaymentMethod == model.PaymentCard {
		card := req.CardDetails
		if err := s.Payments.InsertTx(ctx, tx, orderID, card.Last4(), card.CardName, card.Expiry); err != nil {
			return nil, err
		}
	}

	if err := s.Cart.ClearTx(ctx, tx, userID); err != nil {
		return nil, err
	}

	finalStatus := model.StatusCODPending
	if req.PaymentMethod == model.PaymentCard {
		finalStatus = model.StatusPaid
	}
	if err := s.Orders.SetStatusTx(ctx, tx, orderID, finalStatus); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.Logger.Info("order placed",
		zap.Int64("order_id", orderID),
		zap.Int64("user_id", userID),
		zap.String("status", finalStatus),
		zap.Int("items", len(req.Items)))

	return &CheckoutResult{
		OrderID:       orderID,
		Reference:     reference,
		Status:        finalStatus,
		PaymentMethod: req.PaymentMethod,
		Total:         req.GrandTotal(),
	}, nil
}
