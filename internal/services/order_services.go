package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"PerfumeStoreAPI/internal/model"
	"PerfumeStoreAPI/internal/repository"

	"go.uber.org/zap"
)

type OrderService struct {
	Orders   *repository.OrderRepository
	Payments *repository.PaymentRepository
	Logger   *zap.Logger
}

func NewOrderService(or *repository.OrderRepository, pay *repository.PaymentRepository, logger *zap.Logger) *OrderService {
	return &OrderService{Orders: or, Payments: pay, Logger: logger}
}

// ListForUser returns a customer's own orders, each with its line items.
func (s *OrderService) ListForUser(ctx context.Context, userID int64) ([]model.Order, error) {
	orders, err := s.Orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		items, err := s.Orders.ItemsByOrder(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// ClampRecentLimit bounds the recent-orders page size to 1..20.
func ClampRecentLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > 20 {
		return 20
	}
	return limit
}

// Recent returns the user's last orders pre-formatted for the storefront
// widget. The caller is expected to degrade to an empty 200 on error.
func (s *OrderService) Recent(ctx context.Context, userID int64, limit int, baseURL string) ([]model.RecentOrder, error) {
	orders, err := s.Orders.ListRecentByUser(ctx, userID, ClampRecentLimit(limit))
	if err != nil {
		return nil, err
	}
	result := []model.RecentOrder{}
	for _, o := range orders {
		items, err := s.Orders.ItemsByOrder(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, newRecentOrder(o, items, baseURL))
	}
	return result, nil
}

func newRecentOrder(o model.Order, items []model.OrderItem, baseURL string) model.RecentOrder {
	ro := model.RecentOrder{
		OrderID:    o.ID,
		Date:       o.CreatedAt.Format("02 Jan 2006"),
		Time:       o.CreatedAt.Format("03:04 PM"),
		City:       o.ShippingCity,
		Status:     o.Status,
		GrandTotal: round2(o.TotalAmount + o.ShippingCost + o.TaxAmount),
		Items:      []model.RecentOrderItem{},
	}
	for _, it := range items {
		ro.Items = append(ro.Items, model.RecentOrderItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Photo:    fmt.Sprintf("%s/perfumes/photo/%d", baseURL, it.PerfumeID),
		})
	}
	ro.ItemsCount = len(items)
	return ro
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AdminQuery carries the admin listing filters after clamping.
type AdminQuery struct {
	Page    int
	PerPage int
	Status  string
	UserID  int64
}

func (q *AdminQuery) clamp() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 20
	}
	if q.PerPage > 50 {
		q.PerPage = 50
	}
}

// AdminList returns one page of all orders with pagination metadata.
func (s *OrderService) AdminList(ctx context.Context, q AdminQuery) ([]model.Order, model.Pagination, error) {
	q.clamp()
	offset := (q.Page - 1) * q.PerPage
	orders, total, err := s.Orders.AdminList(ctx, q.Status, q.UserID, q.PerPage, offset)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	p := model.Pagination{
		Page:    q.Page,
		PerPage: q.PerPage,
		Total:   total,
		Pages:   (total + q.PerPage - 1) / q.PerPage,
	}
	return orders, p, nil
}

// AdminGet returns the full order with items and the masked payment record.
func (s *OrderService) AdminGet(ctx context.Context, orderID int64) (*model.Order, *model.PaymentDetail, error) {
	order, err := s.Orders.AdminGet(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, nil, notFoundf("Order not found")
		}
		return nil, nil, err
	}
	items, err := s.Orders.ItemsByOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	order.Items = items

	payment, err := s.Payments.GetByOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, payment, nil
}

// UpdateStatus sets an order's status after validating the value. The row is
// locked for the duration of the transaction; any allowed status may replace
// any other, and cancelling does not restock.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status string) (string, error) {
	status = model.NormalizeStatus(status)
	if status == "" {
		return "", badRequestf("Missing 'status'")
	}
	if !model.ValidStatus(status) {
		return "", badRequestf("Invalid status '%s'. Allowed: %s", status, strings.Join(model.AllowedStatusList(), ", "))
	}

	tx, err := s.Orders.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	if _, err := s.Orders.LockStatusTx(ctx, tx, orderID); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return "", notFoundf("Order not found")
		}
		return "", err
	}
	if err := s.Orders.UpdateStatusTx(ctx, tx, orderID, status); err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}

	s.Logger.Info("order status updated", zap.Int64("order_id", orderID), zap.String("status", status))
	return status, nil
}

// ListPayments returns every masked payment record for the admin view.
func (s *OrderService) ListPayments(ctx context.Context) ([]model.PaymentDetail, error) {
	return s.Payments.ListAll(ctx)
}
