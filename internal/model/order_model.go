package model

import (
	"strings"
	"time"
)

// Order status lifecycle. Pending is a placeholder set while the checkout
// transaction is open; it is overwritten before commit.
const (
	StatusPending    = "pending"
	StatusPaid       = "paid"
	StatusCODPending = "cod_pending"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

var allowedStatuses = map[string]bool{
	StatusPending:    true,
	StatusPaid:       true,
	StatusCODPending: true,
	StatusShipped:    true,
	StatusDelivered:  true,
	StatusCancelled:  true,
}

// NormalizeStatus lowercases and trims a client-supplied status value.
func NormalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidStatus reports whether a normalized status is one of the allowed
// lifecycle values.
func ValidStatus(s string) bool {
	return allowedStatuses[s]
}

// AllowedStatusList returns the allowed statuses sorted, for error messages.
func AllowedStatusList() []string {
	return []string{StatusCancelled, StatusCODPending, StatusDelivered, StatusPaid, StatusPending, StatusShipped}
}

// Order is a row in the orders table. The shipping block is a snapshot taken
// at order time, decoupled from later profile edits.
type Order struct {
	ID            int64     `json:"id"`
	Reference     string    `json:"reference"`
	UserID        int64     `json:"user_id"`
	Username      string    `json:"username,omitempty"`
	TotalAmount   float64   `json:"total_amount"`
	ShippingCost  float64   `json:"shipping_cost"`
	TaxAmount     float64   `json:"tax_amount"`
	ShippingFirst string    `json:"shipping_first_name"`
	ShippingLast  string    `json:"shipping_last_name"`
	ShippingEmail string    `json:"shipping_email,omitempty"`
	ShippingPhone string    `json:"shipping_phone,omitempty"`
	ShippingAddr  string    `json:"shipping_address"`
	ShippingCity  string    `json:"shipping_city"`
	ShippingState string    `json:"shipping_state,omitempty"`
	ShippingZip   string    `json:"shipping_zip"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`

	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem is a child row of an order; never mutated after creation.
type OrderItem struct {
	PerfumeID int64   `json:"perfume_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// RecentOrder is the pre-formatted row served by the recent-orders endpoint.
type RecentOrder struct {
	OrderID    int64             `json:"order_id"`
	Date       string            `json:"date"`
	Time       string            `json:"time"`
	City       string            `json:"city"`
	Status     string            `json:"status"`
	GrandTotal float64           `json:"grand_total"`
	Items      []RecentOrderItem `json:"items"`
	ItemsCount int               `json:"items_count"`
}

type RecentOrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Photo    string `json:"photo"`
}

// Pagination describes one page of the admin order listing.
type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
}
