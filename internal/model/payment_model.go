package model

import "time"

// PaymentDetail stores masked card data only: last four digits, holder name
// and expiry. Full numbers and CVVs never reach this table.
type PaymentDetail struct {
	ID             int64     `json:"id"`
	OrderID        int64     `json:"order_id"`
	UserID         int64     `json:"user_id,omitempty"`
	PaymentMethod  string    `json:"payment_method"`
	CardLast4      string    `json:"card_last4"`
	CardHolderName string    `json:"card_holder_name"`
	Expiry         string    `json:"expiry"`
	CreatedAt      time.Time `json:"created_at"`
}
