package model

import (
	"fmt"
	"strings"
)

const (
	PaymentCard = "card"
	PaymentCOD  = "cod"
)

// ShippingAddress carries the checkout shipping block. Field names match the
// storefront's wire format.
type ShippingAddress struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
}

// CheckoutItem is one order line in the checkout payload.
type CheckoutItem struct {
	PerfumeID    int64   `json:"perfume_id"`
	Quantity     int     `json:"quantity"`
	SelectedSize string  `json:"selectedSize,omitempty"`
	Price        float64 `json:"price"`
}

// CardDetails is validated but only the last four digits of the number are
// ever persisted. The CVV is checked for shape and discarded.
type CardDetails struct {
	CardName   string `json:"cardName"`
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

// CheckoutRequest is the full checkout payload. Monetary fields are pointers
// so a missing field is distinguishable from an explicit zero.
type CheckoutRequest struct {
	Shipping      *ShippingAddress `json:"shipping"`
	PaymentMethod string           `json:"payment_method"`
	Items         []CheckoutItem   `json:"items"`
	TotalPrice    *float64         `json:"totalPrice"`
	Tax           *float64         `json:"tax"`
	ShippingCost  *float64         `json:"shippingCost"`
	CardDetails   *CardDetails     `json:"card_details,omitempty"`
}

// Validate checks the payload before any mutation happens. It reports the
// first problem found, in the same order the storefront expects.
func (r *CheckoutRequest) Validate() error {
	if r.Shipping == nil {
		return fmt.Errorf("Missing required field: shipping")
	}
	if r.PaymentMethod == "" {
		return fmt.Errorf("Missing required field: payment_method")
	}
	if r.Items == nil {
		return fmt.Errorf("Missing required field: items")
	}
	if r.TotalPrice == nil {
		return fmt.Errorf("Missing required field: totalPrice")
	}
	if r.Tax == nil {
		return fmt.Errorf("Missing required field: tax")
	}
	if r.ShippingCost == nil {
		return fmt.Errorf("Missing required field: shippingCost")
	}

	method := strings.ToLower(r.PaymentMethod)
	if method != PaymentCard && method != PaymentCOD {
		return fmt.Errorf("payment_method must be 'card' or 'cod'")
	}
	r.PaymentMethod = method

	if len(r.Items) == 0 {
		return fmt.Errorf("Items must be a non-empty list")
	}

	ship := []struct{ key, value string }{
		{"firstName", r.Shipping.FirstName},
		{"lastName", r.Shipping.LastName},
		{"email", r.Shipping.Email},
		{"phone", r.Shipping.Phone},
		{"address", r.Shipping.Address},
		{"city", r.Shipping.City},
		{"state", r.Shipping.State},
		{"zip", r.Shipping.Zip},
	}
	for _, f := range ship {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("Shipping %s is required and cannot be empty", f.key)
		}
	}

	if method == PaymentCard {
		if err := r.validateCard(); err != nil {
			return err
		}
	}
	return nil
}

func (r *CheckoutRequest) validateCard() error {
	card := r.CardDetails
	if card == nil {
		card = &CardDetails{}
	}
	fields := []struct{ key, value string }{
		{"cardName", card.CardName},
		{"cardNumber", card.CardNumber},
		{"expiry", card.Expiry},
		{"cvv", card.CVV},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("Card %s is required", f.key)
		}
	}
	number := strings.ReplaceAll(card.CardNumber, " ", "")
	if len(number) < 13 || len(number) > 19 || !allDigits(number) {
		return fmt.Errorf("Invalid card number")
	}
	if !allDigits(card.CVV) || (len(card.CVV) != 3 && len(card.CVV) != 4) {
		return fmt.Errorf("CVV must be 3 or 4 digits")
	}
	return nil
}

// Last4 returns the last four digits of the card number with spaces removed.
func (c *CardDetails) Last4() string {
	number := strings.ReplaceAll(c.CardNumber, " ", "")
	if len(number) < 4 {
		return number
	}
	return number[len(number)-4:]
}

// NormalizedShipping returns the shipping snapshot with fields trimmed and
// the email lowercased, ready for persistence.
func (r *CheckoutRequest) NormalizedShipping() ShippingAddress {
	s := *r.Shipping
	s.FirstName = strings.TrimSpace(s.FirstName)
	s.LastName = strings.TrimSpace(s.LastName)
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	s.Phone = strings.TrimSpace(s.Phone)
	s.Address = strings.TrimSpace(s.Address)
	s.City = strings.TrimSpace(s.City)
	s.State = strings.TrimSpace(s.State)
	s.Zip = strings.TrimSpace(s.Zip)
	return s
}

// GrandTotal is the server-computed response total: item total plus shipping
// plus tax, from the validated payload components.
func (r *CheckoutRequest) GrandTotal() float64 {
	return *r.TotalPrice + *r.ShippingCost + *r.Tax
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
