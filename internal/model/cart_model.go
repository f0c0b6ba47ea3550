package model

import "time"

// CartAddItem is one entry of the batch add-to-cart request.
type CartAddItem struct {
	PerfumeID int64  `json:"perfume_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
}

// CartAdded reports one successful addition, including the cumulative
// quantity now in the cart for that (perfume, size) key.
type CartAdded struct {
	PerfumeID   int64  `json:"perfume_id"`
	TotalInCart int    `json:"total_in_cart"`
	Size        string `json:"size"`
}

// CartItemError reports one failed addition without blocking the rest of the
// batch.
type CartItemError struct {
	PerfumeID int64  `json:"perfume_id"`
	Error     string `json:"error"`
}

// CartLine is a cart row joined with the current perfume price and stock.
// InStock is derived at read time; stock may have moved since the add.
type CartLine struct {
	ID        int64     `json:"id"`
	PerfumeID int64     `json:"perfume_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	Size      string    `json:"size"`
	Stock     int       `json:"stock"`
	InStock   bool      `json:"in_stock"`
	PhotoURL  string    `json:"photo_url"`
	AddedAt   time.Time `json:"added_at"`
}
