package model

import "time"

type Perfume struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Quantity    int        `json:"quantity"`
	Size        string     `json:"size"`
	Available   bool       `json:"available"`
	HasPhoto    bool       `json:"has_photo"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// PerfumeListing is the public catalog row (no stock internals).
type PerfumeListing struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	HasPhoto    bool    `json:"has_photo"`
}
