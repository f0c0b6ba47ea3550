package model

import "time"

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// RoleName maps a stored role to the label used in responses.
func RoleName(role string) string {
	switch role {
	case RoleAdmin:
		return "Admin"
	case RoleCustomer:
		return "Customer"
	default:
		return "Unknown"
	}
}

type User struct {
	UserID       int64      `json:"user_id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PhoneNumber  string     `json:"phone_number"`
	PasswordHash string     `json:"-"` // never JSON-encode
	Role         string     `json:"role"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}
