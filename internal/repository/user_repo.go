package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"PerfumeStoreAPI/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUserNotFound marks lookups that matched no user row.
var ErrUserNotFound = errors.New("user not found")

// DuplicateError is a unique-constraint violation on user creation, carrying
// the storefront's duplicate message. Any other persistence failure passes
// through untouched and surfaces as a server fault, not a client error.
type DuplicateError struct {
	Message string
}

func (e *DuplicateError) Error() string {
	return e.Message
}

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

// Create inserts a new user with a fixed role and returns the created id.
// Unique violations are mapped to the storefront's duplicate messages.
func (r *UserRepository) Create(ctx context.Context, username, email, phone, passwordHash, role string) (int64, error) {
	var id int64
	query := `INSERT INTO users (username, email, phone_number, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.DB.QueryRow(ctx, query, username, email, phone, passwordHash, role, time.Now()).Scan(&id); err != nil {
		return 0, mapDuplicateUser(err)
	}
	return id, nil
}

func mapDuplicateUser(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		return &DuplicateError{Message: "Email already exists"}
	case strings.Contains(pgErr.ConstraintName, "phone"):
		return &DuplicateError{Message: "Phone number already exists"}
	case strings.Contains(pgErr.ConstraintName, "username"):
		return &DuplicateError{Message: "Username already exists"}
	default:
		return &DuplicateError{Message: "User already exists"}
	}
}

// GetByUsernameAndRole looks a user up for login. The role is part of the
// lookup so an admin cannot log in through the customer endpoint.
func (r *UserRepository) GetByUsernameAndRole(ctx context.Context, username, role string) (*model.User, error) {
	var u model.User
	query := `SELECT id, username, email, phone_number, password_hash, role, created_at
		FROM users WHERE username=$1 AND role=$2`
	if err := r.DB.QueryRow(ctx, query, username, role).
		Scan(&u.UserID, &u.Username, &u.Email, &u.PhoneNumber, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	query := `SELECT id, username, email, phone_number, role, created_at FROM users WHERE id=$1`
	if err := r.DB.QueryRow(ctx, query, id).
		Scan(&u.UserID, &u.Username, &u.Email, &u.PhoneNumber, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
