package services

import (
	"context"
	"errors"
	"strings"

	"PerfumeStoreAPI/internal/model"
	"PerfumeStoreAPI/internal/repository"
	"PerfumeStoreAPI/internal/token"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLen = 6

// UserStore is the persistence surface the auth flows need. The concrete
// implementation is repository.UserRepository.
type UserStore interface {
	Create(ctx context.Context, username, email, phone, passwordHash, role string) (int64, error)
	GetByUsernameAndRole(ctx context.Context, username, role string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type AuthService struct {
	Users  UserStore
	Tokens *token.Service
	Logger *zap.Logger
}

func NewAuthService(u UserStore, ts *token.Service, logger *zap.Logger) *AuthService {
	return &AuthService{Users: u, Tokens: ts, Logger: logger}
}

type SignupInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phone_number"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Signup creates an account with the given fixed role. The role comes from
// the endpoint, never from the payload.
func (s *AuthService) Signup(ctx context.Context, in SignupInput, role string) error {
	var missing []string
	if in.Username == "" {
		missing = append(missing, "username")
	}
	if in.Email == "" {
		missing = append(missing, "email")
	}
	if in.PhoneNumber == "" {
		missing = append(missing, "phone_number")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	if in.ConfirmPassword == "" {
		missing = append(missing, "confirm_password")
	}
	if len(missing) > 0 {
		return badRequestf("Missing required fields: %s", strings.Join(missing, ", "))
	}
	if in.Password != in.ConfirmPassword {
		return badRequestf("Passwords do not match")
	}
	if len(in.Password) < MinPasswordLen {
		return badRequestf("Password must be at least %d characters long", MinPasswordLen)
	}
	if !strings.Contains(in.Email, "@") {
		return badRequestf("Invalid email format")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if _, err := s.Users.Create(ctx, in.Username, in.Email, in.PhoneNumber, string(hash), role); err != nil {
		// only duplicate violations are client-facing
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return badRequestf("%s", dup.Message)
		}
		return err
	}
	s.Logger.Info("user created", zap.String("username", in.Username), zap.String("role", role))
	return nil
}

// Login authenticates a username/password pair against the given role and
// returns a signed session token. The response never reveals which of the
// two credentials was wrong.
func (s *AuthService) Login(ctx context.Context, username, password, role string) (string, error) {
	if username == "" || password == "" {
		return "", badRequestf("Username and password required")
	}
	u, err := s.Users.GetByUsernameAndRole(ctx, username, role)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", unauthorized("Invalid username or password")
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", unauthorized("Invalid username or password")
	}
	return s.Tokens.Issue(u.UserID, u.Username, u.Role)
}

// Details returns the profile fields served by the user-details endpoint.
func (s *AuthService) Details(ctx context.Context, userID int64) (*model.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, notFoundf("User not found")
		}
		return nil, err
	}
	return u, nil
}
