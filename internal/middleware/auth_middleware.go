package middleware

import (
	"errors"
	"net/http"
	"strings"

	"PerfumeStoreAPI/internal/model"
	"PerfumeStoreAPI/internal/token"

	"github.com/labstack/echo/v4"
)

const claimsKey = "auth_claims"

var (
	errTokenMissing = errors.New("Token missing")
	errBearerUsed   = errors.New("Use raw token, not Bearer")
	errTokenExpired = errors.New("Token expired")
	errTokenInvalid = errors.New("Invalid token")
)

// Authenticate validates the raw token in the Authorization header and binds
// the claims onto the context. The deployed clients send the bare signed
// token with no scheme prefix; a bearer-prefixed value is an error, not
// something to strip.
func Authenticate(ts *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := claimsFromHeader(c, ts)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
			}
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// RequireRole is Authenticate plus a role gate. Identity comes only from the
// token; client-supplied user ids elsewhere in the payload are never trusted.
func RequireRole(ts *token.Service, role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := claimsFromHeader(c, ts)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
			}
			if claims.Role != role {
				return c.JSON(http.StatusForbidden, map[string]string{
					"error": "Access denied — " + model.RoleName(role) + " only",
				})
			}
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

func claimsFromHeader(c echo.Context, ts *token.Service) (*token.Claims, error) {
	auth := c.Request().Header.Get("Authorization")
	if auth == "" {
		return nil, errTokenMissing
	}
	lower := strings.ToLower(auth)
	if strings.HasPrefix(lower, "bearer ") || strings.HasPrefix(lower, "bearer\t") {
		return nil, errBearerUsed
	}
	claims, err := ts.Validate(strings.TrimSpace(auth))
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return nil, errTokenExpired
		}
		return nil, errTokenInvalid
	}
	return claims, nil
}

// GetClaims returns the claims bound by Authenticate/RequireRole, or nil.
func GetClaims(c echo.Context) *token.Claims {
	v := c.Get(claimsKey)
	if v == nil {
		return nil
	}
	if cl, ok := v.(*token.Claims); ok {
		return cl
	}
	return nil
}
