package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"PerfumeStoreAPI/internal/model"
	"PerfumeStoreAPI/internal/token"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *token.Service {
	t.Helper()
	return token.NewService("test-secret", time.Hour)
}

func doRequest(mw echo.MiddlewareFunc, authHeader string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "ok"})
	})
	_ = handler(c)
	return rec
}

func TestMissingToken(t *testing.T) {
	ts := newTestService(t)
	rec := doRequest(RequireRole(ts, model.RoleCustomer), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token missing")
}

func TestBearerPrefixRejected(t *testing.T) {
	ts := newTestService(t)
	raw, err := ts.Issue(1, "daisy", model.RoleCustomer)
	require.NoError(t, err)

	// even a perfectly valid token is rejected behind a bearer prefix
	for _, header := range []string{"Bearer " + raw, "bearer " + raw, "BEARER " + raw} {
		rec := doRequest(RequireRole(ts, model.RoleCustomer), header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.Contains(t, rec.Body.String(), "Use raw token, not Bearer")
	}
}

func TestExpiredToken(t *testing.T) {
	expired := token.NewService("test-secret", -time.Minute)
	raw, err := expired.Issue(1, "daisy", model.RoleCustomer)
	require.NoError(t, err)

	rec := doRequest(RequireRole(newTestService(t), model.RoleCustomer), raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token expired")
}

func TestInvalidToken(t *testing.T) {
	ts := newTestService(t)
	rec := doRequest(RequireRole(ts, model.RoleCustomer), "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid token")
}

func TestRoleMismatch(t *testing.T) {
	ts := newTestService(t)

	customerTok, err := ts.Issue(1, "daisy", model.RoleCustomer)
	require.NoError(t, err)
	rec := doRequest(RequireRole(ts, model.RoleAdmin), customerTok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access denied — Admin only")

	adminTok, err := ts.Issue(2, "root", model.RoleAdmin)
	require.NoError(t, err)
	rec = doRequest(RequireRole(ts, model.RoleCustomer), adminTok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access denied — Customer only")
}

func TestRoleMatchBindsClaims(t *testing.T) {
	ts := newTestService(t)
	raw, err := ts.Issue(42, "daisy", model.RoleCustomer)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", raw)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *token.Claims
	handler := RequireRole(ts, model.RoleCustomer)(func(c echo.Context) error {
		got = GetClaims(c)
		return c.JSON(http.StatusOK, map[string]string{"message": "ok"})
	})
	require.NoError(t, handler(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, "daisy", got.Username)
}

func TestAuthenticateAnyRole(t *testing.T) {
	ts := newTestService(t)
	for _, role := range []string{model.RoleAdmin, model.RoleCustomer} {
		raw, err := ts.Issue(1, "who", role)
		require.NoError(t, err)
		rec := doRequest(Authenticate(ts), raw)
		assert.Equal(t, http.StatusOK, rec.Code, role)
	}
}
