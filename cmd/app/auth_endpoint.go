package main

import (
	"net/http"

	"PerfumeStoreAPI/internal/middleware"
	"PerfumeStoreAPI/internal/model"
	"PerfumeStoreAPI/internal/services"
	"PerfumeStoreAPI/internal/token"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func signupHandler(authSvc *services.AuthService, logger *zap.Logger, role, label string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req services.SignupInput
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if err := authSvc.Signup(c.Request().Context(), req, role); err != nil {
			return respondError(c, logger, err, "Server error during signup")
		}
		return c.JSON(http.StatusCreated, map[string]string{"message": label + " registered successfully!"})
	}
}

func loginHandler(authSvc *services.AuthService, logger *zap.Logger, role, label string) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(loginRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		tok, err := authSvc.Login(c.Request().Context(), req.Username, req.Password, role)
		if err != nil {
			return respondError(c, logger, err, "Server error")
		}
		return c.JSON(http.StatusOK, echo.Map{
			"message": label + " login successful",
			"token":   tok,
		})
	}
}

func registerAuthRoutes(e *echo.Echo, authSvc *services.AuthService, ts *token.Service, logger *zap.Logger) {
	e.POST("/admin/signup", signupHandler(authSvc, logger, model.RoleAdmin, "Admin"))
	e.POST("/customer/signup", signupHandler(authSvc, logger, model.RoleCustomer, "Customer"))
	e.POST("/admin/login", loginHandler(authSvc, logger, model.RoleAdmin, "Admin"))
	e.POST("/customer/login", loginHandler(authSvc, logger, model.RoleCustomer, "Customer"))

	// role-aware identity echo, any valid raw token
	e.GET("/dashboard", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		switch claims.Role {
		case model.RoleAdmin:
			return c.JSON(http.StatusOK, map[string]string{"message": "Welcome Admin " + claims.Username + "!"})
		case model.RoleCustomer:
			return c.JSON(http.StatusOK, map[string]string{"message": "Welcome Customer " + claims.Username + "!"})
		default:
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Unknown role"})
		}
	}, middleware.Authenticate(ts))

	e.GET("/user/details", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		u, err := authSvc.Details(c.Request().Context(), claims.UserID)
		if err != nil {
			return respondError(c, logger, err, "Server error while fetching user details")
		}
		return c.JSON(http.StatusOK, echo.Map{
			"username":     u.Username,
			"email":        u.Email,
			"phone_number": u.PhoneNumber,
			"role":         model.RoleName(u.Role),
		})
	}, middleware.Authenticate(ts))
}
