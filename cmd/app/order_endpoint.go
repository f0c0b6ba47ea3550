package main

import (
	"net/http"
	"strconv"

	"PerfumeStoreAPI/internal/middleware"
	"PerfumeStoreAPI/internal/model"
	"PerfumeStoreAPI/internal/services"
	"PerfumeStoreAPI/internal/token"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func registerOrderRoutes(e *echo.Echo, checkout *services.CheckoutService, orders *services.OrderService, ts *token.Service, logger *zap.Logger) {
	customer := middleware.RequireRole(ts, model.RoleCustomer)

	checkoutHandler := func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		req := new(model.CheckoutRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		res, err := checkout.Checkout(c.Request().Context(), claims.UserID, req)
		if err != nil {
			return respondError(c, logger, err, "Order failed. Please try again later.")
		}
		return c.JSON(http.StatusCreated, echo.Map{
			"message":        "Order placed successfully!",
			"order_id":       res.OrderID,
			"reference":      res.Reference,
			"status":         res.Status,
			"payment_method": res.PaymentMethod,
			"total":          res.Total,
		})
	}
	e.POST("/checkout", checkoutHandler, customer)
	// legacy storefront alias
	e.POST("/orders", checkoutHandler, customer)

	e.GET("/orders", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		list, err := orders.ListForUser(c.Request().Context(), claims.UserID)
		if err != nil {
			return respondError(c, logger, err, "Failed to load orders")
		}
		return c.JSON(http.StatusOK, echo.Map{"orders": list})
	}, customer)

	// Always responds 200: internal failures degrade to an empty list so the
	// storefront widget never breaks.
	e.GET("/recent-orders", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		limit := 5
		if raw := c.QueryParam("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				limit = n
			}
		}
		recent, err := orders.Recent(c.Request().Context(), claims.UserID, limit, baseURL(c))
		if err != nil {
			logger.Error("recent orders failed", zap.Int64("user_id", claims.UserID), zap.Error(err))
			return c.JSON(http.StatusOK, echo.Map{
				"recent_orders": []model.RecentOrder{},
				"count":         0,
				"message":       "Try again",
			})
		}
		message := "Your latest orders"
		if len(recent) == 0 {
			message = "No orders yet"
		}
		return c.JSON(http.StatusOK, echo.Map{
			"recent_orders": recent,
			"count":         len(recent),
			"message":       message,
		})
	}, customer)
}
