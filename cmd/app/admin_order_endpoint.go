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

type statusUpdateRequest struct {
	Status string `json:"status" form:"status" query:"status"`
}

func registerAdminOrderRoutes(e *echo.Echo, os *services.OrderService, ts *token.Service, logger *zap.Logger) {
	admin := e.Group("/admin")
	admin.Use(middleware.RequireRole(ts, model.RoleAdmin))

	admin.GET("/orders", func(c echo.Context) error {
		q := services.AdminQuery{Page: 1, PerPage: 20}
		if n, err := strconv.Atoi(c.QueryParam("page")); err == nil {
			q.Page = n
		}
		if n, err := strconv.Atoi(c.QueryParam("per_page")); err == nil {
			q.PerPage = n
		}
		q.Status = c.QueryParam("status")
		if n, err := strconv.ParseInt(c.QueryParam("user_id"), 10, 64); err == nil {
			q.UserID = n
		}
		orders, pagination, err := os.AdminList(c.Request().Context(), q)
		if err != nil {
			return respondError(c, logger, err, "Failed to fetch orders")
		}
		return c.JSON(http.StatusOK, echo.Map{"orders": orders, "pagination": pagination})
	})

	admin.GET("/orders/:id", func(c echo.Context) error {
		orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		}
		order, payment, err := os.AdminGet(c.Request().Context(), orderID)
		if err != nil {
			return respondError(c, logger, err, "Failed to load order")
		}
		return c.JSON(http.StatusOK, echo.Map{"order": order, "payment": payment})
	})

	admin.PATCH("/orders/:id/status", func(c echo.Context) error {
		orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		}
		req := new(statusUpdateRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid status format"})
		}
		// accept ?status= as a fallback for clients that cannot send a body
		if req.Status == "" {
			req.Status = c.QueryParam("status")
		}
		newStatus, err := os.UpdateStatus(c.Request().Context(), orderID, req.Status)
		if err != nil {
			return respondError(c, logger, err, "Update failed")
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Status updated", "new_status": newStatus})
	})

	admin.GET("/payments", func(c echo.Context) error {
		payments, err := os.ListPayments(c.Request().Context())
		if err != nil {
			return respondError(c, logger, err, "Failed to load payments")
		}
		return c.JSON(http.StatusOK, echo.Map{"payments": payments})
	})
}
