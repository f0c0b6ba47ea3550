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

type addCartRequest struct {
	Items []model.CartAddItem `json:"items"`
}

func registerCartRoutes(e *echo.Echo, cs *services.CartService, ts *token.Service, logger *zap.Logger) {
	grp := e.Group("/cart")
	grp.Use(middleware.RequireRole(ts, model.RoleCustomer))

	// Batch add with per-item partial failure: 201 all added, 207 partial,
	// 400 when every item failed.
	grp.POST("", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		req := new(addCartRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		added, itemErrs, err := cs.Add(c.Request().Context(), claims.UserID, req.Items)
		if err != nil {
			return respondError(c, logger, err, "Database error")
		}
		switch {
		case len(itemErrs) > 0 && len(added) == 0:
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": itemErrs})
		case len(itemErrs) > 0:
			return c.JSON(http.StatusMultiStatus, echo.Map{
				"message": "Partial success",
				"added":   added,
				"errors":  itemErrs,
			})
		default:
			return c.JSON(http.StatusCreated, echo.Map{"message": "All added", "added": added})
		}
	})

	grp.GET("", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		lines, err := cs.View(c.Request().Context(), claims.UserID)
		if err != nil {
			return respondError(c, logger, err, "Failed to load cart")
		}
		base := baseURL(c)
		for i := range lines {
			lines[i].PhotoURL = base + "/perfumes/photo/" + strconv.FormatInt(lines[i].PerfumeID, 10)
		}
		return c.JSON(http.StatusOK, echo.Map{"cart_items": lines})
	})

	grp.DELETE("/:perfume_id", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		perfumeID, err := strconv.ParseInt(c.Param("perfume_id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid perfume id"})
		}
		if err := cs.Remove(c.Request().Context(), claims.UserID, perfumeID); err != nil {
			return respondError(c, logger, err, "Database error")
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Item removed"})
	})
}
