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

type perfumeRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Size        string  `json:"size"`
	Available   *bool   `json:"available"`
}

func (r *perfumeRequest) toModel(id int64) *model.Perfume {
	available := true
	if r.Available != nil {
		available = *r.Available
	}
	return &model.Perfume{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Quantity:    r.Quantity,
		Size:        r.Size,
		Available:   available,
	}
}

func registerPerfumeRoutes(e *echo.Echo, ps *services.PerfumeService, ts *token.Service, logger *zap.Logger) {
	// public catalog
	e.GET("/", func(c echo.Context) error {
		perfumes, err := ps.List(c.Request().Context())
		if err != nil {
			return respondError(c, logger, err, "Error fetching perfumes")
		}
		return c.JSON(http.StatusOK, echo.Map{
			"message":  "Welcome to the Perfume Store API!",
			"perfumes": perfumes,
		})
	})

	e.GET("/perfumes/photo/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid perfume id"})
		}
		photo, err := ps.PhotoDataURL(c.Request().Context(), id)
		if err != nil {
			return respondError(c, logger, err, "Error fetching photo")
		}
		return c.JSON(http.StatusOK, map[string]string{"photo": photo})
	})

	// admin catalog management
	admin := e.Group("/admin/perfumes")
	admin.Use(middleware.RequireRole(ts, model.RoleAdmin))

	admin.GET("", func(c echo.Context) error {
		perfumes, err := ps.List(c.Request().Context())
		if err != nil {
			return respondError(c, logger, err, "Error fetching perfumes")
		}
		return c.JSON(http.StatusOK, echo.Map{"perfumes": perfumes})
	})

	admin.POST("", func(c echo.Context) error {
		req := new(perfumeRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		id, err := ps.Create(c.Request().Context(), req.toModel(0))
		if err != nil {
			return respondError(c, logger, err, "Database error")
		}
		return c.JSON(http.StatusCreated, echo.Map{"message": "Perfume added successfully", "id": id})
	})

	admin.PUT("/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid perfume id"})
		}
		req := new(perfumeRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if err := ps.Update(c.Request().Context(), req.toModel(id)); err != nil {
			return respondError(c, logger, err, "Database error")
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Perfume updated successfully"})
	})

	admin.DELETE("/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid perfume id"})
		}
		if err := ps.Delete(c.Request().Context(), id); err != nil {
			return respondError(c, logger, err, "Database error")
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Perfume deleted successfully"})
	})
}
