package main

import (
	"errors"
	"net/http"

	"PerfumeStoreAPI/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// respondError maps a service failure to JSON. Client-facing errors carry
// their own status; anything else is logged and hidden behind the fallback.
func respondError(c echo.Context, logger *zap.Logger, err error, fallback string) error {
	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		return c.JSON(apiErr.Status, map[string]string{"error": apiErr.Message})
	}
	logger.Error(fallback, zap.String("path", c.Path()), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": fallback})
}

// baseURL reconstructs the scheme://host prefix used for photo links.
func baseURL(c echo.Context) string {
	return c.Scheme() + "://" + c.Request().Host
}
