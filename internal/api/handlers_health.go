// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version string
	engine  string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version, engine string) HealthHandler {
	return &HealthHandlerImpl{
		version: version,
		engine:  engine,
	}
}

// HandleHealth returns server health status
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"version":      h.version,
		"stats_engine": h.engine,
		"formats":      []string{"xlsx", "xls", "csv"},
	})
}
