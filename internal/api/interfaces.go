// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/sheetchart/backend/internal/models"
	"github.com/sheetchart/backend/internal/service"
)

// ExcelHandler handles the spreadsheet operations
type ExcelHandler interface {
	HandleExcel(c echo.Context) error
	HandleParse(c echo.Context) error
	HandleParseMsgpack(c echo.Context) error
	HandleChart(c echo.Context) error
	HandleStatistics(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// Operations defines the spreadsheet operations the handlers call
// This allows mocking in tests
type Operations interface {
	Parse(ctx context.Context, req service.ParseRequest) (*models.PreviewResult, error)
	GenerateChart(ctx context.Context, req service.ChartRequest) (*models.ChartResult, error)
	Statistics(ctx context.Context, req service.StatisticsRequest) (*models.StatsResult, error)
	Dispatch(ctx context.Context, req models.Request) (any, error)
	EngineName() string
}
