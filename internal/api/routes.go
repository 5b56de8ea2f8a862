// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Ops     Operations
	Version string
}

// Handlers holds all handler instances
type Handlers struct {
	Health HealthHandler
	Excel  ExcelHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.Version, deps.Ops.EngineName()),
		Excel:  NewExcelHandler(deps.Ops),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	// Health check
	e.GET("/health", handlers.Health.HandleHealth)

	apiGroup := e.Group("/api")
	apiGroup.GET("/health", handlers.Health.HandleHealth)

	// Single endpoint dispatching on "action"
	apiGroup.POST("/excel", handlers.Excel.HandleExcel)

	// One route per operation
	apiGroup.POST("/parse", handlers.Excel.HandleParse)
	apiGroup.POST("/parse/msgpack", handlers.Excel.HandleParseMsgpack)
	apiGroup.POST("/chart", handlers.Excel.HandleChart)
	apiGroup.POST("/statistics", handlers.Excel.HandleStatistics)
}

// MiddlewareOptions configures SetupMiddleware
type MiddlewareOptions struct {
	EnableRequestLogging bool
	EnableCORS           bool
	AllowOrigins         []string
	RequestTimeout       time.Duration
	BodyLimit            string
	EnableCompression    bool
	CompressionLevel     int
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo, opts MiddlewareOptions) {
	// Use custom error handler
	e.HTTPErrorHandler = ErrorHandler

	// Tag every request so log lines and responses can be matched up
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return uuid.New().String()
		},
	}))

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// Skip logging if disabled in config
			if !opts.EnableRequestLogging {
				return true
			}
			path := c.Request().URL.Path
			return path == "/health" || path == "/api/health"
		},
		Format: `{"time":"${time_rfc3339}","id":"${id}","method":"${method}","uri":"${uri}",` +
			`"status":${status},"latency":"${latency_human}","bytes_in":${bytes_in},"bytes_out":${bytes_out}}` + "\n",
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize:         1024 * 4,
		DisablePrintStack: false,
		LogLevel:          0,
	}))

	if opts.RequestTimeout > 0 {
		// Deadline on the request context
		e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: opts.RequestTimeout,
		}))
	}

	// Compression middleware
	if opts.EnableCompression {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Level: opts.CompressionLevel,
			Skipper: func(c echo.Context) bool {
				return strings.HasSuffix(c.Request().URL.Path, "/msgpack")
			},
		}))
	}

	// Body limit middleware
	if opts.BodyLimit != "" {
		e.Use(middleware.BodyLimit(opts.BodyLimit))
	}

	// CORS configuration
	if opts.EnableCORS {
		origins := opts.AllowOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderContentType, "X-User-Id"},
			MaxAge:       86400,
		}))
	}
}
