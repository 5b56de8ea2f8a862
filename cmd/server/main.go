package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/sheetchart/backend/internal/api"
	"github.com/sheetchart/backend/internal/config"
	"github.com/sheetchart/backend/internal/render"
	"github.com/sheetchart/backend/internal/service"
	"github.com/sheetchart/backend/internal/stats"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Get the executable's directory for config resolution
	exePath, err := os.Executable()
	if err != nil {
		fmt.Printf("Failed to get executable path: %v\n", err)
		os.Exit(1)
	}
	exeDir := filepath.Dir(exePath)

	// Load XML configuration
	configPath := filepath.Join(exeDir, "SheetChart.config")
	if p := os.Getenv("SHEETCHART_CONFIG"); p != "" {
		configPath = p
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Theme and statistics engine are chosen once and shared read-only by all requests
	theme, err := render.LoadTheme(cfg.Charts.ThemeFile)
	if err != nil {
		fmt.Printf("Failed to load chart theme: %v\n", err)
		os.Exit(1)
	}

	engine, err := stats.NewEngine(cfg.Statistics.Engine)
	if err != nil {
		fmt.Printf("Failed to select statistics engine: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[Stats] Using %s engine\n", engine.Name())

	svc := service.New(
		service.WithTheme(theme),
		service.WithPreviewRows(cfg.Preview.MaxRows),
		service.WithEngine(engine),
	)

	api.SetShowErrorDetails(cfg.Advanced.ShowErrorDetails)

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(logLevel(cfg.Advanced.LogLevel))

	// Configure middleware
	api.SetupMiddleware(e, api.MiddlewareOptions{
		EnableRequestLogging: cfg.Advanced.EnableRequestLogging,
		EnableCORS:           cfg.Server.EnableCORS,
		AllowOrigins:         cfg.GetAllowOrigins(),
		RequestTimeout:       time.Duration(cfg.Server.RequestTimeout) * time.Second,
		BodyLimit:            cfg.Server.BodyLimit,
		EnableCompression:    cfg.Processing.EnableCompression,
		CompressionLevel:     cfg.Processing.CompressionLevel,
	})

	// API Routes
	api.RegisterRoutes(e, api.NewHandlers(&api.Dependencies{
		Ops:     svc,
		Version: Version,
	}))

	// Configure server with settings from XML config
	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	themeName := cfg.Charts.ThemeFile
	if themeName == "" {
		themeName = "built-in"
	}

	// Print startup banner
	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           SheetChart Server                               ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Theme:     %-46s║\n", themeName)
	fmt.Printf("║  Stats:     %-46s║\n", engine.Name())
	fmt.Printf("║  Preview:   %-46s║\n", fmt.Sprintf("%d rows", cfg.Preview.MaxRows))
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")

	e.Logger.Fatal(e.StartServer(s))
}

// logLevel maps the Advanced.LogLevel setting onto echo's logger levels.
func logLevel(name string) log.Lvl {
	switch strings.ToLower(name) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
