// Package config provides XML-based configuration management.
package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppConfig represents the root XML configuration structure
type AppConfig struct {
	XMLName xml.Name `xml:"SheetChart"`

	// Server configuration
	Server ServerConfig `xml:"Server"`

	// Preview configuration
	Preview PreviewConfig `xml:"Preview"`

	// Chart rendering configuration
	Charts ChartsConfig `xml:"Charts"`

	// Statistics configuration
	Statistics StatisticsConfig `xml:"Statistics"`

	// Processing configuration
	Processing ProcessingConfig `xml:"Processing"`

	// Advanced options
	Advanced AdvancedConfig `xml:"Advanced"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port           int    `xml:"Port"`
	BindAddress    string `xml:"BindAddress"`
	EnableCORS     bool   `xml:"EnableCORS"`
	AllowOrigins   string `xml:"AllowOrigins"`
	ReadTimeout    int    `xml:"ReadTimeoutSeconds"`
	WriteTimeout   int    `xml:"WriteTimeoutSeconds"`
	IdleTimeout    int    `xml:"IdleTimeoutSeconds"`
	RequestTimeout int    `xml:"RequestTimeoutSeconds"`
	BodyLimit      string `xml:"BodyLimit"`
}

// PreviewConfig controls the parse operation
type PreviewConfig struct {
	MaxRows int `xml:"MaxRows"`
}

// ChartsConfig controls chart rendering
type ChartsConfig struct {
	// ThemeFile is a YAML theme; empty or missing means the built-in theme.
	ThemeFile string `xml:"ThemeFile"`
}

// StatisticsConfig selects the statistics engine
type StatisticsConfig struct {
	Engine string `xml:"Engine"` // native or duckdb
}

// ProcessingConfig contains response processing settings
type ProcessingConfig struct {
	EnableCompression bool `xml:"EnableCompression"`
	CompressionLevel  int  `xml:"CompressionLevel"`
}

// AdvancedConfig contains advanced/tuning options
type AdvancedConfig struct {
	LogLevel             string `xml:"LogLevel"`
	EnableRequestLogging bool   `xml:"EnableRequestLogging"`
	ShowErrorDetails     bool   `xml:"ShowErrorDetails"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:           8090,
			BindAddress:    "0.0.0.0",
			EnableCORS:     true,
			AllowOrigins:   "*",
			ReadTimeout:    30,
			WriteTimeout:   30,
			IdleTimeout:    120,
			RequestTimeout: 60,
			BodyLimit:      "50M",
		},
		Preview: PreviewConfig{
			MaxRows: 100,
		},
		Charts: ChartsConfig{
			ThemeFile: "",
		},
		Statistics: StatisticsConfig{
			Engine: "native",
		},
		Processing: ProcessingConfig{
			EnableCompression: true,
			CompressionLevel:  5,
		},
		Advanced: AdvancedConfig{
			LogLevel:             "info",
			EnableRequestLogging: true,
			ShowErrorDetails:     true,
		},
	}
}

// LoadConfig loads configuration from XML file
func LoadConfig(configPath string) (*AppConfig, error) {
	// If file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		config.applyEnvironmentOverrides()
		return config, config.Validate()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := xml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply environment variable overrides
	config.applyEnvironmentOverrides()

	// Resolve relative paths
	config.resolvePaths(filepath.Dir(configPath))

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save saves the configuration to XML file
func (c *AppConfig) Save(configPath string) error {
	output, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(xml.Header + "\n<!-- SheetChart Configuration -->\n<!-- This file is auto-generated on first run -->\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects settings the server cannot start with
func (c *AppConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid Server.Port %d", c.Server.Port)
	}
	if c.Preview.MaxRows <= 0 {
		return fmt.Errorf("invalid Preview.MaxRows %d", c.Preview.MaxRows)
	}
	switch strings.ToLower(c.Statistics.Engine) {
	case "", "native", "duckdb":
	default:
		return fmt.Errorf("invalid Statistics.Engine %q (expected native or duckdb)", c.Statistics.Engine)
	}
	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	// PORT override
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if theme := os.Getenv("CHART_THEME"); theme != "" {
		c.Charts.ThemeFile = theme
	}

	if engine := os.Getenv("STATS_ENGINE"); engine != "" {
		c.Statistics.Engine = engine
	}

	if rows := os.Getenv("PREVIEW_ROWS"); rows != "" {
		if n, err := strconv.Atoi(rows); err == nil {
			c.Preview.MaxRows = n
		}
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if c.Charts.ThemeFile != "" && !filepath.IsAbs(c.Charts.ThemeFile) {
		c.Charts.ThemeFile = filepath.Join(configDir, c.Charts.ThemeFile)
	}
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// GetAllowOrigins splits the comma-separated origin list, defaulting to any origin
func (c *AppConfig) GetAllowOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.Server.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
