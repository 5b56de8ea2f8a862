package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SheetChart.config")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Port, cfg.Server.Port)
	assert.Equal(t, 100, cfg.Preview.MaxRows)
	assert.Equal(t, "native", cfg.Statistics.Engine)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<SheetChart>")
	assert.Contains(t, string(data), "<MaxRows>100</MaxRows>")
}

func TestLoadConfigReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "SheetChart.config")
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<SheetChart>
  <Server><Port>9100</Port><BindAddress>127.0.0.1</BindAddress></Server>
  <Preview><MaxRows>25</MaxRows></Preview>
  <Charts><ThemeFile>theme.yaml</ThemeFile></Charts>
  <Statistics><Engine>duckdb</Engine></Statistics>
</SheetChart>`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9100", cfg.GetServerAddr())
	assert.Equal(t, 25, cfg.Preview.MaxRows)
	assert.Equal(t, "duckdb", cfg.Statistics.Engine)
	assert.Equal(t, filepath.Join(dir, "theme.yaml"), cfg.Charts.ThemeFile)
	// sections left out keep their defaults
	assert.True(t, cfg.Processing.EnableCompression)
	assert.Equal(t, "50M", cfg.Server.BodyLimit)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("STATS_ENGINE", "duckdb")
	t.Setenv("PREVIEW_ROWS", "10")
	t.Setenv("CHART_THEME", "/etc/sheetchart/theme.yaml")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "SheetChart.config"))
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "duckdb", cfg.Statistics.Engine)
	assert.Equal(t, 10, cfg.Preview.MaxRows)
	assert.Equal(t, "/etc/sheetchart/theme.yaml", cfg.Charts.ThemeFile)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SheetChart.config")
	require.NoError(t, os.WriteFile(path, []byte(`<SheetChart><Statistics><Engine>spark</Engine></Statistics></SheetChart>`), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`<SheetChart><Server>`), 0644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestGetAllowOrigins(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, []string{"*"}, cfg.GetAllowOrigins())

	cfg.Server.AllowOrigins = " http://a.example , ,http://b.example"
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.GetAllowOrigins())

	cfg.Server.AllowOrigins = ""
	assert.Equal(t, []string{"*"}, cfg.GetAllowOrigins())
}
