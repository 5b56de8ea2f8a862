package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"gopkg.in/yaml.v3"
)

// Theme controls the look of every chart. It is loaded once at startup and never mutated.
type Theme struct {
	Accent       string   `yaml:"accent"`
	Palette      []string `yaml:"palette"`
	Background   string   `yaml:"background"`
	Canvas       string   `yaml:"canvas"`
	Grid         string   `yaml:"grid"`
	Width        int      `yaml:"width"`
	Height       int      `yaml:"height"`
	DPI          float64  `yaml:"dpi"`
	BarAlpha     float64  `yaml:"bar_alpha"`
	ScatterAlpha float64  `yaml:"scatter_alpha"`
}

// DefaultTheme is a 10x6 inch canvas at 150 DPI on a grey grid, with a blue accent.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:       "#2563EB",
		Palette:      []string{"#2563EB", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6", "#EC4899"},
		Background:   "#FFFFFF",
		Canvas:       "#EAEAF2",
		Grid:         "#FFFFFF",
		Width:        1500,
		Height:       900,
		DPI:          150,
		BarAlpha:     0.8,
		ScatterAlpha: 0.6,
	}
}

// LoadTheme reads a YAML theme file over the defaults. An empty path or a missing file yields
// the default theme.
func LoadTheme(path string) (*Theme, error) {
	if path == "" {
		return DefaultTheme(), nil
	}
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Printf("[Theme] %s not found, using default theme\n", path)
		return DefaultTheme(), nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	theme, err := ParseTheme(file)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", path, err)
	}
	fmt.Printf("[Theme] Loaded %s (accent %s, %d palette colors)\n", path, theme.Accent, len(theme.Palette))
	return theme, nil
}

// ParseTheme decodes YAML from r. Fields left out keep their default value.
func ParseTheme(r io.Reader) (*Theme, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	theme := DefaultTheme()
	if err := yaml.Unmarshal(data, theme); err != nil {
		return nil, err
	}
	if err := theme.Validate(); err != nil {
		return nil, err
	}
	return theme, nil
}

// Validate checks colors, canvas size and alphas.
func (t *Theme) Validate() error {
	for name, c := range map[string]string{"accent": t.Accent, "background": t.Background, "canvas": t.Canvas, "grid": t.Grid} {
		if _, err := parseColor(c); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if len(t.Palette) == 0 {
		return errors.New("palette must list at least one color")
	}
	for i, c := range t.Palette {
		if _, err := parseColor(c); err != nil {
			return fmt.Errorf("palette[%d]: %w", i, err)
		}
	}
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", t.Width, t.Height)
	}
	if t.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %v", t.DPI)
	}
	for name, a := range map[string]float64{"bar_alpha": t.BarAlpha, "scatter_alpha": t.ScatterAlpha} {
		if a < 0 || a > 1 {
			return fmt.Errorf("%s must be within [0, 1], got %v", name, a)
		}
	}
	return nil
}

// PaletteColor returns the i-th palette entry, cycling when i runs past the end.
func (t *Theme) PaletteColor(i int) string {
	return t.Palette[i%len(t.Palette)]
}

// parseColor accepts "#RRGGBB" or "RRGGBB".
func parseColor(s string) (drawing.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return drawing.Color{}, fmt.Errorf("invalid color %q (want #RRGGBB)", s)
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return drawing.Color{}, fmt.Errorf("invalid color %q (want #RRGGBB)", s)
	}
	return drawing.ColorFromHex(hex), nil
}

// mustColor is for colors that already passed Validate.
func mustColor(s string) drawing.Color {
	c, err := parseColor(s)
	if err != nil {
		return drawing.ColorBlack
	}
	return c
}

func alpha(a float64) uint8 {
	return uint8(a*255 + 0.5)
}
