package render

import (
	"bytes"
	"fmt"
	"image/png"
	"testing"
	"time"

	"github.com/sheetchart/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesPNG(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	table := models.NewTable("Sheet1", []string{"Date", "Revenue", "Region", "Units"}, [][]models.Cell{
		{models.Timestamp(day), models.Number(120.5), models.Text("North"), models.Number(3)},
		{models.Timestamp(day.AddDate(0, 0, 1)), models.Number(98), models.Text("South"), models.Number(5)},
		{models.Timestamp(day.AddDate(0, 0, 2)), models.Number(143.25), models.Text("East"), models.Number(4)},
	})

	tests := []models.ChartSpec{
		{Kind: models.ChartLine, XColumn: "Date", YColumn: "Revenue"},
		{Kind: models.ChartLine, XColumn: "Units", YColumn: "Revenue"},
		{Kind: models.ChartLine, XColumn: "Region", YColumn: "Revenue"},
		{Kind: models.ChartBar, XColumn: "Region", YColumn: "Revenue"},
		{Kind: models.ChartPie, XColumn: "Region", YColumn: "Revenue"},
		{Kind: models.ChartScatter, XColumn: "Units", YColumn: "Revenue"},
		{Kind: models.ChartScatter, XColumn: "Date", YColumn: "Revenue"},
	}

	theme := DefaultTheme()
	for _, spec := range tests {
		t.Run(fmt.Sprintf("%s_%s", spec.Kind, spec.XColumn), func(t *testing.T) {
			data, err := Render(table, spec, theme)
			require.NoError(t, err)
			assert.Greater(t, len(data), 1000)

			cfg, err := png.DecodeConfig(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, 1500, cfg.Width)
			assert.Equal(t, 900, cfg.Height)
		})
	}
}

func TestRenderSinglePoint(t *testing.T) {
	table := models.NewTable("Sheet1", []string{"x", "y"}, [][]models.Cell{
		{models.Number(1), models.Number(7)},
	})

	for _, kind := range models.ChartKinds {
		data, err := Render(table, models.ChartSpec{Kind: kind, XColumn: "x", YColumn: "y"}, DefaultTheme())
		require.NoError(t, err, string(kind))
		_, err = png.DecodeConfig(bytes.NewReader(data))
		assert.NoError(t, err, string(kind))
	}
}

func TestRenderHonorsThemeSize(t *testing.T) {
	theme := DefaultTheme()
	theme.Width, theme.Height = 640, 480

	data, err := Render(regionSales(), models.ChartSpec{Kind: models.ChartBar, XColumn: "Region", YColumn: "Sales"}, theme)
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
}

func TestRenderNonNumericY(t *testing.T) {
	_, err := Render(regionSales(), models.ChartSpec{Kind: models.ChartBar, XColumn: "Sales", YColumn: "Region"}, DefaultTheme())
	var renderErr *models.RenderError
	assert.ErrorAs(t, err, &renderErr)
}

func TestValueRange(t *testing.T) {
	r := valueRange([]float64{5, 5}, false)
	assert.Equal(t, 4.0, r.Min)
	assert.Equal(t, 6.0, r.Max)

	r = valueRange([]float64{2, 10}, true)
	assert.Equal(t, 0.0, r.Min)
	assert.InDelta(t, 10.5, r.Max, 1e-12)

	r = valueRange([]float64{-4, -2}, true)
	assert.InDelta(t, -4.2, r.Min, 1e-12)
	assert.Equal(t, 0.0, r.Max)
}
