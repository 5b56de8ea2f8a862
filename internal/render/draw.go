package render

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/sheetchart/backend/internal/models"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// maxCategoryTicks bounds the number of labelled ticks on a category axis.
const maxCategoryTicks = 40

// Render plans and draws the chart, returning PNG bytes.
func Render(t *models.Table, spec models.ChartSpec, theme *Theme) ([]byte, error) {
	fig, err := Plan(t, spec, theme)
	if err != nil {
		return nil, err
	}
	return Draw(fig, theme)
}

// Draw rasterizes a planned figure. Each call renders into its own buffer.
func Draw(fig *Figure, theme *Theme) (png []byte, err error) {
	defer func() {
		// go-chart panics on some degenerate inputs instead of returning an error
		if r := recover(); r != nil {
			png, err = nil, &models.RenderError{Kind: fig.Kind, Err: fmt.Errorf("renderer panic: %v", r)}
		}
	}()

	var renderer interface {
		Render(chart.RendererProvider, io.Writer) error
	}
	switch fig.Kind {
	case models.ChartPie:
		renderer = pieChart(fig, theme)
	case models.ChartBar:
		renderer = barChart(fig, theme)
	case models.ChartLine, models.ChartScatter:
		renderer = xyChart(fig, theme)
	default:
		return nil, &models.UnsupportedOperationError{Kind: "chart_type", Value: string(fig.Kind)}
	}

	var buf bytes.Buffer
	if err := renderer.Render(chart.PNG, &buf); err != nil {
		return nil, &models.RenderError{Kind: fig.Kind, Err: err}
	}
	return buf.Bytes(), nil
}

func titleStyle() chart.Style {
	return chart.Style{FontSize: 14, Padding: chart.Box{Top: 8, Bottom: 8}}
}

func background(theme *Theme) chart.Style {
	return chart.Style{
		FillColor: mustColor(theme.Background),
		Padding:   chart.Box{Top: 60, Left: 20, Right: 30, Bottom: 20},
	}
}

func gridStyle(theme *Theme) chart.Style {
	return chart.Style{StrokeColor: mustColor(theme.Grid), StrokeWidth: 1}
}

func xyChart(fig *Figure, theme *Theme) *chart.Chart {
	accent := mustColor(theme.Accent)

	var style chart.Style
	if fig.Kind == models.ChartScatter {
		style = chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    7,
			DotColor:    accent.WithAlpha(alpha(theme.ScatterAlpha)),
		}
	} else {
		style = chart.Style{
			StrokeWidth: 2,
			StrokeColor: accent,
			DotWidth:    4,
			DotColor:    accent,
		}
	}

	ys := make([]float64, len(fig.Points))
	for i, p := range fig.Points {
		ys[i] = p.Y
	}

	xAxis := chart.XAxis{
		Name:           fig.XName,
		GridMajorStyle: gridStyle(theme),
	}
	var series chart.Series
	switch fig.XAxis {
	case AxisTime:
		times := make([]time.Time, len(fig.Points))
		for i, p := range fig.Points {
			times[i] = p.T
		}
		series = chart.TimeSeries{Name: fig.YName, XValues: times, YValues: ys, Style: style}
		xAxis.ValueFormatter = chart.TimeDateValueFormatter
		xAxis.Range = timeRange(times)
	default:
		xs := make([]float64, len(fig.Points))
		for i, p := range fig.Points {
			xs[i] = p.X
		}
		series = chart.ContinuousSeries{Name: fig.YName, XValues: xs, YValues: ys, Style: style}
		if fig.XAxis == AxisCategory {
			xAxis.Ticks = categoryTicks(fig.Points)
			xAxis.Range = &chart.ContinuousRange{Min: 0.5, Max: float64(len(fig.Points)) + 0.5}
		} else {
			xAxis.Range = valueRange(xs, false)
		}
	}

	return &chart.Chart{
		Title:      fig.Title,
		TitleStyle: titleStyle(),
		Width:      theme.Width,
		Height:     theme.Height,
		DPI:        theme.DPI,
		Background: background(theme),
		Canvas:     chart.Style{FillColor: mustColor(theme.Canvas)},
		XAxis:      xAxis,
		YAxis: chart.YAxis{
			Name:           fig.YName,
			Range:          valueRange(ys, false),
			GridMajorStyle: gridStyle(theme),
		},
		Series: []chart.Series{series},
	}
}

func barChart(fig *Figure, theme *Theme) *chart.BarChart {
	fill := mustColor(theme.Accent).WithAlpha(alpha(theme.BarAlpha))

	bars := make([]chart.Value, len(fig.Points))
	ys := make([]float64, len(fig.Points))
	for i, p := range fig.Points {
		bars[i] = chart.Value{
			Label: p.Label,
			Value: p.Y,
			Style: chart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 1},
		}
		ys[i] = p.Y
	}

	barWidth := (theme.Width - 200) / (len(bars) * 2)
	if barWidth > 80 {
		barWidth = 80
	}
	if barWidth < 2 {
		barWidth = 2
	}

	bc := &chart.BarChart{
		Title:        fig.Title,
		TitleStyle:   titleStyle(),
		Width:        theme.Width,
		Height:       theme.Height,
		DPI:          theme.DPI,
		Background:   background(theme),
		Canvas:       chart.Style{FillColor: mustColor(theme.Canvas)},
		BarWidth:     barWidth,
		BarSpacing:   barWidth,
		UseBaseValue: true,
		BaseValue:    0,
		XAxis:        chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Name:  fig.YName,
			Range: valueRange(ys, true),
		},
		Bars: bars,
	}
	bc.Background.Padding.Left = 60
	bc.Background.Padding.Bottom = 60
	bc.Elements = []chart.Renderable{axisNames(fig.XName, fig.YName, theme.Height)}
	return bc
}

// axisNames writes the X name at the foot of the image and the Y name rotated along its left
// edge. Bar charts have no built-in axis titles.
func axisNames(xName, yName string, height int) chart.Renderable {
	return func(r chart.Renderer, canvas chart.Box, defaults chart.Style) {
		style := chart.Style{
			FontSize:  11,
			FontColor: drawing.ColorBlack,
			Font:      defaults.Font,
		}
		style.WriteToRenderer(r)

		xBox := r.MeasureText(xName)
		r.Text(xName, canvas.Left+(canvas.Width()-xBox.Width())/2, height-8)

		yBox := r.MeasureText(yName)
		r.SetTextRotation(chart.DegreesToRadians(-90))
		r.Text(yName, yBox.Height()+8, canvas.Top+(canvas.Height()+yBox.Width())/2)
		r.ClearTextRotation()
	}
}

func pieChart(fig *Figure, theme *Theme) *chart.PieChart {
	values := make([]chart.Value, len(fig.Wedges))
	for i, w := range fig.Wedges {
		c := mustColor(w.Color)
		values[i] = chart.Value{
			Label: w.Text(),
			Value: w.Value,
			Style: chart.Style{
				FillColor:   c,
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 2,
				FontSize:    11,
			},
		}
	}

	return &chart.PieChart{
		Title:      fig.Title,
		TitleStyle: titleStyle(),
		Width:      theme.Width,
		Height:     theme.Height,
		DPI:        theme.DPI,
		Background: background(theme),
		Canvas:     chart.Style{FillColor: mustColor(theme.Background)},
		Values:     values,
	}
}

// categoryTicks labels positions 1..n, thinning the labels when there are too many to read.
func categoryTicks(points []Point) []chart.Tick {
	step := 1
	if len(points) > maxCategoryTicks {
		step = int(math.Ceil(float64(len(points)) / maxCategoryTicks))
	}
	ticks := make([]chart.Tick, 0, len(points)/step+1)
	for i := 0; i < len(points); i += step {
		ticks = append(ticks, chart.Tick{Value: points[i].X, Label: points[i].Label})
	}
	return ticks
}

// valueRange spans vs with a margin. A flat or single-valued series gets a unit-wide range
// since go-chart cannot draw a zero-width axis. withZero keeps 0 inside the range for bars.
func valueRange(vs []float64, withZero bool) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vs {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if withZero {
		lo = math.Min(lo, 0)
		hi = math.Max(hi, 0)
	}
	if hi <= lo {
		return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	pad := (hi - lo) * 0.05
	if withZero && lo == 0 {
		return &chart.ContinuousRange{Min: 0, Max: hi + pad}
	}
	if withZero && hi == 0 {
		return &chart.ContinuousRange{Min: lo - pad, Max: 0}
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

// timeRange spans times, widening a single instant to a day either side.
func timeRange(times []time.Time) *chart.ContinuousRange {
	lo, hi := times[0], times[0]
	for _, t := range times[1:] {
		if t.Before(lo) {
			lo = t
		}
		if t.After(hi) {
			hi = t
		}
	}
	if !hi.After(lo) {
		lo, hi = lo.Add(-24*time.Hour), hi.Add(24*time.Hour)
	}
	return &chart.ContinuousRange{Min: chart.TimeToFloat64(lo), Max: chart.TimeToFloat64(hi)}
}
