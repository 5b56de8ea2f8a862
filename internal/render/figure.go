// Package render draws PNG charts from two columns of a table.
package render

import (
	"fmt"
	"math"
	"time"

	"github.com/sheetchart/backend/internal/models"
)

// AxisKind is how the X values of a line or scatter chart are laid out.
type AxisKind int

const (
	AxisCategory AxisKind = iota
	AxisContinuous
	AxisTime
)

func (a AxisKind) String() string {
	switch a {
	case AxisContinuous:
		return "continuous"
	case AxisTime:
		return "time"
	default:
		return "category"
	}
}

// Point is one plotted row. X is the position on a continuous axis, T on a time axis, and
// Label the tick text on a category axis.
type Point struct {
	X     float64
	T     time.Time
	Label string
	Y     float64
}

// Wedge is one slice of a pie chart.
type Wedge struct {
	Label   string
	Value   float64
	Percent float64
	Color   string
}

// Text is the label drawn next to the wedge.
func (w Wedge) Text() string {
	return fmt.Sprintf("%s (%.1f%%)", w.Label, w.Percent)
}

// Figure is everything needed to draw a chart, computed without touching a canvas.
type Figure struct {
	Kind   models.ChartKind
	Title  string
	XName  string
	YName  string
	XAxis  AxisKind
	Points []Point
	Wedges []Wedge
}

// Plan validates the selected columns of t and lays out the chart described by spec.
func Plan(t *models.Table, spec models.ChartSpec, theme *Theme) (*Figure, error) {
	for _, col := range []string{spec.XColumn, spec.YColumn} {
		if !t.HasColumn(col) {
			return nil, &models.ColumnNotFoundError{Column: col, Available: t.Columns}
		}
	}

	fig := &Figure{
		Kind:  spec.Kind,
		Title: spec.Title(),
		XName: spec.XColumn,
		YName: spec.YColumn,
	}

	xs, ys, err := pairs(t, spec)
	if err != nil {
		return nil, err
	}

	switch spec.Kind {
	case models.ChartPie:
		fig.Wedges, err = wedges(spec.Kind, xs, ys, theme)
		if err != nil {
			return nil, err
		}
	case models.ChartBar:
		fig.XAxis = AxisCategory
		fig.Points = categoryPoints(xs, ys)
	case models.ChartLine, models.ChartScatter:
		fig.XAxis = axisFor(xs)
		fig.Points = axisPoints(fig.XAxis, xs, ys)
	default:
		return nil, &models.UnsupportedOperationError{Kind: "chart_type", Value: string(spec.Kind)}
	}

	if len(fig.Points) == 0 && len(fig.Wedges) == 0 {
		return nil, &models.RenderError{Kind: spec.Kind, Err: fmt.Errorf("column %q has no values to plot", spec.YColumn)}
	}
	return fig, nil
}

// pairs collects the rows with a numeric Y. Null and non-finite Y values are skipped; any other
// kind of Y fails the whole chart.
func pairs(t *models.Table, spec models.ChartSpec) ([]models.Cell, []float64, error) {
	var (
		xs []models.Cell
		ys []float64
	)
	for i, row := range t.Rows {
		y := row[spec.YColumn]
		switch y.Kind {
		case models.CellNull:
			continue
		case models.CellNumber:
			if math.IsInf(y.Num, 0) || math.IsNaN(y.Num) {
				continue
			}
		default:
			return nil, nil, &models.RenderError{
				Kind: spec.Kind,
				Err: fmt.Errorf("column %q holds %s value %q in row %d, expected numbers",
					spec.YColumn, y.Kind, y.Label(), i+1),
			}
		}
		xs = append(xs, row[spec.XColumn])
		ys = append(ys, y.Num)
	}
	return xs, ys, nil
}

// axisFor picks a continuous axis when every present X is a number, a time axis when every
// present X is a timestamp, and categories otherwise.
func axisFor(xs []models.Cell) AxisKind {
	var numbers, times, others int
	for _, x := range xs {
		switch x.Kind {
		case models.CellNull:
		case models.CellNumber:
			numbers++
		case models.CellTimestamp:
			times++
		default:
			others++
		}
	}
	switch {
	case others == 0 && times == 0 && numbers > 0:
		return AxisContinuous
	case others == 0 && numbers == 0 && times > 0:
		return AxisTime
	default:
		return AxisCategory
	}
}

func axisPoints(axis AxisKind, xs []models.Cell, ys []float64) []Point {
	if axis == AxisCategory {
		return categoryPoints(xs, ys)
	}
	points := make([]Point, 0, len(xs))
	for i, x := range xs {
		if x.IsNull() {
			continue
		}
		p := Point{Label: x.Label(), Y: ys[i]}
		if axis == AxisTime {
			p.T = x.Time
		} else {
			p.X = x.Num
		}
		points = append(points, p)
	}
	return points
}

// categoryPoints spaces rows evenly at 1, 2, 3... in row order.
func categoryPoints(xs []models.Cell, ys []float64) []Point {
	points := make([]Point, len(xs))
	for i, x := range xs {
		points[i] = Point{X: float64(i + 1), Label: x.Label(), Y: ys[i]}
	}
	return points
}

func wedges(kind models.ChartKind, xs []models.Cell, ys []float64, theme *Theme) ([]Wedge, error) {
	var total float64
	for i, v := range ys {
		if v < 0 {
			return nil, &models.RenderError{
				Kind: kind,
				Err:  fmt.Errorf("wedge %q has negative size %v", xs[i].Label(), v),
			}
		}
		total += v
	}
	if total == 0 {
		return nil, &models.RenderError{Kind: kind, Err: fmt.Errorf("wedge sizes add up to zero")}
	}

	out := make([]Wedge, 0, len(ys))
	for i, v := range ys {
		if v == 0 {
			continue
		}
		out = append(out, Wedge{
			Label:   xs[i].Label(),
			Value:   v,
			Percent: v / total * 100,
			Color:   theme.PaletteColor(len(out)),
		})
	}
	return out, nil
}
