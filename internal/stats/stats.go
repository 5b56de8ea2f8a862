// Package stats computes descriptive statistics over one spreadsheet column.
package stats

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sheetchart/backend/internal/models"
)

// Engine computes a StatsResult over a non-empty sample.
type Engine interface {
	Name() string
	Compute(ctx context.Context, values []float64) (*models.StatsResult, error)
}

// Engine names accepted by NewEngine.
const (
	EngineNative = "native"
	EngineDuckDB = "duckdb"
)

// NewEngine returns the engine registered under name. An empty name selects the native engine.
func NewEngine(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EngineNative:
		return NewNativeEngine(), nil
	case EngineDuckDB:
		return NewDuckDBEngine(), nil
	default:
		return nil, fmt.Errorf("unknown statistics engine %q (expected %s or %s)", name, EngineNative, EngineDuckDB)
	}
}

// Describe coerces column to numbers and runs e over what is left. A column with no usable
// values fails with EmptyColumnError.
func Describe(ctx context.Context, e Engine, t *models.Table, column string) (*models.StatsResult, error) {
	values := Coerce(t.Column(column))
	if len(values) == 0 {
		return nil, &models.EmptyColumnError{Column: column}
	}
	return e.Compute(ctx, values)
}

// Coerce converts cells to float64, dropping anything that is not a finite number. Booleans
// count as 1 and 0 and text is parsed after trimming.
func Coerce(cells []models.Cell) []float64 {
	out := make([]float64, 0, len(cells))
	for _, c := range cells {
		var v float64
		switch c.Kind {
		case models.CellNumber:
			v = c.Num
		case models.CellBool:
			if c.Bool {
				v = 1
			}
		case models.CellText:
			f, err := strconv.ParseFloat(strings.TrimSpace(c.Str), 64)
			if err != nil {
				continue
			}
			v = f
		default:
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}
