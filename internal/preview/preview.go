// Package preview projects a decoded table into JSON-safe rows.
package preview

import (
	"math"

	"github.com/sheetchart/backend/internal/models"
)

// DefaultRows is the number of rows kept in a preview.
const DefaultRows = 100

// Normalize converts the first limit rows of t into plain values. Null cells and non-finite
// numbers become nil and timestamps become strings; TotalRows always reports the full row count.
// A limit <= 0 uses DefaultRows.
func Normalize(t *models.Table, limit int) *models.PreviewResult {
	if limit <= 0 {
		limit = DefaultRows
	}
	n := t.Len()
	if n > limit {
		n = limit
	}

	columns := make([]string, len(t.Columns))
	copy(columns, t.Columns)

	data := make([]map[string]any, n)
	for i := 0; i < n; i++ {
		row := make(map[string]any, len(columns))
		for _, col := range columns {
			row[col] = Value(t.Rows[i][col])
		}
		data[i] = row
	}

	return &models.PreviewResult{
		Columns:   columns,
		Data:      data,
		TotalRows: t.Len(),
	}
}

// Value returns the JSON representation of a single cell.
func Value(c models.Cell) any {
	switch c.Kind {
	case models.CellNumber:
		if math.IsInf(c.Num, 0) || math.IsNaN(c.Num) {
			return nil
		}
		return c.Num
	case models.CellText:
		return c.Str
	case models.CellBool:
		return c.Bool
	case models.CellTimestamp:
		return c.Time.Format(models.TimestampLayout)
	default:
		return nil
	}
}
