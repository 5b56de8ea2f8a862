// Package selector resolves requested column names against a table, applying positional
// defaults when a name is not given.
package selector

import (
	"github.com/sheetchart/backend/internal/models"
)

// ChartColumns resolves the X and Y columns of a chart. An empty x defaults to the first
// column and an empty y to the second.
func ChartColumns(t *models.Table, x, y string) (string, string, error) {
	if x == "" && y == "" && len(t.Columns) < 2 {
		return "", "", &models.NoNumericColumnError{
			Reason: "a chart needs two columns but the sheet has fewer than two",
		}
	}

	var err error
	if x, err = resolve(t, x, 0); err != nil {
		return "", "", err
	}
	if y, err = resolve(t, y, 1); err != nil {
		return "", "", err
	}
	return x, y, nil
}

// StatsColumn resolves the column to describe. An empty name picks the leftmost numeric
// column.
func StatsColumn(t *models.Table, name string) (string, error) {
	if name != "" {
		return resolve(t, name, -1)
	}
	for _, col := range t.Columns {
		if IsNumeric(t, col) {
			return col, nil
		}
	}
	return "", &models.NoNumericColumnError{Reason: "no column holds only numbers"}
}

// IsNumeric reports whether col has at least one number and nothing but numbers and blanks.
func IsNumeric(t *models.Table, col string) bool {
	seen := false
	for _, row := range t.Rows {
		switch row[col].Kind {
		case models.CellNull:
		case models.CellNumber:
			seen = true
		default:
			return false
		}
	}
	return seen
}

// resolve returns name when the table declares it, or the column at position def when name is
// empty. A default position beyond the table width is reported as a missing column.
func resolve(t *models.Table, name string, def int) (string, error) {
	if name == "" {
		if def < 0 || def >= len(t.Columns) {
			return "", &models.NoNumericColumnError{Reason: "the sheet has too few columns to pick a default"}
		}
		return t.Columns[def], nil
	}
	if !t.HasColumn(name) {
		return "", &models.ColumnNotFoundError{Column: name, Available: t.Columns}
	}
	return name, nil
}
