// Package testutil builds spreadsheet fixtures for tests.
package testutil

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet of a generated workbook. Rows[0] is the header row; nil values leave
// the cell empty.
type Sheet struct {
	Name string
	Rows [][]any
}

// XLSX builds an in-memory workbook containing sheets in order.
func XLSX(t testing.TB, sheets ...Sheet) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", s.Name))
		} else {
			_, err := f.NewSheet(s.Name)
			require.NoError(t, err)
		}
		for r, row := range s.Rows {
			for c, v := range row {
				if v == nil {
					continue
				}
				axis, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(s.Name, axis, v))
			}
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// SingleSheet is shorthand for a one-sheet workbook named Sheet1.
func SingleSheet(t testing.TB, rows ...[]any) []byte {
	t.Helper()
	return XLSX(t, Sheet{Name: "Sheet1", Rows: rows})
}

// Base64 encodes a fixture the way clients send it.
func Base64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// SalesRows is a small Date/Revenue/Region table used across packages.
func SalesRows() [][]any {
	return [][]any{
		{"Date", "Revenue", "Region"},
		{"2024-01-01", 120.5, "North"},
		{"2024-01-02", 98.0, "South"},
		{"2024-01-03", 143.25, "North"},
		{"2024-01-04", 110.0, "East"},
	}
}
