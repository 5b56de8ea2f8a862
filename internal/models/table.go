package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Row maps column name to cell.
type Row map[string]Cell

// Table is a decoded sheet. It is built once per request and never mutated afterwards.
type Table struct {
	Sheet   string
	Columns []string
	Rows    []Row
}

// NewTable builds a table from a header and positional rows. Rows shorter than the header are
// padded with Null and longer rows are truncated, so every row carries every column.
func NewTable(sheet string, columns []string, values [][]Cell) *Table {
	t := &Table{
		Sheet:   sheet,
		Columns: columns,
		Rows:    make([]Row, 0, len(values)),
	}
	for _, vals := range values {
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(vals) {
				row[col] = vals[i]
			} else {
				row[col] = Null()
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// HasColumn reports whether name is a declared column.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// ColumnIndex returns the position of name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns the cells of one column in row order.
func (t *Table) Column(name string) []Cell {
	cells := make([]Cell, len(t.Rows))
	for i, row := range t.Rows {
		cells[i] = row[name]
	}
	return cells
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// SheetSelector picks a sheet by zero-based index or by name. The zero value selects the
// first sheet.
type SheetSelector struct {
	Index  int
	Name   string
	ByName bool
}

// SheetIndex selects a sheet by position.
func SheetIndex(i int) SheetSelector { return SheetSelector{Index: i} }

// SheetName selects a sheet by name.
func SheetName(name string) SheetSelector { return SheetSelector{Name: name, ByName: true} }

// String renders the selector for error messages.
func (s SheetSelector) String() string {
	if s.ByName {
		return strconv.Quote(s.Name)
	}
	return strconv.Itoa(s.Index)
}

// UnmarshalJSON accepts null, a number (index) or a string (name).
func (s *SheetSelector) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = SheetSelector{}
		return nil
	}
	if data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*s = SheetName(name)
		return nil
	}
	var idx int
	if err := json.Unmarshal(data, &idx); err != nil {
		return fmt.Errorf("sheet_name must be a sheet name or a zero-based index: %w", err)
	}
	*s = SheetIndex(idx)
	return nil
}

// MarshalJSON writes the selector back in the shape it was read.
func (s SheetSelector) MarshalJSON() ([]byte, error) {
	if s.ByName {
		return json.Marshal(s.Name)
	}
	return json.Marshal(s.Index)
}

// ParseSheetSelector interprets a command-line value: digits select by index, anything else by
// name. An empty string selects the first sheet.
func ParseSheetSelector(v string) SheetSelector {
	if v == "" {
		return SheetSelector{}
	}
	if i, err := strconv.Atoi(v); err == nil && i >= 0 {
		return SheetIndex(i)
	}
	return SheetName(v)
}
