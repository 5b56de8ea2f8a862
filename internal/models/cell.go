// Package models contains domain types for the spreadsheet chart service.
package models

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// CellKind tags the value held by a Cell.
type CellKind uint8

const (
	CellNull CellKind = iota
	CellNumber
	CellText
	CellBool
	CellTimestamp
)

// String returns the lowercase name of the kind.
func (k CellKind) String() string {
	switch k {
	case CellNull:
		return "null"
	case CellNumber:
		return "number"
	case CellText:
		return "text"
	case CellBool:
		return "boolean"
	case CellTimestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// TimestampLayout is the rendering used whenever a timestamp leaves the table.
const TimestampLayout = "2006-01-02 15:04:05"

// Cell is a single typed spreadsheet value. Only the field matching Kind is meaningful.
type Cell struct {
	Kind CellKind
	Num  float64
	Str  string
	Bool bool
	Time time.Time
}

// Null returns an empty cell.
func Null() Cell { return Cell{} }

// Number wraps a float64. NaN is stored as Null since it marks a missing value.
func Number(v float64) Cell {
	if math.IsNaN(v) {
		return Cell{}
	}
	return Cell{Kind: CellNumber, Num: v}
}

// Text wraps a string.
func Text(s string) Cell { return Cell{Kind: CellText, Str: s} }

// Bool wraps a boolean.
func Bool(b bool) Cell { return Cell{Kind: CellBool, Bool: b} }

// Timestamp wraps a calendar instant.
func Timestamp(t time.Time) Cell { return Cell{Kind: CellTimestamp, Time: t} }

// IsNull reports whether the cell holds no value.
func (c Cell) IsNull() bool { return c.Kind == CellNull }

// Label renders the cell for display on a chart axis or legend.
func (c Cell) Label() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'g', -1, 64)
	case CellText:
		return c.Str
	case CellBool:
		if c.Bool {
			return "True"
		}
		return "False"
	case CellTimestamp:
		return c.Time.Format(TimestampLayout)
	default:
		return ""
	}
}

// Equal compares kind and value.
func (c Cell) Equal(o Cell) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case CellNumber:
		return c.Num == o.Num
	case CellText:
		return c.Str == o.Str
	case CellBool:
		return c.Bool == o.Bool
	case CellTimestamp:
		return c.Time.Equal(o.Time)
	default:
		return true
	}
}
