package models

import (
	"fmt"
	"strings"
)

// DecodeError reports bytes that could not be turned into a table.
type DecodeError struct {
	Format string // "xlsx", "xls", "csv", "base64" or empty when undetected
	Sheet  string
	Err    error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("cannot decode spreadsheet")
	if e.Format != "" {
		fmt.Fprintf(&b, " (%s)", e.Format)
	}
	if e.Sheet != "" {
		fmt.Fprintf(&b, " sheet %s", e.Sheet)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ColumnNotFoundError reports a requested column that the table does not declare.
type ColumnNotFoundError struct {
	Column    string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found (available: %s)", e.Column, strings.Join(e.Available, ", "))
}

// NoNumericColumnError reports that a numeric column was needed by default but none exists.
type NoNumericColumnError struct {
	Reason string
}

func (e *NoNumericColumnError) Error() string {
	if e.Reason == "" {
		return "no numeric column available"
	}
	return "no numeric column available: " + e.Reason
}

// EmptyColumnError reports a column with no usable numeric values.
type EmptyColumnError struct {
	Column string
}

func (e *EmptyColumnError) Error() string {
	return fmt.Sprintf("column %q has no numeric values", e.Column)
}

// RenderError reports a chart that could not be drawn.
type RenderError struct {
	Kind ChartKind
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("cannot render %s chart: %v", e.Kind, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// UnsupportedOperationError reports an unknown action or chart type.
type UnsupportedOperationError struct {
	Kind  string // "action" or "chart_type"
	Value string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported %s: %q", e.Kind, e.Value)
}
