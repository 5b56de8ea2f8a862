package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Action names accepted by the dispatcher.
const (
	ActionParse         = "parse"
	ActionGenerateChart = "generate_chart"
	ActionStatistics    = "statistics"
)

// ChartKind is one of the supported visual encodings.
type ChartKind string

const (
	ChartLine    ChartKind = "line"
	ChartBar     ChartKind = "bar"
	ChartPie     ChartKind = "pie"
	ChartScatter ChartKind = "scatter"
)

// ChartKinds lists the supported kinds in display order.
var ChartKinds = []ChartKind{ChartLine, ChartBar, ChartPie, ChartScatter}

// ParseChartKind validates a requested kind. An empty value means line.
func ParseChartKind(v string) (ChartKind, error) {
	if v == "" {
		return ChartLine, nil
	}
	k := ChartKind(strings.ToLower(strings.TrimSpace(v)))
	for _, known := range ChartKinds {
		if k == known {
			return k, nil
		}
	}
	return "", &UnsupportedOperationError{Kind: "chart_type", Value: v}
}

// ChartSpec describes one chart request after column resolution.
type ChartSpec struct {
	Kind    ChartKind
	XColumn string
	YColumn string
	Sheet   SheetSelector
}

// Title is the fixed chart title.
func (s ChartSpec) Title() string {
	return fmt.Sprintf("%s by %s", s.YColumn, s.XColumn)
}

// StatsResult holds descriptive statistics over one filtered numeric sample.
type StatsResult struct {
	Count  int     `json:"count" msgpack:"count"`
	Mean   float64 `json:"mean" msgpack:"mean"`
	Median float64 `json:"median" msgpack:"median"`
	Std    float64 `json:"std" msgpack:"std"`
	Min    float64 `json:"min" msgpack:"min"`
	Max    float64 `json:"max" msgpack:"max"`
	Sum    float64 `json:"sum" msgpack:"sum"`
	Q25    float64 `json:"q25" msgpack:"q25"`
	Q75    float64 `json:"q75" msgpack:"q75"`
}

// PreviewResult is the JSON-safe projection of a table.
type PreviewResult struct {
	Columns   []string         `json:"columns"`
	Data      []map[string]any `json:"data"`
	TotalRows int              `json:"total_rows"`
}

// MarshalJSON writes each data row with its keys in column order.
func (p PreviewResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	cols, err := json.Marshal(p.Columns)
	if err != nil {
		return nil, err
	}
	if p.Columns == nil {
		cols = []byte("[]")
	}
	buf.WriteString(`{"columns":`)
	buf.Write(cols)
	buf.WriteString(`,"data":[`)
	for i, row := range p.Data {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, col := range p.Columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, _ := json.Marshal(col)
			val, err := json.Marshal(row[col])
			if err != nil {
				return nil, fmt.Errorf("encoding column %q: %w", col, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	fmt.Fprintf(&buf, `],"total_rows":%d}`, p.TotalRows)
	return buf.Bytes(), nil
}

// ChartResult carries a rendered image.
type ChartResult struct {
	Image  string `json:"image"`
	Format string `json:"format"`
}

// Request is the decoded payload of an inbound call.
type Request struct {
	Action    string        `json:"action"`
	FileData  string        `json:"file_data"`
	ChartType string        `json:"chart_type,omitempty"`
	XColumn   string        `json:"x_column,omitempty"`
	YColumn   string        `json:"y_column,omitempty"`
	Column    string        `json:"column,omitempty"`
	SheetName SheetSelector `json:"sheet_name"`
}
