package models

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellConstructors(t *testing.T) {
	assert.True(t, Number(math.NaN()).IsNull())
	assert.Equal(t, CellNumber, Number(2.5).Kind)
	assert.Equal(t, "2.5", Number(2.5).Label())
	assert.Equal(t, "True", Bool(true).Label())
	assert.Equal(t, "2024-01-15 08:30:00", Timestamp(time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)).Label())
	assert.Equal(t, "", Null().Label())

	assert.True(t, Text("a").Equal(Text("a")))
	assert.False(t, Text("1").Equal(Number(1)))
	assert.True(t, Null().Equal(Null()))
}

func TestNewTablePadsAndTruncates(t *testing.T) {
	table := NewTable("S", []string{"a", "b"}, [][]Cell{
		{Number(1)},
		{Number(2), Text("x"), Text("dropped")},
	})

	require.Equal(t, 2, table.Len())
	for _, row := range table.Rows {
		assert.Len(t, row, 2)
	}
	assert.True(t, table.Rows[0]["b"].IsNull())
	assert.True(t, table.Rows[1]["b"].Equal(Text("x")))
	assert.Equal(t, 1, table.ColumnIndex("b"))
	assert.False(t, table.HasColumn("c"))
	assert.Len(t, table.Column("a"), 2)
}

func TestSheetSelectorJSON(t *testing.T) {
	tests := []struct {
		in   string
		want SheetSelector
	}{
		{`null`, SheetSelector{}},
		{`0`, SheetIndex(0)},
		{`2`, SheetIndex(2)},
		{`"Sales"`, SheetName("Sales")},
		{`"3"`, SheetName("3")},
	}
	for _, tt := range tests {
		var got SheetSelector
		require.NoError(t, json.Unmarshal([]byte(tt.in), &got), tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	var bad SheetSelector
	assert.Error(t, json.Unmarshal([]byte(`true`), &bad))

	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"action":"parse","file_data":"x"}`), &req))
	assert.Equal(t, SheetSelector{}, req.SheetName)

	out, err := json.Marshal(SheetName("Q1"))
	require.NoError(t, err)
	assert.JSONEq(t, `"Q1"`, string(out))
}

func TestParseSheetSelector(t *testing.T) {
	assert.Equal(t, SheetSelector{}, ParseSheetSelector(""))
	assert.Equal(t, SheetIndex(1), ParseSheetSelector("1"))
	assert.Equal(t, SheetName("Q1"), ParseSheetSelector("Q1"))
	assert.Equal(t, SheetName("-1"), ParseSheetSelector("-1"))
}

func TestParseChartKind(t *testing.T) {
	for _, k := range ChartKinds {
		got, err := ParseChartKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	got, err := ParseChartKind("")
	require.NoError(t, err)
	assert.Equal(t, ChartLine, got)

	got, err = ParseChartKind(" Pie ")
	require.NoError(t, err)
	assert.Equal(t, ChartPie, got)

	_, err = ParseChartKind("triangle")
	var unsupported *UnsupportedOperationError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "chart_type", unsupported.Kind)
	assert.Equal(t, "triangle", unsupported.Value)
}

func TestChartSpecTitle(t *testing.T) {
	assert.Equal(t, "Sales by Region", ChartSpec{XColumn: "Region", YColumn: "Sales"}.Title())
}

func TestPreviewResultJSONKeepsColumnOrder(t *testing.T) {
	p := PreviewResult{
		Columns:   []string{"z", "a", "m"},
		Data:      []map[string]any{{"z": 1.5, "a": nil, "m": "x"}},
		TotalRows: 7,
	}

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, `{"columns":["z","a","m"],"data":[{"z":1.5,"a":null,"m":"x"}],"total_rows":7}`, string(out))

	var back PreviewResult
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, p.Columns, back.Columns)
	assert.Equal(t, p.Data, back.Data)
	assert.Equal(t, 7, back.TotalRows)
}

func TestPreviewResultJSONEmpty(t *testing.T) {
	out, err := json.Marshal(PreviewResult{})
	require.NoError(t, err)
	assert.Equal(t, `{"columns":[],"data":[],"total_rows":0}`, string(out))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "cannot decode spreadsheet (xlsx) sheet Data: boom",
		(&DecodeError{Format: "xlsx", Sheet: "Data", Err: errors.New("boom")}).Error())
	assert.Equal(t, "cannot decode spreadsheet: empty file", (&DecodeError{Err: errors.New("empty file")}).Error())
	assert.Contains(t, (&ColumnNotFoundError{Column: "Qty", Available: []string{"a", "b"}}).Error(), `"Qty"`)
	assert.Contains(t, (&RenderError{Kind: ChartBar, Err: assert.AnError}).Error(), "bar chart")
	assert.Equal(t, `unsupported action: "delete"`, (&UnsupportedOperationError{Kind: "action", Value: "delete"}).Error())
}
