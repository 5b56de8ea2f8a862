package parser

import (
	"testing"

	"github.com/sheetchart/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVDecode(t *testing.T) {
	data := []byte("\xEF\xBB\xBFRegion,Sales,Note\nA,10,\"hello, world\"\nB,30\n\n")

	table, err := NewCSVDecoder().Decode(data, models.SheetSelector{})
	require.NoError(t, err)

	assert.Equal(t, CSVSheetName, table.Sheet)
	assert.Equal(t, []string{"Region", "Sales", "Note"}, table.Columns)
	require.Equal(t, 2, table.Len())
	assert.True(t, table.Rows[0]["Sales"].Equal(models.Number(10)))
	assert.True(t, table.Rows[0]["Note"].Equal(models.Text("hello, world")))
	assert.True(t, table.Rows[1]["Note"].IsNull())
}

func TestCSVDecodeDelimiters(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"semicolon", "a;b\n1;2\n"},
		{"tab", "a\tb\n1\t2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewCSVDecoder().Decode([]byte(tt.data), models.SheetSelector{})
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, table.Columns)
			assert.True(t, table.Rows[0]["b"].Equal(models.Number(2)))
		})
	}
}

func TestCSVDecodeWindows1252(t *testing.T) {
	// "Café" with é as 0xE9
	data := []byte("Name,Price\nCaf\xE9,3.5\n")

	table, err := NewCSVDecoder().Decode(data, models.SheetSelector{})
	require.NoError(t, err)
	assert.True(t, table.Rows[0]["Name"].Equal(models.Text("Café")))
}

func TestCSVDecodeSheetSelector(t *testing.T) {
	d := NewCSVDecoder()
	data := []byte("a\n1\n")

	_, err := d.Decode(data, models.SheetName(CSVSheetName))
	assert.NoError(t, err)

	_, err = d.Decode(data, models.SheetIndex(1))
	var decErr *models.DecodeError
	assert.ErrorAs(t, err, &decErr)
}
