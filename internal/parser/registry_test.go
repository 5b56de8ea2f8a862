package parser

import (
	"errors"
	"testing"

	"github.com/sheetchart/backend/internal/models"
	"github.com/sheetchart/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryFindDecoder(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"xlsx", testutil.SingleSheet(t, []any{"a"}, []any{1}), "xlsx"},
		{"xls", append(append([]byte{}, oleMagic...), 0, 0, 0, 0), "xls"},
		{"csv", []byte("a,b\n1,2\n"), "csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := reg.FindDecoder(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func TestRegistryRejectsUnknownBytes(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.FindDecoder([]byte{0x89, 'P', 'N', 'G', 0, 0, 0, 0})
	var decErr *models.DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = reg.FindDecoder(nil)
	require.ErrorAs(t, err, &decErr)
}

func TestGetDecoderByName(t *testing.T) {
	reg := GetGlobalRegistry()

	d, err := reg.GetDecoderByName("csv")
	require.NoError(t, err)
	assert.Equal(t, "csv", d.Name())

	_, err = reg.GetDecoderByName("ods")
	assert.Error(t, err)
}

func TestListSheets(t *testing.T) {
	data := testutil.XLSX(t,
		testutil.Sheet{Name: "Summary", Rows: [][]any{{"a"}}},
		testutil.Sheet{Name: "Detail", Rows: [][]any{{"b"}}},
	)

	names, err := ListSheets(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"Summary", "Detail"}, names)

	names, err = ListSheets([]byte("x,y\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{CSVSheetName}, names)
}

func TestXLSDecoderMalformed(t *testing.T) {
	data := append(append([]byte{}, oleMagic...), make([]byte, 64)...)

	_, err := NewXLSDecoder().Decode(data, models.SheetSelector{})
	var decErr *models.DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, "xls", decErr.Format)
}
