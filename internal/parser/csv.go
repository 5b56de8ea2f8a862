package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/sheetchart/backend/internal/models"
	"golang.org/x/text/encoding/charmap"
)

// CSVSheetName is the name given to the single sheet of a CSV file.
const CSVSheetName = "Sheet1"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVDecoder reads delimited text. The delimiter is sniffed from the first line among
// comma, semicolon and tab.
type CSVDecoder struct{}

func NewCSVDecoder() *CSVDecoder {
	return &CSVDecoder{}
}

func (d *CSVDecoder) Name() string {
	return "csv"
}

// CanDecode accepts anything that looks like text: no NUL bytes in the first 4 KiB.
func (d *CSVDecoder) CanDecode(data []byte) bool {
	head := data
	if len(head) > 4096 {
		head = head[:4096]
	}
	return bytes.IndexByte(head, 0) < 0
}

func (d *CSVDecoder) Sheets(data []byte) ([]string, error) {
	return []string{CSVSheetName}, nil
}

func (d *CSVDecoder) Decode(data []byte, sel models.SheetSelector) (*models.Table, error) {
	if _, err := resolveSheet(d.Name(), []string{CSVSheetName}, sel); err != nil {
		return nil, err
	}

	text, err := toUTF8(data)
	if err != nil {
		return nil, &models.DecodeError{Format: d.Name(), Err: err}
	}

	r := csv.NewReader(bytes.NewReader(text))
	r.Comma = sniffDelimiter(text)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	intern := NewStringIntern()
	var grid [][]models.Cell
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &models.DecodeError{Format: d.Name(), Sheet: CSVSheetName, Err: err}
		}
		cells := make([]models.Cell, len(rec))
		for i, v := range rec {
			cells[i] = intern.Cell(InferCell(v))
		}
		grid = append(grid, cells)
	}

	return buildTable(CSVSheetName, grid), nil
}

// toUTF8 strips a BOM and re-decodes non-UTF-8 input as Windows-1252, the encoding spreadsheet
// applications use when exporting CSV on Western locales.
func toUTF8(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data, nil
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("converting from windows-1252: %w", err)
	}
	return out, nil
}

func sniffDelimiter(text []byte) rune {
	line := text
	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		line = text[:i]
	}
	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, c := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(c))); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}
