package parser

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sheetchart/backend/internal/models"
	"github.com/xuri/excelize/v2"
)

var zipMagic = []byte("PK\x03\x04")

// builtinDateFormats are the predefined number formats that render a date or time.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 30: true, 36: true, 45: true, 46: true, 47: true, 50: true, 57: true,
}

// XLSXDecoder reads Office Open XML workbooks.
type XLSXDecoder struct{}

func NewXLSXDecoder() *XLSXDecoder {
	return &XLSXDecoder{}
}

func (d *XLSXDecoder) Name() string {
	return "xlsx"
}

func (d *XLSXDecoder) CanDecode(data []byte) bool {
	return bytes.HasPrefix(data, zipMagic)
}

func (d *XLSXDecoder) Sheets(data []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &models.DecodeError{Format: d.Name(), Err: err}
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

func (d *XLSXDecoder) Decode(data []byte, sel models.SheetSelector) (*models.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &models.DecodeError{Format: d.Name(), Err: err}
	}
	defer f.Close()

	sheet, err := resolveSheet(d.Name(), f.GetSheetList(), sel)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &models.DecodeError{Format: d.Name(), Sheet: sheet, Err: err}
	}

	r := &xlsxReader{
		f:      f,
		sheet:  sheet,
		intern: NewStringIntern(),
		dates:  make(map[int]bool),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		r.date1904 = *props.Date1904
	}

	grid := make([][]models.Cell, len(rows))
	for i, raw := range rows {
		cells := make([]models.Cell, len(raw))
		for j, v := range raw {
			c, err := r.cell(i, j, v)
			if err != nil {
				return nil, &models.DecodeError{Format: d.Name(), Sheet: sheet, Err: err}
			}
			cells[j] = c
		}
		grid[i] = cells
	}

	return buildTable(sheet, grid), nil
}

// xlsxReader carries per-decode state: the open file and a style cache.
type xlsxReader struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	intern   *StringIntern
	dates    map[int]bool // style id -> renders as date
}

func (r *xlsxReader) cell(row, col int, raw string) (models.Cell, error) {
	if raw == "" {
		return models.Null(), nil
	}
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return models.Null(), err
	}
	typ, err := r.f.GetCellType(r.sheet, axis)
	if err != nil {
		return models.Null(), fmt.Errorf("cell %s: %w", axis, err)
	}

	switch typ {
	case excelize.CellTypeBool:
		return models.Bool(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return r.intern.Cell(models.Text(raw)), nil
	case excelize.CellTypeError:
		return models.Null(), nil
	case excelize.CellTypeDate:
		if ts, ok := parseTimestamp(raw); ok {
			return models.Timestamp(ts), nil
		}
		return r.intern.Cell(models.Text(raw)), nil
	case excelize.CellTypeFormula:
		// String result of a formula; numeric results carry no type and fall through below.
		return r.intern.Cell(models.Text(raw)), nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return r.intern.Cell(models.Text(raw)), nil
	}
	if r.isDate(axis) {
		ts, err := excelize.ExcelDateToTime(v, r.date1904)
		if err == nil {
			return models.Timestamp(ts.Round(time.Millisecond)), nil
		}
	}
	return models.Number(v), nil
}

// isDate reports whether the cell's number format displays a date or time.
func (r *xlsxReader) isDate(axis string) bool {
	id, err := r.f.GetCellStyle(r.sheet, axis)
	if err != nil || id == 0 {
		return false
	}
	if v, ok := r.dates[id]; ok {
		return v
	}
	isDate := false
	if style, err := r.f.GetStyle(id); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			isDate = isDateFormat(*style.CustomNumFmt)
		} else {
			isDate = builtinDateFormats[style.NumFmt]
		}
	}
	r.dates[id] = isDate
	return isDate
}

// isDateFormat inspects a custom number format code for date or time tokens, ignoring quoted
// literals, escapes and bracketed colour/locale sections.
func isDateFormat(code string) bool {
	if strings.EqualFold(code, "general") {
		return false
	}
	var b strings.Builder
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case inQuote:
			if c == '"' {
				inQuote = false
			}
		case inBracket:
			if c == ']' {
				inBracket = false
			}
		case c == '"':
			inQuote = true
		case c == '[':
			// [h], [mm], [ss] are elapsed-time tokens; anything else is colour or locale
			if i+1 < len(code) && strings.ContainsRune("hHmMsS", rune(code[i+1])) {
				b.WriteByte('h')
			}
			inBracket = true
		case c == '\\' || c == '_' || c == '*':
			i++
		default:
			b.WriteByte(c)
		}
	}
	return strings.ContainsAny(strings.ToLower(b.String()), "ymdhs")
}
