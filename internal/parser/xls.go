package parser

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
	"github.com/sheetchart/backend/internal/models"
)

var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// XLSDecoder reads legacy BIFF8 workbooks. The library only exposes formatted strings, so
// cells are typed by inference.
type XLSDecoder struct {
	charset string
}

func NewXLSDecoder() *XLSDecoder {
	return &XLSDecoder{charset: "utf-8"}
}

func (d *XLSDecoder) Name() string {
	return "xls"
}

func (d *XLSDecoder) CanDecode(data []byte) bool {
	return bytes.HasPrefix(data, oleMagic)
}

func (d *XLSDecoder) Sheets(data []byte) (names []string, err error) {
	wb, err := d.open(data)
	if err != nil {
		return nil, err
	}
	defer d.recoverInto(&err)

	for i := 0; i < wb.NumSheets(); i++ {
		if s := wb.GetSheet(i); s != nil {
			names = append(names, s.Name)
		}
	}
	return names, nil
}

func (d *XLSDecoder) Decode(data []byte, sel models.SheetSelector) (table *models.Table, err error) {
	wb, err := d.open(data)
	if err != nil {
		return nil, err
	}
	defer d.recoverInto(&err)

	names := make([]string, 0, wb.NumSheets())
	sheets := make([]*xls.WorkSheet, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		if s := wb.GetSheet(i); s != nil {
			names = append(names, s.Name)
			sheets = append(sheets, s)
		}
	}

	name, err := resolveSheet(d.Name(), names, sel)
	if err != nil {
		return nil, err
	}
	var ws *xls.WorkSheet
	for i, n := range names {
		if n == name {
			ws = sheets[i]
			break
		}
	}

	intern := NewStringIntern()
	grid := make([][]models.Cell, 0, int(ws.MaxRow)+1)
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		cells := make([]models.Cell, row.LastCol()+1)
		for j := row.FirstCol(); j <= row.LastCol(); j++ {
			cells[j] = intern.Cell(InferCell(row.Col(j)))
		}
		grid = append(grid, cells)
	}

	return buildTable(name, grid), nil
}

func (d *XLSDecoder) open(data []byte) (wb *xls.WorkBook, err error) {
	defer d.recoverInto(&err)
	wb, err = xls.OpenReader(bytes.NewReader(data), d.charset)
	if err != nil {
		return nil, &models.DecodeError{Format: d.Name(), Err: err}
	}
	return wb, nil
}

// recoverInto converts a panic from the BIFF reader, which indexes records without bounds
// checks, into a DecodeError.
func (d *XLSDecoder) recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = &models.DecodeError{Format: d.Name(), Err: fmt.Errorf("malformed workbook: %v", r)}
	}
}
