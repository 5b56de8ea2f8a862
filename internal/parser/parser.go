// Package parser decodes spreadsheet bytes into typed tables.
package parser

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/sheetchart/backend/internal/models"
)

// Decoder turns the bytes of one spreadsheet format into a table.
type Decoder interface {
	// Name returns the format name ("xlsx", "xls", "csv").
	Name() string
	// CanDecode sniffs the leading bytes of data.
	CanDecode(data []byte) bool
	// Sheets lists sheet names in workbook order.
	Sheets(data []byte) ([]string, error)
	// Decode reads the selected sheet. Column names come from its first non-empty row.
	Decode(data []byte, sel models.SheetSelector) (*models.Table, error)
}

var errBadTimestamp = errors.New("not a timestamp")

var (
	boolTrue  = map[string]bool{"TRUE": true}
	boolFalse = map[string]bool{"FALSE": true}

	// naValues are read as missing, following the usual spreadsheet/CSV conventions.
	naValues = map[string]struct{}{
		"#N/A": {}, "N/A": {}, "NA": {}, "NULL": {}, "NAN": {}, "-NAN": {},
		"<NA>": {}, "NONE": {}, "#NA": {}, "-1.#IND": {}, "1.#QNAN": {},
	}

	timeLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
		"2006/01/02 15:04:05",
		"2006/01/02",
	}
)

// InferCell types a raw text value: missing markers become Null, TRUE/FALSE become booleans,
// numeric literals numbers, ISO-like dates timestamps, and anything else stays text.
func InferCell(raw string) models.Cell {
	s := strings.TrimSpace(raw)
	if s == "" {
		return models.Null()
	}

	u := strings.ToUpper(s)
	if _, ok := naValues[u]; ok {
		return models.Null()
	}
	if boolTrue[u] {
		return models.Bool(true)
	}
	if boolFalse[u] {
		return models.Bool(false)
	}

	if looksNumeric(s) {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return models.Number(v)
		}
	}

	if ts, ok := parseTimestamp(s); ok {
		return models.Timestamp(ts)
	}

	return models.Text(raw)
}

// looksNumeric rejects most text cheaply before strconv is tried.
func looksNumeric(s string) bool {
	c := s[0]
	if c == '+' || c == '-' || c == '.' {
		if len(s) == 1 {
			return false
		}
		c = s[1]
		if c == '.' && len(s) > 2 {
			c = s[2]
		}
	}
	if c >= '0' && c <= '9' {
		return true
	}
	u := strings.ToUpper(s)
	return strings.HasSuffix(u, "INF") || strings.HasSuffix(u, "INFINITY")
}

func parseTimestamp(s string) (time.Time, bool) {
	if len(s) < 8 || s[0] < '0' || s[0] > '9' {
		return time.Time{}, false
	}
	if ts, err := FastTimestamp(s); err == nil {
		return ts, true
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// FastTimestamp parses "YYYY-MM-DD HH:MM:SS[.fff]" without time.Parse.
func FastTimestamp(ts string) (time.Time, error) {
	if len(ts) < 19 || ts[4] != '-' || ts[7] != '-' || (ts[10] != ' ' && ts[10] != 'T') ||
		ts[13] != ':' || ts[16] != ':' {
		return time.Time{}, errBadTimestamp
	}

	year := parseInt4(ts[0:4])
	month := parseInt2(ts[5:7])
	day := parseInt2(ts[8:10])
	hour := parseInt2(ts[11:13])
	min := parseInt2(ts[14:16])
	sec := parseInt2(ts[17:19])

	if year < 0 || month < 1 || month > 12 || day < 1 || day > 31 ||
		hour < 0 || hour > 23 || min < 0 || min > 59 || sec < 0 || sec > 59 {
		return time.Time{}, errBadTimestamp
	}

	var nsec int
	switch {
	case len(ts) == 19:
	case len(ts) > 20 && ts[19] == '.':
		frac := ts[20:]
		fracLen := len(frac)
		if fracLen > 9 {
			frac = frac[:9]
			fracLen = 9
		}
		for i := 0; i < fracLen; i++ {
			if frac[i] < '0' || frac[i] > '9' {
				return time.Time{}, errBadTimestamp
			}
		}
		nsec = parseIntN(frac, fracLen)
		for i := fracLen; i < 9; i++ {
			nsec *= 10
		}
	default:
		return time.Time{}, errBadTimestamp
	}

	t := time.Date(year, time.Month(month), day, hour, min, sec, nsec, time.UTC)
	if t.Day() != day {
		// time.Date normalised an impossible day such as Feb 30
		return time.Time{}, errBadTimestamp
	}
	return t, nil
}

// parseInt2 parses a 2-digit decimal string. Returns -1 on error.
func parseInt2(s string) int {
	if len(s) != 2 {
		return -1
	}
	d1, d2 := s[0]-'0', s[1]-'0'
	if d1 > 9 || d2 > 9 {
		return -1
	}
	return int(d1)*10 + int(d2)
}

// parseInt4 parses a 4-digit decimal string. Returns -1 on error.
func parseInt4(s string) int {
	if len(s) != 4 {
		return -1
	}
	d1, d2, d3, d4 := s[0]-'0', s[1]-'0', s[2]-'0', s[3]-'0'
	if d1 > 9 || d2 > 9 || d3 > 9 || d4 > 9 {
		return -1
	}
	return int(d1)*1000 + int(d2)*100 + int(d3)*10 + int(d4)
}

// parseIntN parses an n-digit decimal string. Returns 0 on error.
func parseIntN(s string, n int) int {
	result := 0
	for i := 0; i < n; i++ {
		d := s[i] - '0'
		if d > 9 {
			return 0
		}
		result = result*10 + int(d)
	}
	return result
}
