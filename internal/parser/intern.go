// String interning for decoded text cells.
// Category-like columns repeat the same handful of strings across thousands of rows;
// interning them keeps one copy per distinct value for the lifetime of a decode.
package parser

import "github.com/sheetchart/backend/internal/models"

// MaxInternPoolSize limits the intern pool to prevent unbounded memory growth.
// Sheets with many unique strings stop interning after this limit.
const MaxInternPoolSize = 100000

// StringIntern deduplicates strings. It is created per decode and is not safe for
// concurrent use.
type StringIntern struct {
	pool map[string]string
}

// NewStringIntern creates a new string interner.
func NewStringIntern() *StringIntern {
	return &StringIntern{
		pool: make(map[string]string, 256),
	}
}

// Intern returns the canonical version of the string.
// If the pool has reached MaxInternPoolSize, returns the string without storing.
func (si *StringIntern) Intern(s string) string {
	if pooled, ok := si.pool[s]; ok {
		return pooled
	}
	if len(si.pool) >= MaxInternPoolSize {
		return s
	}
	si.pool[s] = s
	return s
}

// Cell interns the string payload of text cells and returns other cells unchanged.
func (si *StringIntern) Cell(c models.Cell) models.Cell {
	if c.Kind == models.CellText {
		c.Str = si.Intern(c.Str)
	}
	return c
}

// Len returns the number of unique strings in the pool.
func (si *StringIntern) Len() int {
	return len(si.pool)
}
