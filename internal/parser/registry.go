package parser

import (
	"errors"
	"fmt"

	"github.com/sheetchart/backend/internal/models"
)

// ErrUnsupportedFormat is wrapped in a DecodeError when no decoder recognises the bytes.
var ErrUnsupportedFormat = errors.New("unsupported file format (expected xlsx, xls or csv)")

// Registry holds all available decoders and picks one by content.
type Registry struct {
	decoders []Decoder
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry returns a registry with the built-in decoders. Order matters: csv accepts any
// text, so it is tried last.
func NewRegistry() *Registry {
	return &Registry{
		decoders: []Decoder{
			NewXLSXDecoder(),
			NewXLSDecoder(),
			NewCSVDecoder(),
		},
	}
}

// GetGlobalRegistry returns the process-wide registry. It is never mutated after init.
func GetGlobalRegistry() *Registry {
	return globalRegistry
}

// FindDecoder detects the decoder for data.
func (r *Registry) FindDecoder(data []byte) (Decoder, error) {
	if len(data) == 0 {
		return nil, &models.DecodeError{Err: errors.New("empty file")}
	}
	for _, d := range r.decoders {
		if d.CanDecode(data) {
			return d, nil
		}
	}
	return nil, &models.DecodeError{Err: ErrUnsupportedFormat}
}

// GetDecoderByName returns a decoder by its format name.
func (r *Registry) GetDecoderByName(name string) (Decoder, error) {
	for _, d := range r.decoders {
		if d.Name() == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("decoder not found: %s", name)
}

// Decode sniffs the format and reads the selected sheet.
func (r *Registry) Decode(data []byte, sel models.SheetSelector) (*models.Table, error) {
	d, err := r.FindDecoder(data)
	if err != nil {
		return nil, err
	}
	return d.Decode(data, sel)
}

// ListSheets sniffs the format and returns the sheet names.
func (r *Registry) ListSheets(data []byte) ([]string, error) {
	d, err := r.FindDecoder(data)
	if err != nil {
		return nil, err
	}
	return d.Sheets(data)
}

// Decode reads the selected sheet using the global registry.
func Decode(data []byte, sel models.SheetSelector) (*models.Table, error) {
	return globalRegistry.Decode(data, sel)
}

// ListSheets returns the sheet names using the global registry.
func ListSheets(data []byte) ([]string, error) {
	return globalRegistry.ListSheets(data)
}

// resolveSheet maps a selector onto one of names.
func resolveSheet(format string, names []string, sel models.SheetSelector) (string, error) {
	if sel.ByName {
		for _, n := range names {
			if n == sel.Name {
				return n, nil
			}
		}
		return "", &models.DecodeError{
			Format: format,
			Err:    fmt.Errorf("worksheet named %q not found (sheets: %v)", sel.Name, names),
		}
	}
	if sel.Index < 0 || sel.Index >= len(names) {
		return "", &models.DecodeError{
			Format: format,
			Err:    fmt.Errorf("worksheet index %d is out of range (workbook has %d sheets)", sel.Index, len(names)),
		}
	}
	return names[sel.Index], nil
}
