// Package service runs the parse, chart and statistics operations over a base64 payload.
package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sheetchart/backend/internal/models"
	"github.com/sheetchart/backend/internal/parser"
	"github.com/sheetchart/backend/internal/preview"
	"github.com/sheetchart/backend/internal/render"
	"github.com/sheetchart/backend/internal/selector"
	"github.com/sheetchart/backend/internal/stats"
)

// Service holds the read-only state shared by all requests.
type Service struct {
	theme       *render.Theme
	previewRows int
	engine      stats.Engine
	registry    *parser.Registry
	logOut      io.Writer
}

// Option configures a Service.
type Option func(*Service)

// WithTheme sets the chart theme.
func WithTheme(t *render.Theme) Option {
	return func(s *Service) { s.theme = t }
}

// WithPreviewRows sets how many rows a preview keeps.
func WithPreviewRows(n int) Option {
	return func(s *Service) { s.previewRows = n }
}

// WithEngine sets the statistics engine.
func WithEngine(e stats.Engine) Option {
	return func(s *Service) { s.engine = e }
}

// WithLogOutput redirects the service's progress lines.
func WithLogOutput(w io.Writer) Option {
	return func(s *Service) { s.logOut = w }
}

// New returns a service using the default theme, preview size and native statistics unless
// overridden.
func New(opts ...Option) *Service {
	s := &Service{
		theme:       render.DefaultTheme(),
		previewRows: preview.DefaultRows,
		engine:      stats.NewNativeEngine(),
		registry:    parser.GetGlobalRegistry(),
		logOut:      os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseRequest selects the sheet to preview.
type ParseRequest struct {
	FileData string
	Sheet    models.SheetSelector
}

// ChartRequest selects the sheet, columns and kind of chart.
type ChartRequest struct {
	FileData  string
	Sheet     models.SheetSelector
	ChartType string
	XColumn   string
	YColumn   string
}

// StatisticsRequest selects the sheet and column to describe.
type StatisticsRequest struct {
	FileData string
	Sheet    models.SheetSelector
	Column   string
}

// Parse decodes the sheet and returns its preview.
func (s *Service) Parse(ctx context.Context, req ParseRequest) (*models.PreviewResult, error) {
	table, err := s.load(req.FileData, req.Sheet)
	if err != nil {
		return nil, err
	}
	return preview.Normalize(table, s.previewRows), nil
}

// GenerateChart decodes the sheet and renders the requested chart as base64 PNG.
func (s *Service) GenerateChart(ctx context.Context, req ChartRequest) (*models.ChartResult, error) {
	// validated before the file is decoded
	kind, err := models.ParseChartKind(req.ChartType)
	if err != nil {
		return nil, err
	}

	table, err := s.load(req.FileData, req.Sheet)
	if err != nil {
		return nil, err
	}

	x, y, err := selector.ChartColumns(table, req.XColumn, req.YColumn)
	if err != nil {
		return nil, err
	}

	spec := models.ChartSpec{Kind: kind, XColumn: x, YColumn: y, Sheet: req.Sheet}
	png, err := render.Render(table, spec, s.theme)
	if err != nil {
		return nil, err
	}

	return &models.ChartResult{
		Image:  base64.StdEncoding.EncodeToString(png),
		Format: "png",
	}, nil
}

// Statistics decodes the sheet and describes one column.
func (s *Service) Statistics(ctx context.Context, req StatisticsRequest) (*models.StatsResult, error) {
	table, err := s.load(req.FileData, req.Sheet)
	if err != nil {
		return nil, err
	}

	col, err := selector.StatsColumn(table, req.Column)
	if err != nil {
		return nil, err
	}
	return stats.Describe(ctx, s.engine, table, col)
}

// Dispatch routes req by its action. An empty action parses.
func (s *Service) Dispatch(ctx context.Context, req models.Request) (any, error) {
	switch req.Action {
	case "", models.ActionParse:
		return s.Parse(ctx, ParseRequest{FileData: req.FileData, Sheet: req.SheetName})
	case models.ActionGenerateChart:
		return s.GenerateChart(ctx, ChartRequest{
			FileData:  req.FileData,
			Sheet:     req.SheetName,
			ChartType: req.ChartType,
			XColumn:   req.XColumn,
			YColumn:   req.YColumn,
		})
	case models.ActionStatistics:
		return s.Statistics(ctx, StatisticsRequest{FileData: req.FileData, Sheet: req.SheetName, Column: req.Column})
	default:
		return nil, &models.UnsupportedOperationError{Kind: "action", Value: req.Action}
	}
}

// EngineName reports the statistics engine in use.
func (s *Service) EngineName() string {
	return s.engine.Name()
}

func (s *Service) load(fileData string, sel models.SheetSelector) (*models.Table, error) {
	data, err := DecodeBase64(fileData)
	if err != nil {
		return nil, err
	}
	d, err := s.registry.FindDecoder(data)
	if err != nil {
		return nil, err
	}
	table, err := d.Decode(data, sel)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(s.logOut, "[Service] Decoded %s sheet %q: %d columns, %d rows\n", d.Name(), table.Sheet, len(table.Columns), table.Len())
	return table, nil
}

// DecodeBase64 accepts standard or URL-safe base64, padded or not, and an optional data URL
// prefix as browsers produce with FileReader.readAsDataURL.
func DecodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, ";base64,"); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+len(";base64,"):]
	}
	if s == "" {
		return nil, &models.DecodeError{Format: "base64", Err: fmt.Errorf("file_data is empty")}
	}

	var lastErr error
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		data, err := enc.DecodeString(s)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, &models.DecodeError{Format: "base64", Err: lastErr}
}
