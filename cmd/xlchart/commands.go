package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sheetchart/backend/internal/models"
	"github.com/sheetchart/backend/internal/parser"
	"github.com/sheetchart/backend/internal/render"
	"github.com/sheetchart/backend/internal/service"
	"github.com/sheetchart/backend/internal/stats"
	"github.com/spf13/cobra"
)

type options struct {
	sheet     string
	pretty    bool
	themeFile string
	engine    string
	rows      int
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "xlchart",
		Short:         "Preview, chart and describe spreadsheets",
		Long:          "xlchart reads an xlsx, xls or csv file and prints a JSON preview, renders a PNG chart, or computes descriptive statistics for one column.",
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringVar(&opts.sheet, "sheet", "", "Sheet name or zero-based index (default: first sheet)")
	root.PersistentFlags().BoolVar(&opts.pretty, "pretty", false, "Pretty-print JSON output")
	root.PersistentFlags().StringVar(&opts.themeFile, "theme", "", "YAML chart theme file")
	root.PersistentFlags().StringVar(&opts.engine, "engine", stats.EngineNative, "Statistics engine: native or duckdb")
	root.PersistentFlags().IntVar(&opts.rows, "rows", 0, "Preview row limit (default 100)")

	root.AddCommand(newSheetsCommand(opts))
	root.AddCommand(newParseCommand(opts))
	root.AddCommand(newChartCommand(opts))
	root.AddCommand(newStatsCommand(opts))

	return root
}

func newSheetsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sheets FILE",
		Short: "List the sheet names of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			names, err := parser.ListSheets(data)
			if err != nil {
				return err
			}
			return opts.printJSON(cmd, names)
		},
	}
}

func newParseCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parse FILE",
		Short: "Print the first rows of a sheet as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, payload, err := opts.prepare(cmd, args[0])
			if err != nil {
				return err
			}
			result, err := svc.Parse(cmd.Context(), service.ParseRequest{
				FileData: payload,
				Sheet:    models.ParseSheetSelector(opts.sheet),
			})
			if err != nil {
				return err
			}
			return opts.printJSON(cmd, result)
		},
	}
}

func newChartCommand(opts *options) *cobra.Command {
	var (
		kind    string
		xColumn string
		yColumn string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "chart FILE",
		Short: "Render a bar, line, pie or scatter chart",
		Long:  "Render a chart of two columns. Without --out the base64 PNG is printed as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, payload, err := opts.prepare(cmd, args[0])
			if err != nil {
				return err
			}
			result, err := svc.GenerateChart(cmd.Context(), service.ChartRequest{
				FileData:  payload,
				Sheet:     models.ParseSheetSelector(opts.sheet),
				ChartType: kind,
				XColumn:   xColumn,
				YColumn:   yColumn,
			})
			if err != nil {
				return err
			}

			if outPath == "" {
				return opts.printJSON(cmd, result)
			}
			png, err := base64.StdEncoding.DecodeString(result.Image)
			if err != nil {
				return fmt.Errorf("failed to decode chart image: %w", err)
			}
			if err := os.WriteFile(outPath, png, 0644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d bytes)\n", outPath, len(png))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(models.ChartLine), "Chart kind: bar, line, pie or scatter")
	cmd.Flags().StringVar(&xColumn, "x", "", "X column (default: first column)")
	cmd.Flags().StringVar(&yColumn, "y", "", "Y column (default: second column)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the PNG to this path")

	return cmd
}

func newStatsCommand(opts *options) *cobra.Command {
	var column string

	cmd := &cobra.Command{
		Use:   "stats FILE",
		Short: "Describe one numeric column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, payload, err := opts.prepare(cmd, args[0])
			if err != nil {
				return err
			}
			result, err := svc.Statistics(cmd.Context(), service.StatisticsRequest{
				FileData: payload,
				Sheet:    models.ParseSheetSelector(opts.sheet),
				Column:   column,
			})
			if err != nil {
				return err
			}
			return opts.printJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&column, "column", "", "Column to describe (default: first numeric column)")

	return cmd
}

// prepare builds a service from the flags and encodes the input file as the operations expect.
func (o *options) prepare(cmd *cobra.Command, path string) (*service.Service, string, error) {
	theme, err := render.LoadTheme(o.themeFile)
	if err != nil {
		return nil, "", err
	}
	engine, err := stats.NewEngine(o.engine)
	if err != nil {
		return nil, "", err
	}

	svcOpts := []service.Option{
		service.WithTheme(theme),
		service.WithEngine(engine),
		service.WithLogOutput(cmd.ErrOrStderr()),
	}
	if o.rows > 0 {
		svcOpts = append(svcOpts, service.WithPreviewRows(o.rows))
	}

	data, err := readInput(path)
	if err != nil {
		return nil, "", err
	}
	return service.New(svcOpts...), base64.StdEncoding.EncodeToString(data), nil
}

func (o *options) printJSON(cmd *cobra.Command, v any) error {
	var (
		out []byte
		err error
	)
	if o.pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func readInput(path string) ([]byte, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return os.ReadFile(path)
}
