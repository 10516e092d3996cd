package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/pensions-cli/internal/config"
	"github.com/sells-group/pensions-cli/internal/export"
	"github.com/sells-group/pensions-cli/internal/fetcher"
	"github.com/sells-group/pensions-cli/internal/pension"
)

var (
	consolidateInput          string
	consolidateOutput         string
	consolidateFormat         string
	consolidateFinalYear      int
	consolidateHeaderRow      int
	consolidateExcludeSheet   string
	consolidateSummary        string
	consolidateNoSummarySheet bool
)

var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Merge yearly sheets into one enriched pension table",
	Long: `Reads every yearly sheet of a pension workbook, merges them, and writes
the enriched table.

Examples:
  # Workbook with an introduction sheet first, header on row 3
  pensions-cli consolidate --input Pensions.xlsx --header-row 2

  # Load into Postgres, treating 2025 as the latest reporting year
  pensions-cli consolidate --input Pensions.xlsx --format postgres --final-year 2025`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		applyConsolidateFlags(cmd, cfg)
		if err := cfg.Validate("consolidate"); err != nil {
			return err
		}

		res, err := consolidate(cfg)
		if err != nil {
			return err
		}

		w, err := export.Open(ctx, cfg.Output, cfg.Store)
		if err != nil {
			return eris.Wrap(err, "consolidate: open output")
		}
		if err := w.Write(ctx, res); err != nil {
			w.Close() //nolint:errcheck
			return eris.Wrap(err, "consolidate: write output")
		}
		if err := w.Close(); err != nil {
			return eris.Wrap(err, "consolidate: close output")
		}

		if cfg.Output.SummaryPath != "" {
			if err := export.WriteSummary(cfg.Output.SummaryPath, res.Stats); err != nil {
				return eris.Wrap(err, "consolidate: write summary")
			}
		}

		zap.L().Info("consolidate complete",
			zap.String("run_id", res.Stats.RunID),
			zap.String("output", cfg.Output.Path),
			zap.String("format", cfg.Output.ResolvedFormat()),
			zap.Int("records", res.Stats.Records),
			zap.Int("schemes", res.Stats.Schemes),
			zap.Int("discontinued", res.Stats.Discontinued),
		)
		return nil
	},
}

// applyConsolidateFlags lets explicitly set flags override loaded config.
func applyConsolidateFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("input") {
		c.Input.Path = consolidateInput
	}
	if flags.Changed("output") {
		c.Output.Path = consolidateOutput
	}
	if flags.Changed("format") {
		c.Output.Format = consolidateFormat
	}
	if flags.Changed("final-year") {
		c.Pipeline.FinalYear = consolidateFinalYear
	}
	if flags.Changed("header-row") {
		c.Input.HeaderRow = consolidateHeaderRow
	}
	if flags.Changed("exclude-sheet") {
		c.Input.ExcludeSheet = consolidateExcludeSheet
	}
	if flags.Changed("summary") {
		c.Output.SummaryPath = consolidateSummary
	}
	if consolidateNoSummarySheet {
		c.Output.SummarySheet = ""
	}
}

// consolidate reads the input workbook and runs the pipeline over it.
func consolidate(c *config.Config) (*pension.Result, error) {
	sheets, err := readSheets(c.Input)
	if err != nil {
		return nil, err
	}

	res, err := pension.Run(sheets, pension.Options{
		IngestOptions: pension.IngestOptions{
			HeaderRow:    c.Input.HeaderRow,
			ExcludeSheet: c.Input.ExcludeSheet,
			Columns: pension.Columns{
				Identifier:  c.Input.Columns.Identifier,
				Assets:      c.Input.Columns.Assets,
				Memberships: c.Input.Columns.Memberships,
			},
		},
		FinalYear: c.Pipeline.FinalYear,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "consolidate: %s", c.Input.Path)
	}
	return res, nil
}

func readSheets(in config.InputConfig) ([]pension.Sheet, error) {
	wb, err := fetcher.ReadWorkbook(in.Path, fetcher.XLSXOptions{RawValues: in.RawValues})
	if err != nil {
		return nil, eris.Wrap(err, "consolidate: read workbook")
	}
	sheets := make([]pension.Sheet, len(wb))
	for i, s := range wb {
		sheets[i] = pension.Sheet{Name: s.Name, Rows: s.Rows}
	}
	return sheets, nil
}

func init() {
	f := consolidateCmd.Flags()
	f.StringVar(&consolidateInput, "input", "", "path to the source workbook")
	f.StringVar(&consolidateOutput, "output", "", "output path (default All_pensions_data.xlsx)")
	f.StringVar(&consolidateFormat, "format", "", "output format: xlsx, csv, sqlite, postgres (default from --output extension)")
	f.IntVar(&consolidateFinalYear, "final-year", 0, "reporting horizon; schemes last seen before it are discontinued. 0 uses the workbook's latest sheet year, so no scheme in that sheet is flagged (set 2025 for the regulator's fixed horizon)")
	f.IntVar(&consolidateHeaderRow, "header-row", 0, "zero-based row index of the column headers in each yearly sheet")
	f.StringVar(&consolidateExcludeSheet, "exclude-sheet", "", "sheet to skip (default the first sheet)")
	f.StringVar(&consolidateSummary, "summary", "", "write run statistics as YAML to this path")
	f.BoolVar(&consolidateNoSummarySheet, "no-summary-sheet", false, "omit the per-scheme summary sheet from xlsx output")
	rootCmd.AddCommand(consolidateCmd)
}
