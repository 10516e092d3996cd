package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/pensions-cli/internal/fetcher"
)

var (
	sheetsInput     string
	sheetsPreview   int
	sheetsSheet     string
	sheetsHeaderRow int
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "List the sheets of a pension workbook",
	Long:  "Lists each sheet with its row count and the year it would be ingested as, to help pick --header-row and --exclude-sheet.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Flags().Changed("input") {
			cfg.Input.Path = sheetsInput
		}
		if err := cfg.Validate("sheets"); err != nil {
			return err
		}

		if sheetsSheet != "" {
			return previewSheet(cmd.OutOrStdout(), cfg.Input.Path, sheetsSheet, sheetsHeaderRow, sheetsPreview, cfg.Input.RawValues)
		}

		wb, err := fetcher.ReadWorkbook(cfg.Input.Path, fetcher.XLSXOptions{RawValues: cfg.Input.RawValues})
		if err != nil {
			return eris.Wrap(err, "sheets: read workbook")
		}
		return printSheets(cmd.OutOrStdout(), wb, sheetsPreview)
	},
}

func printSheets(out io.Writer, wb []fetcher.Sheet, preview int) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSHEET\tYEAR\tROWS")
	for i, s := range wb {
		year := "-"
		if y, err := strconv.Atoi(strings.TrimSpace(s.Name)); err == nil {
			year = strconv.Itoa(y)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", i, s.Name, year, len(s.Rows))
	}
	if err := tw.Flush(); err != nil {
		return eris.Wrap(err, "sheets: write listing")
	}

	if preview <= 0 {
		return nil
	}
	for _, s := range wb {
		fmt.Fprintf(out, "\n== %s ==\n", s.Name)
		for i, row := range s.Rows {
			if i == preview {
				break
			}
			fmt.Fprintf(out, "%d: %s\n", i, strings.Join(row, " | "))
		}
	}
	return nil
}

// previewSheet prints the first row of one sheet, then up to n rows starting
// at the header row, which is what ingestion would see.
func previewSheet(out io.Writer, path, sheet string, headerRow, n int, raw bool) error {
	first := make(chan []string, 1)
	rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{
		SheetName: sheet,
		SkipRows:  headerRow,
		HeaderCh:  first,
		RawValues: raw,
	})
	if err != nil {
		return eris.Wrap(err, "sheets: read sheet")
	}

	fmt.Fprintf(out, "== %s ==\n", sheet)
	select {
	case row := <-first:
		fmt.Fprintf(out, "first row: %s\n", strings.Join(row, " | "))
	default:
	}
	if n <= 0 {
		n = len(rows)
	}
	for i, row := range rows {
		if i == n {
			break
		}
		fmt.Fprintf(out, "%d: %s\n", headerRow+i, strings.Join(row, " | "))
	}
	return nil
}

func init() {
	sheetsCmd.Flags().StringVar(&sheetsInput, "input", "", "path to the source workbook")
	sheetsCmd.Flags().IntVar(&sheetsPreview, "preview", 0, "print the first N rows of each sheet")
	sheetsCmd.Flags().StringVar(&sheetsSheet, "sheet", "", "preview only this sheet, starting at --header-row")
	sheetsCmd.Flags().IntVar(&sheetsHeaderRow, "header-row", 0, "zero-based header row used with --sheet")
	rootCmd.AddCommand(sheetsCmd)
}
