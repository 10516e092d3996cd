package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/pensions-cli/internal/config"
)

type fixtureSheet struct {
	name string
	rows [][]any
}

// writeWorkbook saves sheets to a temp xlsx file. float64 and int cells are
// stored as numbers with a currency format, the way the source workbooks are.
func writeWorkbook(t *testing.T, sheets ...fixtureSheet) string {
	t.Helper()
	f := xlsx.NewFile()
	for _, s := range sheets {
		sh, err := f.AddSheet(s.name)
		require.NoError(t, err)
		for _, vals := range s.rows {
			row := sh.AddRow()
			for _, v := range vals {
				cell := row.AddCell()
				switch x := v.(type) {
				case float64:
					cell.SetFloatWithFormat(x, `"£"#,##0`)
				case int:
					cell.SetInt(x)
				case string:
					cell.SetString(x)
				}
			}
		}
	}
	path := filepath.Join(t.TempDir(), "Pensions.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func pensionWorkbook(t *testing.T) string {
	t.Helper()
	return writeWorkbook(t,
		fixtureSheet{name: "Introduction", rows: [][]any{{"Pension scheme returns"}}},
		fixtureSheet{name: "2021", rows: [][]any{
			{"Scheme returns 2021"},
			{"PSR", "Scheme Name", "Assets", "Memberships"},
			{"PSR001", "Acme Staff", 5_000_000.0, 2000},
			{"PSR002", "Beta Trust", 1_200_000_000.0, 600_000},
			{"PSR002", "Beta Trust", 1_200_000_000.0, 600_000},
		}},
		fixtureSheet{name: "2022", rows: [][]any{
			{"Scheme returns 2022"},
			{"PSR", "Scheme Name", "Assets", "Memberships"},
			{"PSR002", "Beta Trust", 1_300_000_000.0, 610_000},
			{"", "Totals", 1_305_000_000.0, 612_000},
		}},
	)
}

func testConfig(input, output string) *config.Config {
	return &config.Config{
		Input: config.InputConfig{
			Path:      input,
			HeaderRow: 1,
			RawValues: true,
			Columns:   config.ColumnsConfig{Identifier: "PSR", Assets: "Assets", Memberships: "Memberships"},
		},
		Output: config.OutputConfig{Path: output, Sheet: "Pensions", SummarySheet: "Schemes"},
		Store:  config.StoreConfig{Schema: "pensions", Table: "scheme_years"},
		Log:    config.LogConfig{Level: "info", Format: "console"},
	}
}
