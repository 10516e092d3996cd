package export

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/pensions-cli/internal/config"
	"github.com/sells-group/pensions-cli/internal/pension"
)

func sampleResult(t *testing.T) *pension.Result {
	t.Helper()
	sheets := []pension.Sheet{
		{Name: "Introduction", Rows: [][]string{{"notes"}}},
		{Name: "2022", Rows: [][]string{
			{"PSR", "Scheme Name", "Assets", "Memberships"},
			{"PSR001", "Acme Staff", "£5,000,000", "2000"},
			{"PSR002", "Beta Trust", "£1,200,000,000", ""},
		}},
		{Name: "2023", Rows: [][]string{
			{"PSR", "Assets", "Memberships"},
			{"PSR002", "£1,300,000,000", "600000"},
		}},
	}
	res, err := pension.Run(sheets, pension.Options{FinalYear: 2023})
	require.NoError(t, err)
	return res
}

func TestRecordTable(t *testing.T) {
	tbl := RecordTable(sampleResult(t).Records)

	assert.Equal(t, append(append([]string{}, recordColumns...), "Scheme Name"), tbl.Header)
	require.Len(t, tbl.Rows, 3)

	assert.Equal(t, []any{
		"PSR001", 2022, 5_000_000.0, int64(2000), 2500.0,
		2000.0, "<5k members", 5_000_000.0, "<£10M",
		2022, 2023, "Acme Staff",
	}, tbl.Rows[0])

	psr2 := tbl.Rows[1]
	assert.Nil(t, psr2[3], "memberships")
	assert.Nil(t, psr2[4], "asset per member")
	assert.Equal(t, 600_000.0, psr2[5])
	assert.Equal(t, ">=500k members", psr2[6])
	assert.Equal(t, ">=£1B", psr2[8])
	assert.Nil(t, psr2[10], "discontinued year")

	assert.Nil(t, tbl.Rows[2][11], "2023 sheet has no Scheme Name column")
}

func TestSchemeTable(t *testing.T) {
	tbl := SchemeTable(sampleResult(t).Schemes)
	assert.Equal(t, schemeColumns, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []any{"PSR001", 2022, 2022, 2023, 1, 2000.0, "<5k members", 5_000_000.0, "<£10M"}, tbl.Rows[0])
	assert.Equal(t, 2, tbl.Rows[1][4])
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, Table{
		Header: []string{"PSR", "Year", "Assets", "Memberships", "Ratio"},
		Rows: [][]any{
			{"PSR001", 2022, 5_500_000.0, int64(12), nil},
			{"PSR, Ltd", 2023, 0.5, nil, 33.33},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "PSR,Year,Assets,Memberships,Ratio\nPSR001,2022,5500000,12,\n\"PSR, Ltd\",2023,0.5,,33.33\n", buf.String())
}

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w := &CSVWriter{Path: path}
	require.NoError(t, w.Write(context.Background(), sampleResult(t)))
	require.NoError(t, w.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "PSR001,2022,5000000,2000,2500,2000,<5k members,5000000,<£10M,2022,2023,Acme Staff\n")
}

func TestCSVWriter_BadPath(t *testing.T) {
	w := &CSVWriter{Path: filepath.Join(t.TempDir(), "missing", "out.csv")}
	err := w.Write(context.Background(), sampleResult(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv: create")
}

func TestXLSXWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "All_pensions_data.xlsx")
	w := &XLSXWriter{Path: path, Sheet: "Pensions", SummarySheet: "Schemes"}
	require.NoError(t, w.Write(context.Background(), sampleResult(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Pensions", "Schemes"}, f.GetSheetList())

	rows, err := f.GetRows("Pensions", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "PSR", rows[0][0])
	assert.Equal(t, "Scheme Name", rows[0][11])
	assert.Equal(t, []string{"PSR001", "2022", "5000000", "2000", "2500", "2000", "<5k members", "5000000", "<£10M", "2022", "2023", "Acme Staff"}, rows[1])
	assert.Equal(t, "", rows[2][3], "null memberships is an empty cell")

	schemes, err := f.GetRows("Schemes", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, schemes, 3)
	assert.Equal(t, "PSR002", schemes[2][0])
}

func TestXLSXWriter_NoSummarySheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	w := &XLSXWriter{Path: path}
	require.NoError(t, w.Write(context.Background(), sampleResult(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Pensions"}, f.GetSheetList())
}

func TestSQLiteWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pensions.db")
	w, err := NewSQLite(path, "scheme_years")
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() }) //nolint:errcheck

	res := sampleResult(t)
	require.NoError(t, w.Write(context.Background(), res))
	// A second run replaces rather than appends.
	require.NoError(t, w.Write(context.Background(), res))

	var count int
	require.NoError(t, w.db.QueryRow(`SELECT COUNT(*) FROM scheme_years`).Scan(&count))
	assert.Equal(t, 3, count)

	var (
		runID     string
		ratio     sql.NullFloat64
		category  string
		extra     sql.NullString
		discYear  sql.NullInt64
		members   sql.NullInt64
		lastYear  int
	)
	err = w.db.QueryRow(`SELECT run_id, asset_per_member, asset_value_category, extra, discontinued_year, memberships, last_active_year
		FROM scheme_years WHERE psr = 'PSR001'`).Scan(&runID, &ratio, &category, &extra, &discYear, &members, &lastYear)
	require.NoError(t, err)
	assert.Equal(t, res.Stats.RunID, runID)
	assert.InDelta(t, 2500.0, ratio.Float64, 1e-9)
	assert.Equal(t, "<£10M", category)
	assert.JSONEq(t, `{"Scheme Name":"Acme Staff"}`, extra.String)
	assert.Equal(t, int64(2023), discYear.Int64)
	assert.Equal(t, int64(2000), members.Int64)
	assert.Equal(t, 2022, lastYear)

	var nullMembers sql.NullInt64
	require.NoError(t, w.db.QueryRow(`SELECT memberships FROM scheme_years WHERE psr = 'PSR002' AND year = 2022`).Scan(&nullMembers))
	assert.False(t, nullMembers.Valid)
}

func TestPostgresWriter(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	res := sampleResult(t)
	w := &PostgresWriter{Pool: mock, Schema: "pensions", Table: "scheme_years"}

	cols := make([]string, len(sqlColumns))
	for i, c := range sqlColumns {
		cols[i] = c.Name
	}

	mock.ExpectBegin()
	mock.ExpectExec("CREATE SCHEMA IF NOT EXISTS").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(`"extra" JSONB`).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("DELETE FROM").WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"pensions", "scheme_years"}, cols).WillReturnResult(3)
	mock.ExpectCommit()

	require.NoError(t, w.Write(context.Background(), res))
	require.NoError(t, w.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRows(t *testing.T) {
	rows, err := sqlRows("run-1", sampleResult(t).Records)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Len(t, row, len(sqlColumns))
		assert.Equal(t, "run-1", row[0])
	}
	assert.Nil(t, rows[2][len(sqlColumns)-1], "no extra columns encodes as NULL")
}

func TestWriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.yaml")
	res := sampleResult(t)
	require.NoError(t, WriteSummary(path, res.Stats))

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(b, &got))
	assert.Equal(t, res.Stats.RunID, got["run_id"])
	assert.Equal(t, 3, got["records"])
	assert.Equal(t, 1, got["discontinued_schemes"])
	assert.Equal(t, 2023, got["final_year"])
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	w, err := Open(context.Background(), config.OutputConfig{Path: filepath.Join(dir, "a.xlsx")}, config.StoreConfig{})
	require.NoError(t, err)
	assert.IsType(t, &XLSXWriter{}, w)

	w, err = Open(context.Background(), config.OutputConfig{Path: filepath.Join(dir, "a.csv")}, config.StoreConfig{})
	require.NoError(t, err)
	assert.IsType(t, &CSVWriter{}, w)

	w, err = Open(context.Background(), config.OutputConfig{Path: filepath.Join(dir, "a.db")}, config.StoreConfig{Table: "t"})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteWriter{}, w)
	require.NoError(t, w.Close())

	_, err = Open(context.Background(), config.OutputConfig{Path: "x", Format: "parquet"}, config.StoreConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}
