package export

import (
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/sells-group/pensions-cli/internal/db"
	"github.com/sells-group/pensions-cli/internal/pension"
)

// sqlColumns is the database layout of the records table. Source columns the
// pipeline does not interpret are kept as a JSON object in "extra".
var sqlColumns = []db.Column{
	{Name: "run_id", Type: "TEXT NOT NULL"},
	{Name: "psr", Type: "TEXT NOT NULL"},
	{Name: "year", Type: "INTEGER NOT NULL"},
	{Name: "assets", Type: "DOUBLE PRECISION"},
	{Name: "memberships", Type: "BIGINT"},
	{Name: "asset_per_member", Type: "DOUBLE PRECISION"},
	{Name: "avg_memberships", Type: "DOUBLE PRECISION"},
	{Name: "membership_size_category", Type: "TEXT"},
	{Name: "avg_assets", Type: "DOUBLE PRECISION"},
	{Name: "asset_value_category", Type: "TEXT"},
	{Name: "last_active_year", Type: "INTEGER NOT NULL"},
	{Name: "discontinued_year", Type: "INTEGER"},
	{Name: "extra", Type: "TEXT"},
}

// sqlRows converts records into rows matching sqlColumns.
func sqlRows(runID string, records []pension.Record) ([][]any, error) {
	rows := make([][]any, len(records))
	for i, r := range records {
		extra, err := extraJSON(r.Extra)
		if err != nil {
			return nil, eris.Wrapf(err, "export: encode extra columns for %s %d", r.PSR, r.Year)
		}
		row := make([]any, 0, len(sqlColumns))
		row = append(row, runID)
		row = append(row, recordValues(r)...)
		row = append(row, extra)
		rows[i] = row
	}
	return rows, nil
}

func extraJSON(fields []pension.Field) (any, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	m := make(map[string]string, len(fields))
	for _, f := range fields {
		m[f.Name] = f.Value
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
