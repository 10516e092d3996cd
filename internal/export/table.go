// Package export writes the enriched pension table to spreadsheets and databases.
package export

import (
	"github.com/sells-group/pensions-cli/internal/pension"
)

// Table is a flat grid ready for a sink. Nil cells are nulls.
type Table struct {
	Header []string
	Rows   [][]any
}

var recordColumns = []string{
	"PSR",
	"Year",
	"Assets",
	"Memberships",
	"AssetPerMember",
	"AvgMemberships",
	"MembershipSizeCategory",
	"AvgAssets",
	"AssetValueCategory",
	"LastActiveYear",
	"DiscontinuedYear",
}

var schemeColumns = []string{
	"PSR",
	"FirstYear",
	"LastActiveYear",
	"DiscontinuedYear",
	"YearsReported",
	"AvgMemberships",
	"MembershipSizeCategory",
	"AvgAssets",
	"AssetValueCategory",
}

// RecordTable flattens records into the output layout: the fixed columns,
// then every extra source column in first-seen order.
func RecordTable(records []pension.Record) Table {
	extras := extraNames(records)
	header := make([]string, 0, len(recordColumns)+len(extras))
	header = append(header, recordColumns...)
	header = append(header, extras...)

	rows := make([][]any, len(records))
	for i, r := range records {
		row := recordValues(r)
		if len(extras) > 0 {
			byName := make(map[string]string, len(r.Extra))
			for _, f := range r.Extra {
				byName[f.Name] = f.Value
			}
			for _, name := range extras {
				if v, ok := byName[name]; ok {
					row = append(row, v)
				} else {
					row = append(row, nil)
				}
			}
		}
		rows[i] = row
	}
	return Table{Header: header, Rows: rows}
}

// SchemeTable flattens the per-scheme summary.
func SchemeTable(schemes []pension.Scheme) Table {
	rows := make([][]any, len(schemes))
	for i, s := range schemes {
		rows[i] = []any{
			s.PSR,
			s.FirstYear,
			s.LastActiveYear,
			intOrNil(s.DiscontinuedYear),
			s.Years,
			floatOrNil(s.AvgMemberships),
			labelOrNil(s.MembershipSize),
			floatOrNil(s.AvgAssets),
			labelOrNil(s.AssetValue),
		}
	}
	return Table{Header: schemeColumns, Rows: rows}
}

func recordValues(r pension.Record) []any {
	return []any{
		r.PSR,
		r.Year,
		floatOrNil(r.Assets),
		int64OrNil(r.Memberships),
		floatOrNil(r.AssetPerMember),
		floatOrNil(r.AvgMemberships),
		labelOrNil(r.MembershipSize),
		floatOrNil(r.AvgAssets),
		labelOrNil(r.AssetValue),
		r.LastActiveYear,
		intOrNil(r.DiscontinuedYear),
	}
}

func extraNames(records []pension.Record) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range records {
		for _, f := range r.Extra {
			if !seen[f.Name] {
				seen[f.Name] = true
				names = append(names, f.Name)
			}
		}
	}
	return names
}

func floatOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func int64OrNil(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func intOrNil(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func labelOrNil[T interface{ String() string }](v *T) any {
	if v == nil {
		return nil
	}
	return (*v).String()
}
