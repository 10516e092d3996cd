package pension

import (
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// Columns names the header cells the ingestor looks up in every yearly sheet.
type Columns struct {
	Identifier  string
	Assets      string
	Memberships string
}

// DefaultColumns returns the header names used by the regulator's workbook.
func DefaultColumns() Columns {
	return Columns{
		Identifier:  "PSR",
		Assets:      "Assets",
		Memberships: "Memberships",
	}
}

func (c Columns) withDefaults() Columns {
	d := DefaultColumns()
	if c.Identifier == "" {
		c.Identifier = d.Identifier
	}
	if c.Assets == "" {
		c.Assets = d.Assets
	}
	if c.Memberships == "" {
		c.Memberships = d.Memberships
	}
	return c
}

// IngestOptions controls how yearly sheets are located and read.
type IngestOptions struct {
	// HeaderRow is the 0-based index of the header row in every sheet.
	HeaderRow int
	// ExcludeSheet names the non-data sheet. Empty excludes the first sheet.
	ExcludeSheet string
	Columns      Columns
}

// Ingest reads every yearly sheet, stamps rows with the sheet's year and
// normalizes the asset and membership fields. Structural problems in any sheet
// fail the whole ingestion; every such problem is reported.
func Ingest(sheets []Sheet, opts IngestOptions) ([]YearTable, error) {
	opts.Columns = opts.Columns.withDefaults()
	if opts.HeaderRow < 0 {
		return nil, eris.Errorf("pension: header row must be >= 0, got %d", opts.HeaderRow)
	}

	data, err := dataSheets(sheets, opts.ExcludeSheet)
	if err != nil {
		return nil, err
	}

	var (
		tables []YearTable
		errs   *multierror.Error
	)
	for _, sh := range data {
		t, err := ingestSheet(sh, opts)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		tables = append(tables, t)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, eris.Wrap(err, "pension: ingest")
	}
	return tables, nil
}

// dataSheets drops the designated non-data sheet.
func dataSheets(sheets []Sheet, exclude string) ([]Sheet, error) {
	if len(sheets) == 0 {
		return nil, eris.New("pension: workbook has no sheets")
	}

	var out []Sheet
	if exclude == "" {
		out = sheets[1:]
	} else {
		found := false
		for _, sh := range sheets {
			if strings.EqualFold(strings.TrimSpace(sh.Name), strings.TrimSpace(exclude)) {
				found = true
				continue
			}
			out = append(out, sh)
		}
		if !found {
			return nil, eris.Errorf("pension: excluded sheet %q not found", exclude)
		}
	}

	if len(out) == 0 {
		return nil, eris.New("pension: workbook has no yearly sheets")
	}
	return out, nil
}

func ingestSheet(sh Sheet, opts IngestOptions) (YearTable, error) {
	year, err := strconv.Atoi(strings.TrimSpace(sh.Name))
	if err != nil {
		return YearTable{}, eris.Errorf("pension: sheet %q: name is not a year", sh.Name)
	}
	if opts.HeaderRow >= len(sh.Rows) {
		return YearTable{}, eris.Errorf("pension: sheet %q: header row %d beyond %d rows", sh.Name, opts.HeaderRow, len(sh.Rows))
	}

	header := sh.Rows[opts.HeaderRow]
	colIdx := mapColumnsNormalized(header)

	var missing []string
	for _, name := range []string{opts.Columns.Identifier, opts.Columns.Assets, opts.Columns.Memberships} {
		if _, ok := colIdx[normalizeCol(name)]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return YearTable{}, eris.Errorf("pension: sheet %q: missing columns %s", sh.Name, strings.Join(missing, ", "))
	}

	extras := extraColumns(header, opts.Columns)
	table := YearTable{Year: year, Sheet: sh.Name}

	for i, row := range sh.Rows[opts.HeaderRow+1:] {
		if blankRow(row) {
			continue
		}
		table.RowsRead++

		psr := strings.TrimSpace(getColN(row, colIdx, opts.Columns.Identifier))
		if psr == "" {
			table.BlankIdentifierRows++
			continue
		}

		assets, err := ParseAssets(getColN(row, colIdx, opts.Columns.Assets))
		if err != nil {
			return YearTable{}, eris.Wrapf(err, "pension: sheet %q row %d", sh.Name, opts.HeaderRow+i+2)
		}

		rec := Record{
			PSR:         psr,
			Year:        year,
			Assets:      assets,
			Memberships: ParseMemberships(getColN(row, colIdx, opts.Columns.Memberships)),
		}
		if len(extras) > 0 {
			rec.Extra = make([]Field, len(extras))
			for j, col := range extras {
				rec.Extra[j] = Field{Name: col.name, Value: cellAt(row, col.index)}
			}
		}
		table.Records = append(table.Records, rec)
	}

	if table.BlankIdentifierRows > 0 {
		zap.L().Warn("pension: skipped rows without identifier",
			zap.String("sheet", sh.Name),
			zap.Int("rows", table.BlankIdentifierRows),
		)
	}
	return table, nil
}

type column struct {
	name  string
	index int
}

// extraColumns lists the named header cells other than the three the pipeline
// interprets, in sheet order.
func extraColumns(header []string, cols Columns) []column {
	known := map[string]bool{
		normalizeCol(cols.Identifier):  true,
		normalizeCol(cols.Assets):      true,
		normalizeCol(cols.Memberships): true,
	}
	var out []column
	for i, h := range header {
		n := normalizeCol(h)
		if n == "" || known[n] {
			continue
		}
		known[n] = true
		out = append(out, column{name: strings.TrimSpace(norm.NFKC.String(h)), index: i})
	}
	return out
}

// normalizeCol folds case, surrounding space and compatibility forms so that
// "PSR ", "psr" and "PSR" with a non-breaking space all match.
func normalizeCol(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(s)))
}

// mapColumnsNormalized builds a normalized column name → index map. The first
// occurrence of a repeated header wins.
func mapColumnsNormalized(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		n := normalizeCol(col)
		if _, ok := m[n]; ok || n == "" {
			continue
		}
		m[n] = i
	}
	return m
}

// getColN gets a column value by normalized name.
func getColN(row []string, colIdx map[string]int, name string) string {
	idx, ok := colIdx[normalizeCol(name)]
	if !ok {
		return ""
	}
	return cellAt(row, idx)
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
