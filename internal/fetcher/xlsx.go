// Package fetcher reads source workbooks into plain string grids.
package fetcher

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Sheet is one worksheet as a grid of cell text.
type Sheet struct {
	Name string
	Rows [][]string
}

// XLSXOptions configures the XLSX parser.
type XLSXOptions struct {
	SheetIndex int            // default 0
	SheetName  string         // if set, overrides SheetIndex
	SkipRows   int            // number of header rows to skip
	HeaderCh   chan<- []string // optional: receives the first row

	// RawValues returns the stored cell value instead of the number-formatted
	// display text, so "£5,000,000" formatted numbers come back as "5000000".
	RawValues bool
}

// ReadWorkbook reads every sheet of an XLSX file in workbook order.
func ReadWorkbook(path string, opts XLSXOptions) ([]Sheet, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("xlsx: %s has no sheets", path)
	}

	sheets := make([]Sheet, 0, len(f.Sheets))
	for _, sh := range f.Sheets {
		rows := make([][]string, 0, len(sh.Rows))
		for _, row := range sh.Rows {
			rows = append(rows, rowToStrings(row, opts.RawValues))
		}
		sheets = append(sheets, Sheet{Name: sh.Name, Rows: rows})
	}
	return sheets, nil
}

// ReadXLSX reads a single sheet of an XLSX file and returns all rows as string slices.
func ReadXLSX(path string, opts XLSXOptions) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for i, row := range sheet.Rows {
		cells := rowToStrings(row, opts.RawValues)

		if i == 0 && opts.HeaderCh != nil {
			opts.HeaderCh <- cells
		}

		if i < opts.SkipRows {
			continue
		}

		rows = append(rows, cells)
	}

	return rows, nil
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row, raw bool) []string {
	if row == nil {
		return nil
	}
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		if cell == nil {
			continue
		}
		if raw {
			cells[j] = cell.Value
		} else {
			cells[j] = cell.String()
		}
	}
	return cells
}
