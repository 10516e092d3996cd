package export

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/sells-group/pensions-cli/internal/pension"
)

// XLSXWriter writes the records sheet and, optionally, a scheme summary sheet.
type XLSXWriter struct {
	Path         string
	Sheet        string
	SummarySheet string // empty skips the summary sheet
}

func (w *XLSXWriter) Write(_ context.Context, res *pension.Result) error {
	sheet := w.Sheet
	if sheet == "" {
		sheet = "Pensions"
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return eris.Wrapf(err, "xlsx: rename sheet %s", sheet)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return eris.Wrap(err, "xlsx: header style")
	}

	if err := writeSheet(f, sheet, RecordTable(res.Records), headerStyle); err != nil {
		return err
	}

	if w.SummarySheet != "" {
		if _, err := f.NewSheet(w.SummarySheet); err != nil {
			return eris.Wrapf(err, "xlsx: add sheet %s", w.SummarySheet)
		}
		if err := writeSheet(f, w.SummarySheet, SchemeTable(res.Schemes), headerStyle); err != nil {
			return err
		}
	}

	if err := f.SaveAs(w.Path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", w.Path)
	}
	return nil
}

func (w *XLSXWriter) Close() error { return nil }

func writeSheet(f *excelize.File, sheet string, t Table, headerStyle int) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return eris.Wrapf(err, "xlsx: stream writer %s", sheet)
	}

	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return eris.Wrapf(err, "xlsx: %s header", sheet)
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return eris.Wrap(err, "xlsx: cell name")
		}
		if err := sw.SetRow(cell, row); err != nil {
			return eris.Wrapf(err, "xlsx: %s row %d", sheet, i+2)
		}
	}

	if err := sw.Flush(); err != nil {
		return eris.Wrapf(err, "xlsx: flush %s", sheet)
	}
	return nil
}
