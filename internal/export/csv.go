package export

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/pensions-cli/internal/pension"
)

// CSVWriter writes the records table as a single CSV file. Nulls are empty cells.
type CSVWriter struct {
	Path string
}

func (w *CSVWriter) Write(_ context.Context, res *pension.Result) error {
	f, err := os.Create(w.Path)
	if err != nil {
		return eris.Wrapf(err, "csv: create %s", w.Path)
	}

	if err := WriteCSV(f, RecordTable(res.Records)); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	return eris.Wrapf(f.Close(), "csv: close %s", w.Path)
}

func (w *CSVWriter) Close() error { return nil }

// WriteCSV encodes t to out.
func WriteCSV(out io.Writer, t Table) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(t.Header); err != nil {
		return eris.Wrap(err, "csv: write header")
	}

	record := make([]string, 0, len(t.Header))
	for _, row := range t.Rows {
		record = record[:0]
		for _, v := range row {
			record = append(record, formatCell(v))
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrap(err, "csv: write row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "csv: flush")
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}
