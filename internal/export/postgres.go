package export

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/pensions-cli/internal/db"
	"github.com/sells-group/pensions-cli/internal/pension"
)

// PostgresWriter replaces the contents of a Postgres table with the records of
// one run, loading them with COPY.
type PostgresWriter struct {
	Pool   db.Pool
	Schema string
	Table  string

	close func()
}

func (w *PostgresWriter) spec() db.TableSpec {
	cols := make([]db.Column, len(sqlColumns))
	copy(cols, sqlColumns)
	for i := range cols {
		if cols[i].Name == "extra" {
			cols[i].Type = "JSONB"
		}
	}
	return db.TableSpec{Schema: w.Schema, Table: w.Table, Columns: cols}
}

func (w *PostgresWriter) Write(ctx context.Context, res *pension.Result) error {
	rows, err := sqlRows(res.Stats.RunID, res.Records)
	if err != nil {
		return err
	}

	n, err := db.ReplaceTable(ctx, w.Pool, w.spec(), rows)
	if err != nil {
		return eris.Wrap(err, "postgres: write records")
	}

	zap.L().Info("postgres: records loaded",
		zap.String("table", w.Schema+"."+w.Table),
		zap.Int64("rows", n),
		zap.String("run_id", res.Stats.RunID),
	)
	return nil
}

func (w *PostgresWriter) Close() error {
	if w.close != nil {
		w.close()
	}
	return nil
}
