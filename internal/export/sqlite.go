package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/sells-group/pensions-cli/internal/pension"
)

// SQLiteWriter replaces the contents of a SQLite table with the records of one run.
type SQLiteWriter struct {
	db    *sql.DB
	table string
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn, table string) (*SQLiteWriter, error) {
	if table == "" {
		table = "scheme_years"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteWriter{db: db, table: table}, nil
}

func (w *SQLiteWriter) Write(ctx context.Context, res *pension.Result) error {
	rows, err := sqlRows(res.Stats.RunID, res.Records)
	if err != nil {
		return err
	}

	table := quoteIdent(w.table)
	defs := make([]string, len(sqlColumns))
	names := make([]string, len(sqlColumns))
	marks := make([]string, len(sqlColumns))
	for i, c := range sqlColumns {
		defs[i] = quoteIdent(c.Name) + " " + c.Type
		names[i] = quoteIdent(c.Name)
		marks[i] = "?"
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(defs, ", "))); err != nil {
		return eris.Wrapf(err, "sqlite: create table %s", w.table)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return eris.Wrapf(err, "sqlite: clear %s", w.table)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(names, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return eris.Wrapf(err, "sqlite: insert %v %v", row[1], row[2])
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "sqlite: commit tx")
	}

	zap.L().Info("sqlite: records written",
		zap.String("table", w.table),
		zap.Int("rows", len(rows)),
		zap.String("run_id", res.Stats.RunID),
	)
	return nil
}

func (w *SQLiteWriter) Close() error {
	return w.db.Close()
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
