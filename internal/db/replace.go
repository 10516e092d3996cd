package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// Column is a target column and its Postgres type.
type Column struct {
	Name string
	Type string
}

// TableSpec describes a flat table owned by a single writer.
type TableSpec struct {
	Schema  string
	Table   string
	Columns []Column
}

// ColumnNames returns the column names in order.
func (s TableSpec) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// ReplaceTable makes the table hold exactly rows, in one transaction:
// 1. Creates the schema and table if missing
// 2. Deletes the previous contents
// 3. COPY rows into the table
func ReplaceTable(ctx context.Context, pool Pool, spec TableSpec, rows [][]any) (int64, error) {
	if spec.Schema == "" || spec.Table == "" {
		return 0, eris.New("db: replace: schema and table are required")
	}
	if len(spec.Columns) == 0 {
		return 0, eris.New("db: replace: no columns specified")
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "db: replace: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	target := pgx.Identifier{spec.Schema, spec.Table}.Sanitize()

	if _, err := tx.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{spec.Schema}.Sanitize()); err != nil {
		return 0, eris.Wrapf(err, "db: replace: create schema %s", spec.Schema)
	}
	if _, err := tx.Exec(ctx, createTableSQL(target, spec.Columns)); err != nil {
		return 0, eris.Wrapf(err, "db: replace: create table %s", target)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM "+target); err != nil {
		return 0, eris.Wrapf(err, "db: replace: clear %s", target)
	}

	n, err := CopyFromSchema(ctx, tx, spec.Schema, spec.Table, spec.ColumnNames(), rows)
	if err != nil {
		return 0, eris.Wrap(err, "db: replace")
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "db: replace: commit tx")
	}
	return n, nil
}

func createTableSQL(target string, cols []Column) string {
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = fmt.Sprintf("%s %s", pgx.Identifier{c.Name}.Sanitize(), c.Type)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", target, strings.Join(defs, ", "))
}
