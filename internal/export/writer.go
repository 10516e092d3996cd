package export

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/pensions-cli/internal/config"
	"github.com/sells-group/pensions-cli/internal/pension"
)

// Writer persists one pipeline result.
type Writer interface {
	Write(ctx context.Context, res *pension.Result) error
	Close() error
}

// Open returns the writer for the configured output format.
func Open(ctx context.Context, out config.OutputConfig, store config.StoreConfig) (Writer, error) {
	switch format := out.ResolvedFormat(); format {
	case "xlsx":
		return &XLSXWriter{Path: out.Path, Sheet: out.Sheet, SummarySheet: out.SummarySheet}, nil
	case "csv":
		return &CSVWriter{Path: out.Path}, nil
	case "sqlite":
		w, err := NewSQLite(out.Path, store.Table)
		if err != nil {
			return nil, err
		}
		return w, nil
	case "postgres":
		pool, err := pgxpool.New(ctx, store.DatabaseURL)
		if err != nil {
			return nil, eris.Wrap(err, "export: connect postgres")
		}
		return &PostgresWriter{Pool: pool, Schema: store.Schema, Table: store.Table, close: pool.Close}, nil
	default:
		return nil, eris.Errorf("export: unsupported format %q", format)
	}
}
