package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpec() TableSpec {
	return TableSpec{
		Schema: "pensions",
		Table:  "scheme_years",
		Columns: []Column{
			{Name: "psr", Type: "TEXT NOT NULL"},
			{Name: "year", Type: "INTEGER NOT NULL"},
		},
	}
}

func TestTableSpec_ColumnNames(t *testing.T) {
	assert.Equal(t, []string{"psr", "year"}, testSpec().ColumnNames())
}

func TestCreateTableSQL(t *testing.T) {
	got := createTableSQL(`"pensions"."scheme_years"`, testSpec().Columns)
	assert.Equal(t, `CREATE TABLE IF NOT EXISTS "pensions"."scheme_years" ("psr" TEXT NOT NULL, "year" INTEGER NOT NULL)`, got)
}

func TestReplaceTable_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE SCHEMA IF NOT EXISTS").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("DELETE FROM").WillReturnResult(pgxmock.NewResult("DELETE", 7))
	mock.ExpectCopyFrom(pgx.Identifier{"pensions", "scheme_years"}, []string{"psr", "year"}).WillReturnResult(2)
	mock.ExpectCommit()

	n, err := ReplaceTable(context.Background(), mock, testSpec(), [][]any{{"PSR001", 2022}, {"PSR001", 2023}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceTable_CopyErrorRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE SCHEMA IF NOT EXISTS").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("DELETE FROM").WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"pensions", "scheme_years"}, []string{"psr", "year"}).WillReturnError(fmt.Errorf("disk full"))
	mock.ExpectRollback()

	_, err = ReplaceTable(context.Background(), mock, testSpec(), [][]any{{"PSR001", 2022}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO pensions.scheme_years")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceTable_BeginError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin().WillReturnError(fmt.Errorf("connection refused"))

	_, err = ReplaceTable(context.Background(), mock, testSpec(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin tx")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceTable_InvalidSpec(t *testing.T) {
	_, err := ReplaceTable(context.Background(), nil, TableSpec{Table: "x", Columns: testSpec().Columns}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema and table are required")

	_, err = ReplaceTable(context.Background(), nil, TableSpec{Schema: "s", Table: "x"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns specified")
}
