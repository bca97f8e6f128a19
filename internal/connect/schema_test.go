package connect

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaStatements(t *testing.T) {
	stmts := schemaStatements()

	require.Len(t, stmts, 5)
	for i, table := range []string{"users", "service_providers", "services", "service_requests", "reviews"} {
		assert.Contains(t, stmts[i], "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}

func TestEnsureSchema(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	for range schemaStatements() {
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS")).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, EnsureSchema(context.Background(), sqlx.NewDb(mockDB, "mysql")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
