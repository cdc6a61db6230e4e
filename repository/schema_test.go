package repository_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/safespace/safespace-api/repository"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestInitSchemaCreatesTables(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	require.NoError(t, repository.InitSchema(ctx, db))

	var tables []string
	err := db.NewRaw(
		`SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name;`,
	).Scan(ctx, &tables)
	require.NoError(t, err)

	assert.Contains(t, tables, "users")
	assert.Contains(t, tables, "tokens")
	assert.Contains(t, tables, "alerts")
}

func TestInitSchemaIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	require.NoError(t, repository.InitSchema(ctx, db))
	require.NoError(t, repository.InitSchema(ctx, db))
}

func TestMigrationsFSContainsSchemaFiles(t *testing.T) {
	entries, err := repository.GetMigrationsFS().ReadDir("data/sql/migrations")
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	for _, entry := range entries {
		assert.False(t, entry.IsDir())
	}
}
