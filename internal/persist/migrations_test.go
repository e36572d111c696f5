package persist

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/spawnpool/internal/config"
)

func TestMigrationsAreEmbedded(t *testing.T) {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	raw, err := fs.ReadFile(migrations, names[0])
	require.NoError(t, err)
	sql := string(raw)
	assert.True(t, strings.Contains(sql, "-- +goose Up"))
	assert.True(t, strings.Contains(sql, "-- +goose Down"))
	assert.Contains(t, sql, "spawn_journal")
}

func TestMigrationsAreNumberedInOrder(t *testing.T) {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	for i, name := range names {
		v, err := goose.NumericComponent(name)
		require.NoError(t, err, name)
		assert.Equal(t, int64(i+1), v, name)
	}
}

func TestVersionTableIsNotGooseDefault(t *testing.T) {
	assert.NotEqual(t, "goose_db_version", VersionTable)
	assert.Equal(t, "spawnpool_schema_version", VersionTable)
}

func TestNewDBWithoutDSN(t *testing.T) {
	_, err := NewDB(context.Background(), config.DatabaseConfig{}, nil)
	assert.ErrorIs(t, err, ErrNoDSN)
}

func TestWriteBatchSkipsEmpty(t *testing.T) {
	r := NewJournalRepo(nil)
	assert.NoError(t, r.WriteBatch(context.Background(), nil))
}
