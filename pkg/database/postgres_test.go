package database

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/warehouse/pkg/config"
)

// openTestDB connects to DATABASE_URL or skips
func openTestDB(t *testing.T) *DB {
	t.Helper()
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	db, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func TestNewWithInvalidURL(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			URL:             "invalid://url",
			MaxConns:        10,
			MinConns:        2,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
		},
	}

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestSchema_DeclaresAllTables(t *testing.T) {
	schema := Schema()
	for _, table := range []string{
		"users", "products", "scan_events", "robots", "predictions",
		"forecast_reports", "warehouse_map_cells", "receipts",
	} {
		assert.True(t, strings.Contains(schema, "CREATE TABLE IF NOT EXISTS "+table+" ("), table)
	}
	// raw quantities must survive as JSON
	assert.Contains(t, schema, "quantity     JSONB")
}

func TestHealthCheck(t *testing.T) {
	db := openTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status, err := db.HealthCheck(ctx)
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.Greater(t, status.Stats.MaxConns, int32(0))
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Migrate(ctx))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.Migrate(ctx))

	boom := errors.New("boom")
	err := db.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO products (id, name) VALUES ('tx-rollback', 'tmp')`)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE id = 'tx-rollback'`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestClose_Twice(t *testing.T) {
	db := openTestDB(t)
	db.Close()
	db.Close()
}
