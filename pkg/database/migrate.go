package database

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// Schema returns the embedded DDL
func Schema() string {
	return schemaSQL
}

// Migrate applies the embedded schema. Every statement is idempotent,
// so running it against an existing database is a no-op.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
