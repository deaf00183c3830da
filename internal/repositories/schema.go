package repositories

import (
	"context"
	_ "embed"
)

//go:embed schema.sql
var schemaSQL string

// Migrate creates any missing tables and indexes. It is idempotent.
func Migrate(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx, schemaSQL)
	return err
}
