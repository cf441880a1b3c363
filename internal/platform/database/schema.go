package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/ridloal/mini-store/internal/platform/logger"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates the store tables when they do not exist yet. It is idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	logger.Info("Database schema is up to date")
	return nil
}
