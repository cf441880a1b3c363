//go:build integration

// Package dbtest starts a disposable Postgres for repository integration tests.
package dbtest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ridloal/mini-store/internal/platform/database"
)

// New returns a connection to a fresh database with the store schema applied.
// The container is terminated when the test ends.
func New(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("ministore"),
		postgres.WithUsername("ministore"),
		postgres.WithPassword("ministore"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}
	db, err := database.Connect(dsn)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.EnsureSchema(ctx, db); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}
	return db
}

// InsertUser adds a minimal Customer row and returns its id.
func InsertUser(t *testing.T, db *sql.DB, id, userName, fullName string) string {
	t.Helper()
	_, err := db.Exec(`INSERT INTO users (id, user_name, full_name, password_hash, password_salt, role)
		VALUES ($1, $2, $3, 'hash', 'salt', 'Customer')`, id, userName, fullName)
	if err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}
	return id
}
