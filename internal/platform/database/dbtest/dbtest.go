// Package dbtest opens migrated in-memory SQLite databases for tests.
package dbtest

import (
	"context"
	"database/sql"
	"testing"

	"leet_tracker/internal/platform/config"
	"leet_tracker/internal/platform/database"
)

func Open(tb testing.TB) *sql.DB {
	tb.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, config.DriverSQLite, ":memory:")
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	tb.Cleanup(func() { db.Close() })

	if err := database.Migrate(ctx, db); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	return db
}
