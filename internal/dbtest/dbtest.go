// Package dbtest opens migrated in-memory SQLite databases for package tests.
package dbtest

import (
	"database/sql"
	"log/slog"
	"testing"

	"github.com/JaimeStill/docket/internal/migrations"
	"github.com/JaimeStill/docket/pkg/database"
)

// Logger returns a logger that discards all output.
func Logger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Open returns a fresh in-memory database with every migration applied.
// The database is closed when the test ends.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	cfg := &database.Config{Driver: database.DriverSQLite, Path: ":memory:"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("database config: %v", err)
	}

	sys, err := database.New(cfg, Logger())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	db := sys.Connection()
	t.Cleanup(func() { db.Close() })

	if err := migrations.UpSQLite(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}
