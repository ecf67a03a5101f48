package database_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/docket/pkg/database"
	"github.com/JaimeStill/docket/pkg/lifecycle"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := database.Config{Name: "docket", User: "docket"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.Driver != database.DriverPostgres || cfg.Host != "localhost" || cfg.Port != 5432 {
		t.Errorf("defaults = %+v", cfg)
	}
	if got := cfg.URL(); got != "postgres://docket:@localhost:5432/docket?sslmode=disable" {
		t.Errorf("URL() = %q", got)
	}
	if !strings.Contains(cfg.Dsn(), "dbname=docket") {
		t.Errorf("Dsn() = %q", cfg.Dsn())
	}
}

func TestFinalizeSQLite(t *testing.T) {
	t.Setenv("TEST_DB_DRIVER", "sqlite")

	var cfg database.Config
	if err := cfg.Finalize(&database.Env{Driver: "TEST_DB_DRIVER"}); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if cfg.Path != "docket.db" {
		t.Errorf("Path = %q", cfg.Path)
	}
	if got := cfg.URL(); got != "sqlite://docket.db" {
		t.Errorf("URL() = %q", got)
	}
	if !strings.HasPrefix(cfg.Dsn(), "file:docket.db?") || !strings.Contains(cfg.Dsn(), "foreign_keys(1)") {
		t.Errorf("Dsn() = %q", cfg.Dsn())
	}
}

func TestFinalizeRejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  database.Config
	}{
		{"postgres without name", database.Config{User: "docket"}},
		{"postgres without user", database.Config{Name: "docket"}},
		{"unknown driver", database.Config{Driver: "mysql"}},
		{"bad lifetime", database.Config{Driver: "sqlite", ConnMaxLifetime: "forever"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil); err == nil {
				t.Error("Finalize succeeded, want error")
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := database.Config{Driver: "sqlite", Path: "docket.db", Port: 5432}
	base.Merge(&database.Config{Driver: "postgres", Name: "records", Port: 6543})

	if base.Driver != "postgres" || base.Name != "records" || base.Port != 6543 || base.Path != "docket.db" {
		t.Errorf("merged = %+v", base)
	}
}

func TestSQLiteSystem(t *testing.T) {
	cfg := database.Config{Driver: database.DriverSQLite, Path: ":memory:"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	sys, err := database.New(&cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if sys.Driver() != database.DriverSQLite {
		t.Errorf("Driver() = %q", sys.Driver())
	}

	lc := lifecycle.New()
	if err := sys.Start(lc); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := lc.WaitForStartup(); err != nil {
		t.Fatalf("startup: %v", err)
	}

	var fk int
	if err := sys.Connection().QueryRowContext(context.Background(), "PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("pragma: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
	if stats := sys.Connection().Stats(); stats.MaxOpenConnections != 1 {
		t.Errorf("MaxOpenConnections = %d, want 1", stats.MaxOpenConnections)
	}

	if err := lc.Shutdown(3 * time.Second); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}
