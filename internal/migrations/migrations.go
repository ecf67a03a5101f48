// Package migrations embeds the schema for every supported driver and applies it
// with golang-migrate.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	dbsys "github.com/JaimeStill/docket/pkg/database"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Source returns the migration source for driver.
func Source(driver string) (source.Driver, error) {
	switch driver {
	case dbsys.DriverPostgres, dbsys.DriverSQLite:
		return iofs.New(files, driver)
	}
	return nil, fmt.Errorf("no migrations for driver %q", driver)
}

// NewFromURL creates a migrator that opens its own connection from a database URL.
func NewFromURL(driver, url string) (*migrate.Migrate, error) {
	src, err := Source(driver)
	if err != nil {
		return nil, err
	}
	return migrate.NewWithSourceInstance("iofs", src, url)
}

// UpSQLite applies all pending sqlite migrations over an existing connection.
// Used for the embedded datastore, whose in-memory form is only reachable
// through the connection that created it. The migrator is not closed because
// closing it would close db.
func UpSQLite(db *sql.DB) error {
	src, err := Source(dbsys.DriverSQLite)
	if err != nil {
		return err
	}

	target, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, dbsys.DriverSQLite, target)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
