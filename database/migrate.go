package database

import (
	"embed"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite" // registers sqlite:// (modernc)
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Migrator applies the embedded schema migrations for one dialect
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator creates a migrator for the driver named in opts
func NewMigrator(opts Options) (*Migrator, error) {
	dialect, err := DialectFor(opts.Driver)
	if err != nil {
		return nil, err
	}

	// Create source driver from embedded files
	sourceDriver, err := iofs.New(migrationsFS, "migrations/"+string(dialect))
	if err != nil {
		return nil, fmt.Errorf("failed to create source driver: %w", err)
	}

	var m *migrate.Migrate
	switch dialect {
	case SQLite:
		m, err = newSQLiteMigrate(sourceDriver, opts.Path)
	case Postgres:
		m, err = newPostgresMigrate(sourceDriver, opts.URL)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return &Migrator{m: m}, nil
}

func newSQLiteMigrate(sourceDriver source.Driver, path string) (*migrate.Migrate, error) {
	if path == "" || path == ":memory:" {
		return nil, fmt.Errorf("sqlite migrations require a database file path")
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	// Convert Windows backslashes to forward slashes and ensure absolute paths have leading slash
	normalizedPath := filepath.ToSlash(path)
	if filepath.IsAbs(path) && normalizedPath[0] != '/' {
		normalizedPath = "/" + normalizedPath
	}

	return migrate.NewWithSourceInstance("iofs", sourceDriver, "sqlite://"+normalizedPath)
}

func newPostgresMigrate(sourceDriver source.Driver, url string) (*migrate.Migrate, error) {
	connConfig, err := pgx.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	db := stdlib.OpenDB(*connConfig)

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	return migrate.NewWithInstance("iofs", sourceDriver, "postgres", driver)
}

// Up applies all pending migrations
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Down rolls back the given number of migrations
func (mg *Migrator) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	if err := mg.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to rollback migrations: %w", err)
	}
	return nil
}

// Version returns the applied version; ok is false when nothing was applied
func (mg *Migrator) Version() (version uint, dirty bool, ok bool, err error) {
	version, dirty, err = mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, true, nil
}

// Close releases the source and database handles
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	if srcErr != nil {
		return fmt.Errorf("failed to close source: %w", srcErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to close database: %w", dbErr)
	}
	return nil
}

// MigrateUp runs all pending migrations
func MigrateUp(opts Options) error {
	mg, err := NewMigrator(opts)
	if err != nil {
		return err
	}
	defer mg.Close()

	if err := mg.Up(); err != nil {
		return err
	}

	if version, _, ok, err := mg.Version(); err == nil && ok {
		log.WithField("version", version).Info("Database schema is up to date")
	}
	return nil
}

// MigrateDown rolls back the given number of migrations
func MigrateDown(opts Options, steps int) error {
	mg, err := NewMigrator(opts)
	if err != nil {
		return err
	}
	defer mg.Close()

	if err := mg.Down(steps); err != nil {
		return err
	}

	version, _, ok, err := mg.Version()
	if err != nil {
		return err
	}
	if !ok {
		log.Info("All migrations rolled back")
	} else {
		log.WithField("version", version).Info("Successfully rolled back")
	}
	return nil
}

// MigrateStatus logs the current migration status
func MigrateStatus(opts Options) error {
	mg, err := NewMigrator(opts)
	if err != nil {
		return err
	}
	defer mg.Close()

	version, dirty, ok, err := mg.Version()
	if err != nil {
		return err
	}
	if !ok {
		log.Info("No migrations have been applied yet")
		return nil
	}

	status := "clean"
	if dirty {
		status = "dirty"
	}
	log.WithFields(log.Fields{
		"version": version,
		"status":  status,
	}).Info("Current migration version")
	return nil
}
