package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"stovemarket/config"
)

// DB represents a database connection pool shared by all units of work
type DB struct {
	*sql.DB
	dialect Dialect
}

// Options holds the settings needed to open the pool
type Options struct {
	Driver          string
	Path            string // sqlite file, ":memory:" is rejected
	URL             string // postgres DSN
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	BusyTimeout     time.Duration
	AutoMigrate     bool
}

// OptionsFromConfig maps the application configuration onto pool options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Driver:          cfg.DatabaseDriver,
		Path:            cfg.DatabasePath,
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		BusyTimeout:     cfg.BusyTimeout,
		AutoMigrate:     cfg.AutoMigrate,
	}
}

// Open creates a new connection pool for the configured driver
func Open(ctx context.Context, opts Options) (*DB, error) {
	dialect, err := DialectFor(opts.Driver)
	if err != nil {
		return nil, err
	}

	if opts.AutoMigrate {
		if err := MigrateUp(opts); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	var conn *sql.DB
	switch dialect {
	case SQLite:
		conn, err = openSQLite(opts)
	case Postgres:
		conn, err = openPostgres(opts)
	}
	if err != nil {
		return nil, err
	}

	if opts.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	// Test connection
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.WithFields(log.Fields{
		"driver":         dialect,
		"max_open_conns": opts.MaxOpenConns,
	}).Debug("Database pool opened")

	return &DB{DB: conn, dialect: dialect}, nil
}

// Dialect returns the SQL dialect of the pool
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Close closes the database connection pool
func (db *DB) Close() error {
	return db.DB.Close()
}

func openSQLite(opts Options) (*sql.DB, error) {
	if opts.Path == "" || opts.Path == ":memory:" {
		// every pooled connection would see its own empty in-memory database
		return nil, fmt.Errorf("sqlite requires a database file path")
	}

	if err := ensureDir(opts.Path); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", sqliteDSN(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return conn, nil
}

// sqliteDSN enables foreign keys on every pooled connection and takes the
// write lock when a transaction begins, so writers queue on busy_timeout
// instead of failing on lock upgrade.
func sqliteDSN(opts Options) string {
	busy := opts.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	return fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_txlock=immediate",
		opts.Path, busy.Milliseconds())
}

// ensureDir creates the parent directory of a sqlite database file
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	return nil
}

func openPostgres(opts Options) (*sql.DB, error) {
	connConfig, err := pgx.ParseConfig(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Set timezone to UTC for all connections
	connConfig.RuntimeParams["timezone"] = "UTC"

	return stdlib.OpenDB(*connConfig), nil
}
