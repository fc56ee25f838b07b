package database

import (
	"fmt"
	"strconv"

	"stovemarket/config"
)

// Dialect identifies the SQL flavour spoken by the pool
type Dialect string

const (
	SQLite   Dialect = config.DriverSQLite
	Postgres Dialect = config.DriverPostgres
)

// DialectFor resolves a driver name
func DialectFor(driver string) (Dialect, error) {
	switch Dialect(driver) {
	case SQLite, Postgres:
		return Dialect(driver), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Placeholder renders the n-th (1-based) positional parameter
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// lastInsertIDQuery reads the id generated by the most recent insert on the
// current connection.
func (d Dialect) lastInsertIDQuery() string {
	if d == Postgres {
		return "SELECT lastval()"
	}
	return "SELECT last_insert_rowid()"
}
