package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"stovemarket/apperr"
)

// Classify tags a store error with its apperr kind: rejected writes become
// ConstraintViolation, connection and lock failures become ResourceFault.
// Errors that already carry a kind, and unrecognised errors, are returned
// unchanged.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if apperr.KindOf(err) != "" {
		return err
	}

	switch {
	case isConstraintViolation(err):
		return apperr.Wrap(apperr.KindConstraintViolation, op, err)
	case isResourceFault(err):
		return apperr.Wrap(apperr.KindResourceFault, op, err)
	default:
		return err
	}
}

func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 23: integrity_constraint_violation
		return strings.HasPrefix(pgErr.Code, "23")
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint failed"),
		strings.Contains(msg, "foreign key constraint failed"),
		strings.Contains(msg, "check constraint failed"),
		strings.Contains(msg, "duplicate key value"),
		strings.Contains(msg, "violates foreign key constraint"),
		strings.Contains(msg, "violates check constraint"):
		return true
	}
	return false
}

func isResourceFault(err error) bool {
	if errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 08: connection exception, 53: insufficient resources, 57P: operator intervention
		return strings.HasPrefix(pgErr.Code, "08") ||
			strings.HasPrefix(pgErr.Code, "53") ||
			strings.HasPrefix(pgErr.Code, "57P")
	}
	if pgconn.Timeout(err) {
		return true
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_IOERR,
			sqlite3.SQLITE_FULL, sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_READONLY:
			return true
		}
	}
	return false
}
