package repository

import (
	"context"
	"time"

	"stovemarket/database"
)

// Session is the statement source every repository runs on. A
// *database.UnitOfWork satisfies it; repositories never begin, commit or
// roll back on their own.
type Session interface {
	Prepare(query string, params database.Params) *database.Statement
	LastInsertID(ctx context.Context) (int64, error)
}

// insert executes an INSERT and returns the generated id. The boolean is
// false when the store accepted the statement but wrote no row.
func insert(ctx context.Context, s Session, query string, params database.Params) (bool, int64, error) {
	res, err := s.Prepare(query, params).Execute(ctx)
	if err != nil {
		return false, 0, err
	}
	if res.RowsAffected != 1 {
		return false, 0, nil
	}

	id, err := s.LastInsertID(ctx)
	if err != nil {
		return false, 0, err
	}
	return true, id, nil
}

// execOne executes a write and reports whether exactly one row changed
func execOne(ctx context.Context, s Session, query string, params database.Params) (bool, error) {
	res, err := s.Prepare(query, params).Execute(ctx)
	if err != nil {
		return false, err
	}
	return res.RowsAffected == 1, nil
}

// count runs a single-value COUNT query
func count(ctx context.Context, s Session, query string, params database.Params) (int64, error) {
	var n int64
	if _, err := s.Prepare(query, params).One(ctx, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// stamp returns t, or the current UTC time when t is zero
func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
