package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Params binds :name placeholders in a query
type Params map[string]any

// Scanner is the row view handed to Many callbacks
type Scanner interface {
	Scan(dest ...any) error
}

// Result reports the outcome of Execute
type Result struct {
	RowsAffected int64
}

// querier is satisfied by both *sql.Conn and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Statement is a query bound to its arguments on one unit of work's
// connection. It performs no retries and no caching; store errors are
// returned unmodified.
type Statement struct {
	q        querier
	query    string
	args     []any
	err      error
	isInsert bool
	onInsert func()
}

func newStatement(q querier, dialect Dialect, query string, params Params) *Statement {
	bound, args, err := Bind(dialect, query, params)
	return &Statement{
		q:        q,
		query:    bound,
		args:     args,
		err:      err,
		isInsert: isInsertQuery(query),
	}
}

// One scans the first row into dest. It reports false when the query
// returned no rows.
func (s *Statement) One(ctx context.Context, dest ...any) (bool, error) {
	if s.err != nil {
		return false, s.err
	}

	err := s.q.QueryRowContext(ctx, s.query, s.args...).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Many calls fn once per returned row
func (s *Statement) Many(ctx context.Context, fn func(row Scanner) error) error {
	if s.err != nil {
		return s.err
	}

	rows, err := s.q.QueryContext(ctx, s.query, s.args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Execute runs a statement that returns no rows
func (s *Statement) Execute(ctx context.Context) (Result, error) {
	if s.err != nil {
		return Result{}, s.err
	}

	res, err := s.q.ExecContext(ctx, s.query, s.args...)
	if err != nil {
		return Result{}, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read rows affected: %w", err)
	}

	if s.isInsert && affected > 0 && s.onInsert != nil {
		s.onInsert()
	}
	return Result{RowsAffected: affected}, nil
}

// Bind rewrites :name placeholders into the dialect's positional form and
// returns the matching argument list. Quoted text and "::" casts are left
// untouched. Every referenced name must be present in params.
func Bind(dialect Dialect, query string, params Params) (string, []any, error) {
	var (
		out   strings.Builder
		args  []any
		quote byte
	)
	out.Grow(len(query))

	for i := 0; i < len(query); i++ {
		c := query[i]

		if quote != 0 {
			out.WriteByte(c)
			if c == quote {
				quote = 0
			}
			continue
		}

		switch {
		case c == '\'' || c == '"':
			quote = c
			out.WriteByte(c)
		case c == ':' && i+1 < len(query) && query[i+1] == ':':
			out.WriteString("::")
			i++
		case c == ':' && i+1 < len(query) && isIdentStart(query[i+1]):
			j := i + 1
			for j < len(query) && isIdentPart(query[j]) {
				j++
			}
			name := query[i+1 : j]
			value, ok := params[name]
			if !ok {
				return "", nil, fmt.Errorf("missing parameter :%s", name)
			}
			args = append(args, value)
			out.WriteString(dialect.Placeholder(len(args)))
			i = j - 1
		default:
			out.WriteByte(c)
		}
	}

	if quote != 0 {
		return "", nil, fmt.Errorf("unterminated quoted text in query")
	}
	return out.String(), args, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isInsertQuery(query string) bool {
	trimmed := strings.TrimSpace(query)
	return len(trimmed) >= 6 && strings.EqualFold(trimmed[:6], "INSERT")
}
