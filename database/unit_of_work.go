package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"stovemarket/apperr"
)

var (
	// ErrNoInsert is returned by LastInsertID before any insert ran on the unit
	ErrNoInsert = errors.New("no insert has been executed on this unit of work")

	// ErrAlreadyRolledBack is returned by Commit after the unit was rolled back
	ErrAlreadyRolledBack = errors.New("unit of work already rolled back")

	// ErrCompleted is reported by statements prepared after completion
	ErrCompleted = errors.New("unit of work already completed")
)

type uowState int

const (
	stateOpen uowState = iota
	stateCommitted
	stateRolledBack
)

// UnitOfWork owns one pooled connection for the lifetime of a single logical
// operation. A read-write unit holds a transaction from construction until
// Commit or Rollback; a read-only unit runs statements directly on the
// connection. The connection goes back to the pool on every terminal path.
type UnitOfWork struct {
	conn     *sql.Conn
	tx       *sql.Tx
	dialect  Dialect
	readOnly bool
	state    uowState
	inserted bool
}

// NewUnitOfWork borrows a connection from the pool and, unless readOnly,
// begins a transaction on it.
func (db *DB) NewUnitOfWork(ctx context.Context, readOnly bool) (*UnitOfWork, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindResourceFault, "uow.begin", fmt.Errorf("failed to acquire connection: %w", err))
	}

	u := &UnitOfWork{
		conn:     conn,
		dialect:  db.dialect,
		readOnly: readOnly,
	}

	if !readOnly {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			conn.Close()
			return nil, apperr.Wrap(apperr.KindResourceFault, "uow.begin", fmt.Errorf("failed to begin transaction: %w", err))
		}
		u.tx = tx
	}

	return u, nil
}

// ReadOnly reports whether the unit was opened without a transaction
func (u *UnitOfWork) ReadOnly() bool {
	return u.readOnly
}

// Done reports whether a terminal decision has been made
func (u *UnitOfWork) Done() bool {
	return u.state != stateOpen
}

// Prepare binds query and params to this unit's connection
func (u *UnitOfWork) Prepare(query string, params Params) *Statement {
	if u.state != stateOpen {
		return &Statement{err: ErrCompleted}
	}

	var q querier = u.conn
	if u.tx != nil {
		q = u.tx
	}

	stmt := newStatement(q, u.dialect, query, params)
	stmt.onInsert = func() { u.inserted = true }
	return stmt
}

// LastInsertID returns the id generated by the most recent insert executed
// through this unit.
func (u *UnitOfWork) LastInsertID(ctx context.Context) (int64, error) {
	if u.state != stateOpen {
		return 0, ErrCompleted
	}
	if !u.inserted {
		return 0, ErrNoInsert
	}

	var id int64
	found, err := u.Prepare(u.dialect.lastInsertIDQuery(), nil).One(ctx, &id)
	if err != nil {
		return 0, fmt.Errorf("failed to read last insert id: %w", err)
	}
	if !found || id == 0 {
		return 0, ErrNoInsert
	}
	return id, nil
}

// Commit makes the unit's writes durable and releases the connection.
// Calling it again after a successful commit is a no-op.
func (u *UnitOfWork) Commit() error {
	switch u.state {
	case stateCommitted:
		return nil
	case stateRolledBack:
		return ErrAlreadyRolledBack
	}

	if u.tx != nil {
		if err := u.tx.Commit(); err != nil {
			u.state = stateRolledBack
			u.release()
			err = Classify("uow.commit", fmt.Errorf("failed to commit transaction: %w", err))
			if apperr.KindOf(err) == "" {
				err = apperr.Wrap(apperr.KindResourceFault, "uow.commit", err)
			}
			return err
		}
	}

	u.state = stateCommitted
	return u.release()
}

// Rollback discards the unit's writes and releases the connection. It is a
// no-op once any terminal decision has been made, so it is safe to defer.
func (u *UnitOfWork) Rollback() error {
	if u.state != stateOpen {
		return nil
	}
	u.state = stateRolledBack

	var rbErr error
	if u.tx != nil {
		if err := u.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			rbErr = apperr.Wrap(apperr.KindResourceFault, "uow.rollback", err)
			log.WithError(err).Error("Failed to roll back unit of work")
		}
	}

	if err := u.release(); err != nil && rbErr == nil {
		rbErr = err
	}
	return rbErr
}

// Complete applies the caller's commit or rollback decision
func (u *UnitOfWork) Complete(commit bool) error {
	if commit {
		return u.Commit()
	}
	return u.Rollback()
}

// Close is the scoped-release guard. A read-write unit reaching Close
// without a decision is rolled back and reported as a leak.
func (u *UnitOfWork) Close() error {
	if u.state != stateOpen {
		return nil
	}
	if !u.readOnly {
		log.Error("Unit of work released without commit or rollback; rolling back")
	}
	return u.Rollback()
}

func (u *UnitOfWork) release() error {
	if u.conn == nil {
		return nil
	}
	err := u.conn.Close()
	u.conn = nil
	u.tx = nil
	if err != nil && !errors.Is(err, sql.ErrConnDone) {
		return apperr.Wrap(apperr.KindResourceFault, "uow.release", err)
	}
	return nil
}
