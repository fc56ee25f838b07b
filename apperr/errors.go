// Package apperr defines the stable error kinds returned by the marketplace core.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the boundary layer can pick a response
type Kind string

const (
	// KindNotFound is returned when a looked-up entity does not exist.
	KindNotFound Kind = "not_found"

	// KindInvalidState is returned when an entity is not in a state that
	// allows the operation, e.g. a listing that is no longer active.
	KindInvalidState Kind = "invalid_state"

	// KindInvalidOperation is returned when the request itself is refused,
	// e.g. a seller buying their own listing or an unaffordable lootbox.
	KindInvalidOperation Kind = "invalid_operation"

	// KindConstraintViolation is returned when the store rejects a write on a
	// unique, foreign key or check constraint. Referenced ids are not
	// pre-checked: a trade naming a buyer that does not exist fails with this
	// kind when the stove's owner foreign key rejects the transfer, not with
	// KindNotFound.
	KindConstraintViolation Kind = "constraint_violation"

	// KindResourceFault is returned for storage failures (I/O, locking,
	// connectivity) and for writes the store reported as not applied.
	KindResourceFault Kind = "resource_fault"
)

// Sentinels for errors.Is checks against a Kind.
var (
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrInvalidState        = &Error{Kind: KindInvalidState}
	ErrInvalidOperation    = &Error{Kind: KindInvalidOperation}
	ErrConstraintViolation = &Error{Kind: KindConstraintViolation}
	ErrResourceFault       = &Error{Kind: KindResourceFault}
)

// Error carries a Kind, the operation that failed and an optional cause
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so errors.Is(err, ErrNotFound) works
// regardless of the operation or message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New creates an error of the given kind
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap attaches a kind to an existing error. Wrapping nil returns nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func NotFound(op, format string, args ...any) *Error {
	return New(KindNotFound, op, fmt.Sprintf(format, args...))
}

func InvalidState(op, format string, args ...any) *Error {
	return New(KindInvalidState, op, fmt.Sprintf(format, args...))
}

func InvalidOperation(op, format string, args ...any) *Error {
	return New(KindInvalidOperation, op, fmt.Sprintf(format, args...))
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind anywhere in its chain
func IsKind(err error, kind Kind) bool {
	return errors.Is(err, &Error{Kind: kind})
}
