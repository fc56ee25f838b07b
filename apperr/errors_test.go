package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	err := NotFound("trade.execute", "listing %d not found", 999)

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidState))

	wrapped := fmt.Errorf("failed to execute trade: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestError_Message(t *testing.T) {
	t.Run("op and message", func(t *testing.T) {
		err := InvalidOperation("trade.execute", "cannot buy own listing")
		assert.Equal(t, "trade.execute: cannot buy own listing", err.Error())
	})

	t.Run("kind used when message empty", func(t *testing.T) {
		err := Wrap(KindResourceFault, "uow.begin", errors.New("connection refused"))
		assert.Equal(t, "uow.begin: resource_fault: connection refused", err.Error())
	})
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(KindConstraintViolation, "op", nil))

	cause := errors.New("UNIQUE constraint failed: Player.username")
	err := Wrap(KindConstraintViolation, "player.create", cause)
	assert.True(t, IsKind(err, KindConstraintViolation))
	assert.ErrorIs(t, err, cause)
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
}
