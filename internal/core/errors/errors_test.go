package errors

import (
	stderrors "errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByCode(t *testing.T) {
	wrapped := ErrIO.WithError(fs.ErrPermission)

	assert.ErrorIs(t, wrapped, ErrIO)
	assert.NotErrorIs(t, wrapped, ErrNotFound)
	assert.ErrorIs(t, NewIOError("read failed", nil), ErrIO)
}

func TestWithErrorWrapsWithoutMutating(t *testing.T) {
	wrapped := ErrIO.WithError(fs.ErrClosed)

	assert.ErrorIs(t, wrapped, fs.ErrClosed)
	assert.Nil(t, ErrIO.Err)
	assert.Contains(t, wrapped.Error(), "IO_FAILURE")
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	wrapped := NewIOError("persist failed", cause)

	assert.Equal(t, cause, stderrors.Unwrap(wrapped))
}
