package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelWrapping(t *testing.T) {
	err := Wrapf(ErrToolUnavailable, "cannot launch %s", "slangc")

	assert.True(t, Is(err, ErrToolUnavailable))
	assert.True(t, IsToolUnavailable(err))
	assert.False(t, IsWorkspaceError(err))
	assert.Contains(t, err.Error(), "cannot launch slangc")
}

func TestIsOperational(t *testing.T) {
	assert.True(t, IsOperational(Wrap(ErrToolUnavailable, "x")))
	assert.True(t, IsOperational(Wrap(ErrWorkspace, "y")))
	assert.False(t, IsOperational(New("shader rejected")))
	assert.False(t, IsOperational(nil))
	assert.False(t, IsOperational(ErrInvalidRequest))
}
