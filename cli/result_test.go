package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestCommandError(t *testing.T) {
	t.Run("implements error interface", func(t *testing.T) {
		err := NewCommandError(1)
		assert.Error(t, err)
	})

	t.Run("returns exit code", func(t *testing.T) {
		err := NewCommandError(42)
		assert.Equal(t, err.ExitCode(), 42)
	})

	t.Run("survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("summary: %w", NewCommandError(2))
		var cmdErr *CommandError
		assert.True(t, errors.As(err, &cmdErr))
		assert.Equal(t, cmdErr.ExitCode(), 2)
	})
}

func TestCommandErrorMessages(t *testing.T) {
	assert.Equal(t, "command failed", NewCommandError(ExitFailure).Error())
	assert.Equal(t, "ledger is unbalanced", NewCommandError(ExitUnbalanced).Error())
}
