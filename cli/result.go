package cli

// Exit codes returned through CommandError.
const (
	// ExitFailure covers load, validation and realization failures.
	ExitFailure = 1

	// ExitUnbalanced means the book loaded but its debits and credits disagree.
	ExitUnbalanced = 2
)

// CommandError signals a command failure with a specific exit code.
// Commands return this after handling all output (printing errors/warnings to stderr),
// so main only has to translate it into the process exit status.
type CommandError struct {
	exitCode int
}

// NewCommandError creates a new CommandError with the given exit code.
func NewCommandError(exitCode int) *CommandError {
	return &CommandError{exitCode: exitCode}
}

func (e *CommandError) Error() string {
	if e.exitCode == ExitUnbalanced {
		return "ledger is unbalanced"
	}
	return "command failed"
}

// ExitCode returns the exit code associated with this error.
func (e *CommandError) ExitCode() int {
	return e.exitCode
}
