package cli

import "fmt"

// Exit codes for the relnote CLI.
// These codes support programmatic composition and CI/CD integration.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a generic command failure
	ExitFailure = 1

	// ExitOutOfSync indicates a rendered changelog no longer matches its source
	ExitOutOfSync = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitMissingPrerequisites indicates required files or directories are missing
	ExitMissingPrerequisites = 4

	// ExitTimeout indicates command execution timed out
	ExitTimeout = 5
)

// ExitError carries a specific process exit code through cobra's error
// return path. Execute unwraps it and exits with the code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError creates an error that terminates the process with the
// given exit code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}
