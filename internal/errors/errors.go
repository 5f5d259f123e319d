// Package errors defines the structured errors the relnote CLI reports
// to users. Every CLIError carries a category and remediation steps so
// failures explain how to recover, not just what broke.
package errors

import "fmt"

// ErrorCategory classifies what kind of failure occurred.
type ErrorCategory int

const (
	// Argument covers invalid or missing command arguments.
	Argument ErrorCategory = iota
	// Configuration covers invalid or missing configuration values.
	Configuration
	// Prerequisite covers missing files, directories, or repositories
	// the command needs before it can run.
	Prerequisite
	// Runtime covers failures during command execution.
	Runtime
)

func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "Argument Error"
	case Configuration:
		return "Configuration Error"
	case Prerequisite:
		return "Prerequisite Error"
	case Runtime:
		return "Runtime Error"
	default:
		return "Error"
	}
}

// CLIError is a user-facing error with recovery guidance attached.
type CLIError struct {
	Category ErrorCategory
	Message  string
	// Remediation lists concrete steps to resolve the error.
	Remediation []string
	// Usage holds the correct command syntax, set for argument errors.
	Usage string
}

func (e *CLIError) Error() string {
	return e.Message
}

// NewArgumentError reports an invalid command argument.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Argument,
		Message:     message,
		Remediation: remediation,
	}
}

// NewArgumentErrorWithUsage reports an invalid argument along with the
// correct command syntax.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Argument,
		Message:     message,
		Usage:       usage,
		Remediation: remediation,
	}
}

// NewConfigError reports a configuration problem.
func NewConfigError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Configuration,
		Message:     message,
		Remediation: remediation,
	}
}

// NewPrerequisiteError reports a missing prerequisite such as the
// messages directory or a git repository.
func NewPrerequisiteError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Prerequisite,
		Message:     message,
		Remediation: remediation,
	}
}

// NewRuntimeError reports a failure during command execution.
func NewRuntimeError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Runtime,
		Message:     message,
		Remediation: remediation,
	}
}

// Wrap converts an arbitrary error into a runtime CLIError, prefixing
// it with context about the operation that failed.
func Wrap(err error, context string) *CLIError {
	return &CLIError{
		Category: Runtime,
		Message:  fmt.Sprintf("%s: %v", context, err),
	}
}
