package cli

import (
	"errors"
	"fmt"
)

// Exit codes for quickbook. A compilation exits with its error count.
const (
	// ExitSuccess indicates the document compiled without errors.
	ExitSuccess = 0

	// ExitFailure is used for failures that are not counted errors.
	ExitFailure = 1

	// ExitMaxErrors caps the error count used as the exit code.
	ExitMaxErrors = 255

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitIOError indicates the output could not be written.
	ExitIOError = 74
)

// ErrCompileFailed is returned when a document compiled with errors, or
// without them under --expect-errors.
var ErrCompileFailed = errors.New("compilation failed")

// ExitError carries a process exit code through cobra.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%v (exit code %d)", e.Err, e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCodeForErrors maps an error count to an exit code. With expectErrors
// the result is inverted: success only when at least one error occurred.
func ExitCodeForErrors(errorCount int, expectErrors bool) int {
	if expectErrors {
		if errorCount > 0 {
			return ExitSuccess
		}
		return ExitFailure
	}
	return min(max(errorCount, 0), ExitMaxErrors)
}

// ExitCode returns the process exit code for an error returned by the root
// command.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
