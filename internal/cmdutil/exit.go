// internal/cmdutil/exit.go
package cmdutil

import (
	"context"
	"errors"

	"abesim/internal/epi"
)

// Process exit codes.
const (
	ExitOK        = 0
	ExitUsage     = 2
	ExitRuntime   = 3
	ExitCancelled = 130
)

// ExitCode maps an error to a process exit code: configuration and input
// errors are usage errors, cancellation is 130, anything else is a runtime
// failure.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitCancelled
	case errors.Is(err, epi.ErrConfig), errors.Is(err, epi.ErrInvalidInput):
		return ExitUsage
	default:
		return ExitRuntime
	}
}
