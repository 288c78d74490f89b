// Package appshell is the process entry point shared by commands: signal
// handling and exit code normalization.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"abesim/internal/cmdutil"
)

// RunFunc is an application entry point returning a process exit code.
type RunFunc func(ctx context.Context, argv []string, stdout, stderr io.Writer) int

// Main runs fn with a context cancelled on SIGINT/SIGTERM and exits.
func Main(fn RunFunc) {
	os.Exit(run(fn, os.Args[1:], os.Stdout, os.Stderr))
}

func run(fn RunFunc, argv []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := fn(ctx, argv, stdout, stderr)
	// A signal that arrived after the last step still counts as a cancel.
	if ctx.Err() != nil && code == cmdutil.ExitOK {
		code = cmdutil.ExitCancelled
	}
	return code
}
