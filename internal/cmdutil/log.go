// internal/cmdutil/log.go
package cmdutil

import (
	"fmt"
	"io"
)

// Warnf prints a "WARN:" line unless quiet is set.
func Warnf(dst io.Writer, quiet bool, format string, a ...any) {
	if quiet {
		return
	}
	_, _ = fmt.Fprintf(dst, "WARN: "+format+"\n", a...)
}

// Infof prints an "INFO:" progress line unless quiet is set.
func Infof(dst io.Writer, quiet bool, format string, a ...any) {
	if quiet {
		return
	}
	_, _ = fmt.Fprintf(dst, "INFO: "+format+"\n", a...)
}

// WarnHook binds Warnf to dst for library components that take a
// func(format, args...) warning hook.
func WarnHook(dst io.Writer, quiet bool) func(string, ...any) {
	return func(format string, a ...any) { Warnf(dst, quiet, format, a...) }
}
