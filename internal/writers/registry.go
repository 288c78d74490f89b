// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"abesim/pkg/api"
)

// Format streams step records and writes the closing summary.
//
// Start is called once; the caller sends every committed step, closes the
// channel and waits on the error channel before calling Summary.
type Format struct {
	Start   func(out io.Writer, header bool, bufSize int) (chan<- api.StepV1, <-chan error)
	Summary func(w io.Writer, s api.SummaryV1) error
}

// Format registry (name → factory). Factories return a fresh Format so that
// buffering formats keep per-run state.
var formats = map[string]func() Format{}

// Register adds or replaces a format (last wins).
func Register(name string, factory func() Format) { formats[name] = factory }

// Lookup returns a fresh instance of the named format.
func Lookup(name string) (Format, error) {
	fn, ok := formats[name]
	if !ok {
		return Format{}, fmt.Errorf("unknown output format %q (no writer registered)", name)
	}
	return fn(), nil
}

// Names lists registered formats in sorted order.
func Names() []string {
	out := make([]string, 0, len(formats))
	for k := range formats {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
