package cli

import (
	"flag"
	"fmt"

	"abesim/internal/version"
)

// NewFlagSet returns a FlagSet with ContinueOnError and the usage banner.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: agent-based epidemic simulation

Version: %s

Runs a synthetic population (--synthetic-agents) or one loaded from
--agents/--locations JSONL files for --steps steps of --step-size.

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}
