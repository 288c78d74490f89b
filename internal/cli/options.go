// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"time"
)

// DefaultInitTime is the simulated clock at step 0 unless --init-time is set.
var DefaultInitTime = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// Output formats.
var outputFormats = []string{"text", "json", "jsonl"}

// Options holds all CLI flags.
type Options struct {
	// Population
	AgentsFile      string
	LocationsFile   string
	SyntheticAgents int
	Infectious      int

	// Stepping
	Steps    int
	StepSize time.Duration
	InitTime time.Time
	Workers  int // 0 = all CPUs, 1 = serial
	Seed     uint64

	// Model
	Lambda            float64
	ScanInterval      time.Duration
	Incubation        time.Duration
	Recovery          time.Duration
	TraceDistribution string
	EmpiricalTraces   bool

	// Output
	Output      string
	Detail      bool
	Header      bool // true unless --no-header
	HistoryPath string
	Quiet       bool

	Version bool
}

// Parse is the top-level call for CLI parsing.
func Parse() (Options, error) { return ParseArgs(flag.CommandLine, nil) }

// ParseArgs registers and parses all flags, returns a validated Options.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool
	var initTime string

	// Population
	fs.StringVar(&opt.AgentsFile, "agents", "", "agents JSONL file (requires --locations)")
	fs.StringVar(&opt.LocationsFile, "locations", "", "locations JSONL file (requires --agents)")
	fs.IntVar(&opt.SyntheticAgents, "synthetic-agents", 100, "agents in the synthetic household+business population [100]")
	fs.IntVar(&opt.Infectious, "infectious", 1, "initially infectious synthetic agents [1]")

	// Stepping
	fs.IntVar(&opt.Steps, "steps", 24, "number of steps to run [24]")
	fs.DurationVar(&opt.StepSize, "step-size", time.Hour, "simulated time per step [1h]")
	fs.StringVar(&initTime, "init-time", DefaultInitTime.Format(time.RFC3339), "simulated start time (RFC3339)")
	fs.IntVar(&opt.Workers, "workers", 0, "number of worker goroutines (0 = all CPUs, 1 = serial) [0]")
	fs.Uint64Var(&opt.Seed, "seed", 1, "random seed; results are identical for any --workers [1]")

	// Model
	fs.Float64Var(&opt.Lambda, "lambda", 1, "transmission rate λ in p = 1 - exp(-λ·dose) [1]")
	fs.DurationVar(&opt.ScanInterval, "scan-interval", 5*time.Minute, "proximity trace sampling interval [5m]")
	fs.DurationVar(&opt.Incubation, "incubation", 5*24*time.Hour, "time from EXPOSED to INFECTIOUS [120h]")
	fs.DurationVar(&opt.Recovery, "recovery", 14*24*time.Hour, "time from INFECTIOUS to RECOVERED [336h]")
	fs.StringVar(&opt.TraceDistribution, "trace-distribution", "", "JSON file of empirical proximity traces (implies --empirical-traces)")
	fs.BoolVar(&opt.EmpiricalTraces, "empirical-traces", false, "sample traces from the empirical distribution instead of uniform [false]")

	// Output
	fs.StringVar(&opt.Output, "output", "text", "output format: text | json | jsonl [text]")
	fs.BoolVar(&opt.Detail, "detail", false, "list changed agents with their exposures in json/jsonl steps [false]")
	noHeader := false
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line in text output [false]")
	fs.StringVar(&opt.HistoryPath, "history", "", "SQLite file recording exposure and transition history")
	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress warnings [false]")

	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	if fs.NArg() > 0 {
		return opt, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	opt.Header = !noHeader
	if opt.TraceDistribution != "" {
		opt.EmpiricalTraces = true
	}
	t, err := time.Parse(time.RFC3339, initTime)
	if err != nil {
		return opt, fmt.Errorf("invalid --init-time %q: %w", initTime, err)
	}
	opt.InitTime = t.UTC()
	return opt, opt.Validate()
}

// Validate checks cross-flag constraints.
func (o Options) Validate() error {
	switch {
	case (o.AgentsFile == "") != (o.LocationsFile == ""):
		return errors.New("--agents and --locations must be supplied together")
	case o.AgentsFile == "" && o.SyntheticAgents <= 0:
		return errors.New("--synthetic-agents must be > 0")
	case o.AgentsFile == "" && (o.Infectious < 0 || o.Infectious > o.SyntheticAgents):
		return fmt.Errorf("--infectious must be in [0, %d]", o.SyntheticAgents)
	}
	if o.Steps < 0 {
		return errors.New("--steps must be ≥ 0")
	}
	if o.StepSize <= 0 {
		return errors.New("--step-size must be > 0")
	}
	if o.Workers < 0 {
		return errors.New("--workers must be ≥ 0")
	}
	if !(o.Lambda > 0) || math.IsInf(o.Lambda, 0) {
		return errors.New("--lambda must be a finite number > 0")
	}
	if o.ScanInterval <= 0 {
		return errors.New("--scan-interval must be > 0")
	}
	if o.Incubation <= 0 || o.Recovery <= 0 {
		return errors.New("--incubation and --recovery must be > 0")
	}
	for _, f := range outputFormats {
		if o.Output == f {
			return nil
		}
	}
	return fmt.Errorf("invalid --output %q", o.Output)
}
