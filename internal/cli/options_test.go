// internal/cli/options_test.go
package cli

import (
	"errors"
	"flag"
	"testing"
	"time"
)

func newFS() *flag.FlagSet { return flag.NewFlagSet("test", flag.ContinueOnError) }

func mustParse(t *testing.T, args ...string) Options {
	t.Helper()
	opts, err := ParseArgs(newFS(), args)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	return opts
}

func TestDefaults(t *testing.T) {
	o := mustParse(t)
	if o.SyntheticAgents != 100 || o.Infectious != 1 || o.StepSize != time.Hour || o.Workers != 0 {
		t.Errorf("defaults %+v", o)
	}
	if !o.InitTime.Equal(DefaultInitTime) || !o.Header || o.Output != "text" {
		t.Errorf("defaults %+v", o)
	}
}

func TestPopulationFiles(t *testing.T) {
	o := mustParse(t, "--agents", "a.jsonl", "--locations", "l.jsonl", "--workers", "4")
	if o.AgentsFile != "a.jsonl" || o.LocationsFile != "l.jsonl" || o.Workers != 4 {
		t.Errorf("bad parse %+v", o)
	}
}

func TestTraceDistributionImpliesEmpirical(t *testing.T) {
	o := mustParse(t, "--trace-distribution", "d.json")
	if !o.EmpiricalTraces {
		t.Error("empirical traces not enabled")
	}
}

func TestInitTime(t *testing.T) {
	o := mustParse(t, "--init-time", "2021-06-01T12:00:00+02:00")
	if want := time.Date(2021, 6, 1, 10, 0, 0, 0, time.UTC); !o.InitTime.Equal(want) {
		t.Errorf("init time %v", o.InitTime)
	}
}

func TestHelpAndVersion(t *testing.T) {
	if _, err := ParseArgs(newFS(), []string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("want ErrHelp, got %v", err)
	}
	// --version short-circuits validation.
	o, err := ParseArgs(newFS(), []string{"--version", "--steps", "-1"})
	if err != nil || !o.Version {
		t.Errorf("version: %v %+v", err, o)
	}
}

func TestValidationErrors(t *testing.T) {
	cases := map[string][]string{
		"agents without locations": {"--agents", "a.jsonl"},
		"locations without agents": {"--locations", "l.jsonl"},
		"zero synthetic":           {"--synthetic-agents", "0"},
		"too many infectious":      {"--synthetic-agents", "3", "--infectious", "4"},
		"negative steps":           {"--steps", "-1"},
		"zero step size":           {"--step-size", "0s"},
		"negative step size":       {"--step-size", "-1h"},
		"negative workers":         {"--workers", "-2"},
		"zero lambda":              {"--lambda", "0"},
		"nan lambda":               {"--lambda", "NaN"},
		"zero scan interval":       {"--scan-interval", "0s"},
		"zero incubation":          {"--incubation", "0s"},
		"bad output":               {"--output", "fasta"},
		"bad init time":            {"--init-time", "yesterday"},
		"positional":               {"extra"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseArgs(newFS(), args); err == nil {
				t.Fatalf("expected error for %v", args)
			}
		})
	}
}
