// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime"

	"abesim/internal/agent"
	"abesim/internal/cli"
	"abesim/internal/cmdutil"
	"abesim/internal/epi"
	"abesim/internal/exposure"
	"abesim/internal/history"
	"abesim/internal/output"
	"abesim/internal/population"
	"abesim/internal/risk"
	"abesim/internal/simulation"
	"abesim/internal/transmission"
	"abesim/internal/version"
	"abesim/internal/writers"
	"abesim/pkg/api"
)

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("abesim")
	fs.SetOutput(io.Discard)

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		code := cmdutil.ExitUsage
		if errors.Is(err, flag.ErrHelp) {
			code = cmdutil.ExitOK
		} else {
			_, _ = fmt.Fprintln(stderr, err)
		}
		fs.SetOutput(outw)
		fs.Usage()
		return flush(outw, stderr, code)
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "abesim version %s\n", version.Version)
		return flush(outw, stderr, cmdutil.ExitOK)
	}

	code := run(parent, opts, outw, stderr)
	if code != cmdutil.ExitOK {
		return code
	}
	return flush(outw, stderr, code)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// flush returns code unless flushing fails; a broken pipe is not a failure.
func flush(outw *bufio.Writer, stderr io.Writer, code int) int {
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return cmdutil.ExitOK
	} else if e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return cmdutil.ExitRuntime
	}
	return code
}

// totals accumulates per-step counters for the summary. Observers run on
// the driver's goroutine, so no locking is needed.
type totals struct {
	exposures   int
	transitions int
}

func run(ctx context.Context, o cli.Options, outw *bufio.Writer, stderr io.Writer) int {
	warnf := cmdutil.WarnHook(stderr, o.Quiet)

	locRecs, agentRecs, err := loadPopulation(o)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return cmdutil.ExitUsage
	}
	var dist [][]float32
	switch {
	case o.TraceDistribution != "":
		if dist, err = exposure.LoadDistributionFile(o.TraceDistribution); err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return cmdutil.ExitUsage
		}
	case o.EmpiricalTraces:
		dist = exposure.DefaultTraceDistribution()
	}

	agents, locations, err := population.Build(population.Params{
		Seed:              o.Seed,
		Lambda:            o.Lambda,
		ScanInterval:      o.ScanInterval,
		TraceDistribution: dist,
		Disease:           agent.Disease{Incubation: o.Incubation, Recovery: o.Recovery},
		InitTime:          o.InitTime,
		Warnf:             warnf,
	}, locRecs, agentRecs)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return cmdutil.ExitUsage
	}

	workers := o.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	drv, err := simulation.New(simulation.Config{InitTime: o.InitTime, Workers: workers}, agents, locations)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return cmdutil.ExitUsage
	}

	scorer, err := risk.NewDoseScorer(o.Lambda, transmission.DefaultRisk, o.ScanInterval)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return cmdutil.ExitUsage
	}
	drv.AddObserver(scorer)

	var runID string
	if o.HistoryPath != "" {
		store, err := history.Open(o.HistoryPath)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return cmdutil.ExitRuntime
		}
		defer store.Close()
		id, err := store.BeginRun(ctx, history.RunMeta{
			Seed: o.Seed, Workers: workers, Lambda: o.Lambda,
			InitTime: o.InitTime, StepSize: o.StepSize,
		})
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return cmdutil.ExitRuntime
		}
		runID = id.String()
		drv.AddObserver(store)
	}

	format, err := writers.Lookup(o.Output)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return cmdutil.ExitUsage
	}
	in, writeErr := format.Start(outw, o.Header, workers*4)

	var tot totals
	drv.AddObserver(simulation.ObserverFunc(func(ctx context.Context, r *simulation.StepReport) error {
		s := output.ToAPIStep(runID, r, o.Detail)
		tot.exposures += s.Exposures
		tot.transitions += s.Transitions
		select {
		case in <- s:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}))

	cmdutil.Infof(stderr, o.Quiet, "running %d agents at %d locations for %d steps of %v with %d worker(s)",
		len(agents), len(locations), o.Steps, o.StepSize, drv.Workers())
	stepErr := drv.Step(ctx, o.Steps, o.StepSize)

	close(in)
	if werr := <-writeErr; writers.IsBrokenPipe(werr) {
		return cmdutil.ExitOK
	} else if werr != nil {
		_, _ = fmt.Fprintln(stderr, werr)
		return cmdutil.ExitRuntime
	}

	if stepErr != nil {
		// Steps already written stay visible on a cancelled run.
		_ = flush(outw, stderr, 0)
		if code := cmdutil.ExitCode(stepErr); code != cmdutil.ExitCancelled {
			_, _ = fmt.Fprintln(stderr, stepErr)
			return code
		}
		return cmdutil.ExitCancelled
	}

	counts := make(map[epi.HealthState]int, 4)
	for _, a := range drv.Agents() {
		counts[a.State()]++
	}
	invalid := scorer.Invalid()
	if invalid > 0 {
		warnf("%d exposure(s) skipped by the risk scorer as invalid input", invalid)
	}
	sum := api.SummaryV1{
		Kind:            api.KindSummary,
		RunID:           runID,
		Seed:            o.Seed,
		Workers:         drv.Workers(),
		Agents:          len(agents),
		Locations:       len(locations),
		Steps:           drv.StepCount(),
		InitTime:        o.InitTime,
		EndTime:         drv.Time(),
		StepSizeSeconds: o.StepSize.Seconds(),
		Lambda:          o.Lambda,
		Counts:          output.ToAPICounts(counts),
		Exposures:       tot.exposures,
		Transitions:     tot.transitions,
		InvalidInputs:   int64(invalid),
		Risk:            output.ToAPIRisk(scorer.Scores()),
	}
	if err := format.Summary(outw, sum); writers.IsBrokenPipe(err) {
		return cmdutil.ExitOK
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return cmdutil.ExitRuntime
	}
	return cmdutil.ExitOK
}

func loadPopulation(o cli.Options) ([]population.LocationRecord, []population.AgentRecord, error) {
	if o.AgentsFile == "" {
		locs, agents := population.Synthesize(o.SyntheticAgents, o.Infectious)
		return locs, agents, nil
	}
	locs, err := population.ReadLocationsFile(o.LocationsFile)
	if err != nil {
		return nil, nil, err
	}
	agents, err := population.ReadAgentsFile(o.AgentsFile)
	if err != nil {
		return nil, nil, err
	}
	return locs, agents, nil
}
