package population

import (
	"time"

	"abesim/internal/agent"
	"abesim/internal/epi"
	"abesim/internal/exposure"
	"abesim/internal/location"
	"abesim/internal/rngseed"
	"abesim/internal/transmission"
)

// Params carries the numeric configuration needed to build entities.
type Params struct {
	Seed         uint64
	Lambda       float64
	ScanInterval time.Duration
	// TraceDistribution selects empirical traces when non-nil. An empty,
	// non-nil distribution is a configuration error.
	TraceDistribution [][]float32
	Disease           agent.Disease
	InitTime          time.Time
	Warnf             func(format string, args ...any)
}

// Build turns records into locations and agents. Every entity gets its own
// random streams derived from Params.Seed and its id.
func Build(p Params, locs []LocationRecord, agents []AgentRecord) ([]*agent.Agent, []*location.Location, error) {
	if p.ScanInterval == 0 {
		p.ScanInterval = epi.ProximityTraceInterval
	}
	outLocs := make([]*location.Location, 0, len(locs))
	for _, r := range locs {
		l, err := buildLocation(p, r)
		if err != nil {
			return nil, nil, err
		}
		outLocs = append(outLocs, l)
	}
	outAgents := make([]*agent.Agent, 0, len(agents))
	for _, r := range agents {
		a, err := buildAgent(p, r)
		if err != nil {
			return nil, nil, err
		}
		outAgents = append(outAgents, a)
	}
	return outAgents, outLocs, nil
}

func buildLocation(p Params, r LocationRecord) (*location.Location, error) {
	typ := location.Other
	if r.Type != "" {
		var err error
		if typ, err = location.ParseType(r.Type); err != nil {
			return nil, err
		}
	}
	traceRNG := rngseed.New(p.Seed, rngseed.KindTrace, r.UUID)
	var (
		gen *exposure.MicroGenerator
		err error
	)
	if p.TraceDistribution != nil {
		gen, err = exposure.NewMicroGeneratorWithDistribution(traceRNG, p.TraceDistribution, exposure.WithInterval(p.ScanInterval))
	} else {
		gen, err = exposure.NewMicroGenerator(traceRNG, exposure.WithInterval(p.ScanInterval))
	}
	if err != nil {
		return nil, err
	}
	return location.New(location.Config{
		ID:               r.UUID,
		Type:             typ,
		Degree:           r.Degree,
		Nodes:            r.Nodes,
		Transmissibility: valueOr(r.Transmissibility, 1),
	}, gen, rngseed.New(p.Seed, rngseed.KindLocation, r.UUID))
}

func buildAgent(p Params, r AgentRecord) (*agent.Agent, error) {
	state := epi.Susceptible
	if r.InitialHealthState != "" {
		var err error
		if state, err = epi.ParseHealthState(r.InitialHealthState); err != nil {
			return nil, err
		}
	}
	opts := []transmission.Option{transmission.WithInterval(p.ScanInterval)}
	if p.Warnf != nil {
		opts = append(opts, transmission.WithWarnf(p.Warnf))
	}
	model, err := transmission.NewHazardAggregated(p.Lambda, rngseed.New(p.Seed, rngseed.KindAgent, r.UUID), opts...)
	if err != nil {
		return nil, err
	}
	return agent.New(agent.Config{
		ID:      r.UUID,
		Initial: state,
		Profile: agent.Profile{
			Susceptibility: valueOr(r.Susceptibility, 1),
			SymptomFactor:  valueOr(r.SymptomFactor, 1),
		},
		Locations: r.Locations,
		Disease:   p.Disease,
	}, model, p.InitTime)
}

func valueOr(v *float32, def float32) float32 {
	if v == nil {
		return def
	}
	return *v
}
