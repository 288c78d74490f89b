// Package exposure synthesizes proximity traces and packages them, with the
// transmission-relevant factors, into epi.Exposure values.
package exposure

import (
	"math"
	"math/rand/v2"
	"time"

	"abesim/internal/epi"
)

// Generator produces exposures for contacts. Implementations own their random
// stream and are not safe for concurrent use.
type Generator interface {
	// Generate returns a single exposure for one side of a contact.
	Generate(start time.Time, duration time.Duration, infectivity, symptomFactor float32) epi.Exposure
	// GeneratePair returns the two sides of one contact. Both share the same
	// proximity trace; element i of each factor pair goes to exposure i.
	GeneratePair(start time.Time, duration time.Duration, infectivity, symptomFactor [2]float32) (epi.Exposure, epi.Exposure)
}

const (
	minUniformTraceLen = 1
	maxUniformDistance = 10.0
)

// MicroGenerator draws traces either uniformly or from an empirical
// distribution of sample traces.
type MicroGenerator struct {
	rng      *rand.Rand
	interval time.Duration
	dist     []epi.ProximityTrace
}

// Option configures a MicroGenerator.
type Option func(*MicroGenerator)

// WithInterval overrides the proximity scan interval.
func WithInterval(d time.Duration) Option {
	return func(g *MicroGenerator) { g.interval = d }
}

// NewMicroGenerator returns a generator that synthesizes uniform traces.
func NewMicroGenerator(rng *rand.Rand, opts ...Option) (*MicroGenerator, error) {
	if rng == nil {
		return nil, epi.Errorf(epi.ErrConfig, "exposure generator: nil random source")
	}
	g := &MicroGenerator{rng: rng, interval: epi.ProximityTraceInterval}
	for _, o := range opts {
		o(g)
	}
	if g.interval <= 0 {
		return nil, epi.Errorf(epi.ErrConfig, "exposure generator: scan interval must be > 0, got %v", g.interval)
	}
	return g, nil
}

// NewMicroGeneratorWithDistribution returns a generator that samples from
// dist. An empty dist is a configuration error; it never falls back to
// uniform sampling.
func NewMicroGeneratorWithDistribution(rng *rand.Rand, dist [][]float32, opts ...Option) (*MicroGenerator, error) {
	if len(dist) == 0 {
		return nil, epi.Errorf(epi.ErrConfig, "proximity trace distribution cannot be empty")
	}
	g, err := NewMicroGenerator(rng, opts...)
	if err != nil {
		return nil, err
	}
	g.dist, err = fixedLength(dist)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func fixedLength(dist [][]float32) ([]epi.ProximityTrace, error) {
	out := make([]epi.ProximityTrace, 0, len(dist))
	for i, sample := range dist {
		if len(sample) > epi.MaxTraceLength {
			return nil, epi.Errorf(epi.ErrConfig, "trace sample %d has %d scans, max %d", i, len(sample), epi.MaxTraceLength)
		}
		tr := epi.EmptyTrace()
		for j, d := range sample {
			if math.IsNaN(float64(d)) || d < 0 || d >= epi.NoProximity {
				return nil, epi.Errorf(epi.ErrConfig, "trace sample %d scan %d: invalid distance %v", i, j, d)
			}
			tr[j] = d
		}
		out = append(out, tr)
	}
	return out, nil
}

// Empirical reports whether traces come from a sample distribution.
func (g *MicroGenerator) Empirical() bool { return len(g.dist) > 0 }

func (g *MicroGenerator) Generate(start time.Time, _ time.Duration, infectivity, symptomFactor float32) epi.Exposure {
	tr := g.trace()
	return epi.Exposure{
		StartTime:      start,
		Duration:       tr.Duration(g.interval),
		ProximityTrace: tr,
		Infectivity:    infectivity,
		SymptomFactor:  symptomFactor,
	}
}

func (g *MicroGenerator) GeneratePair(start time.Time, _ time.Duration, infectivity, symptomFactor [2]float32) (epi.Exposure, epi.Exposure) {
	tr := g.trace()
	d := tr.Duration(g.interval)
	return epi.Exposure{
			StartTime:      start,
			Duration:       d,
			ProximityTrace: tr,
			Infectivity:    infectivity[0],
			SymptomFactor:  symptomFactor[0],
		}, epi.Exposure{
			StartTime:      start,
			Duration:       d,
			ProximityTrace: tr,
			Infectivity:    infectivity[1],
			SymptomFactor:  symptomFactor[1],
		}
}

func (g *MicroGenerator) trace() epi.ProximityTrace {
	if len(g.dist) > 0 {
		return g.dist[g.rng.IntN(len(g.dist))]
	}
	tr := epi.EmptyTrace()
	n := minUniformTraceLen + g.rng.IntN(epi.MaxTraceLength-minUniformTraceLen)
	for i := 0; i < n; i++ {
		tr[i] = float32(g.rng.Float64() * maxUniformDistance)
	}
	return tr
}
