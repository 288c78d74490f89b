// Package transmission turns the exposures an agent collected during a step
// into one stochastic infection outcome.
package transmission

import (
	"math"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"abesim/internal/epi"
)

// Model decides the health transition that follows a set of exposures.
type Model interface {
	InfectionOutcome(exposures []epi.Exposure) epi.HealthTransition
}

// RiskAtDistance maps a distance in meters to a relative risk in [0, 1].
type RiskAtDistance func(distance float32) float32

// Default logistic constants.
const (
	DefaultRiskA = 1.5
	DefaultRiskB = 6.6
)

// LogisticRisk returns 1 - 1/(1 + exp(-a*d + b)), which decreases with d.
func LogisticRisk(a, b float64) RiskAtDistance {
	return func(d float32) float32 {
		return float32(1 - 1/(1+math.Exp(-a*float64(d)+b)))
	}
}

// DefaultRisk is LogisticRisk(DefaultRiskA, DefaultRiskB).
var DefaultRisk = LogisticRisk(DefaultRiskA, DefaultRiskB)

// maxProbability keeps the Bernoulli parameter inside [0, 1).
var maxProbability = math.Nextafter(1, 0)

// HazardAggregated sums a dose per proximity scan and converts the total to
// an infection probability 1 - exp(-lambda * dose).
type HazardAggregated struct {
	lambda   float64
	risk     RiskAtDistance
	interval time.Duration
	rng      *rand.Rand
	warnf    func(format string, args ...any)
	invalid  atomic.Int64
}

// Option configures a HazardAggregated model.
type Option func(*HazardAggregated)

// WithRisk replaces the default logistic risk curve.
func WithRisk(fn RiskAtDistance) Option { return func(m *HazardAggregated) { m.risk = fn } }

// WithInterval sets the per-scan duration. It must match the generator's.
func WithInterval(d time.Duration) Option { return func(m *HazardAggregated) { m.interval = d } }

// WithWarnf receives one message per invalid exposure.
func WithWarnf(fn func(format string, args ...any)) Option {
	return func(m *HazardAggregated) { m.warnf = fn }
}

// NewHazardAggregated validates lambda and options. rng is consumed only when
// the infection probability is positive.
func NewHazardAggregated(lambda float64, rng *rand.Rand, opts ...Option) (*HazardAggregated, error) {
	m := &HazardAggregated{
		lambda:   lambda,
		risk:     DefaultRisk,
		interval: epi.ProximityTraceInterval,
		rng:      rng,
	}
	for _, o := range opts {
		o(m)
	}
	switch {
	case math.IsNaN(lambda) || math.IsInf(lambda, 0) || lambda <= 0:
		return nil, epi.Errorf(epi.ErrConfig, "transmission lambda must be a positive number, got %v", lambda)
	case m.risk == nil:
		return nil, epi.Errorf(epi.ErrConfig, "transmission risk function is nil")
	case m.interval <= 0:
		return nil, epi.Errorf(epi.ErrConfig, "scan interval must be > 0, got %v", m.interval)
	case rng == nil:
		return nil, epi.Errorf(epi.ErrConfig, "transmission model: nil random source")
	}
	return m, nil
}

// Lambda returns the configured rate constant.
func (m *HazardAggregated) Lambda() float64 { return m.lambda }

// InvalidInputs counts exposures that were dropped as invalid.
func (m *HazardAggregated) InvalidInputs() int64 { return m.invalid.Load() }

// Dose returns the hazard contributed by one exposure. Invalid exposures
// contribute zero and are reported through the returned error.
func (m *HazardAggregated) Dose(e epi.Exposure) (float64, error) {
	return Dose(e, m.risk, m.interval)
}

// InfectionOutcome aggregates exposures and draws once. The transition time
// is the latest exposure end.
func (m *HazardAggregated) InfectionOutcome(exposures []epi.Exposure) epi.HealthTransition {
	var (
		latest time.Time
		sum    float64
	)
	for i, e := range exposures {
		if end := e.End(); i == 0 || end.After(latest) {
			latest = end
		}
		dose, err := m.Dose(e)
		if err != nil {
			m.invalid.Add(1)
			if m.warnf != nil {
				m.warnf("exposure at location %d from agent %d ignored: %v", e.LocationID, e.SourceAgentID, err)
			}
			continue
		}
		sum += dose
	}

	out := epi.HealthTransition{Time: latest, State: epi.Susceptible}
	p := Probability(m.lambda, sum)
	if p <= 0 {
		return out
	}
	if m.rng.Float64() < p {
		out.State = epi.Exposed
	}
	return out
}

// Probability converts a summed dose to an infection probability in [0, 1).
func Probability(lambda, dose float64) float64 {
	if math.IsNaN(dose) || dose <= 0 {
		return 0
	}
	p := 1 - math.Exp(-lambda*dose)
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > maxProbability:
		return maxProbability
	}
	return p
}
