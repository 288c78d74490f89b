// Package risk keeps per-agent risk scores computed from exposure history.
// The simulation never reads scores back; they feed reporting and history.
package risk

import (
	"context"
	"sort"
	"sync"
	"time"

	"abesim/internal/epi"
	"abesim/internal/simulation"
	"abesim/internal/transmission"
)

// Score is one agent's estimated infection risk after a step.
type Score struct {
	AgentID int64
	State   epi.HealthState
	Dose    float64
	Risk    float64
}

// DoseScorer accumulates the dose of every exposure an agent received and
// reports 1 - exp(-lambda * dose). Only the new exposures of each step are
// scored, so the cost per step is proportional to that step's contacts.
type DoseScorer struct {
	lambda   float64
	risk     transmission.RiskAtDistance
	interval time.Duration

	mu      sync.Mutex
	dose    map[int64]float64
	state   map[int64]epi.HealthState
	invalid int
}

// NewDoseScorer validates lambda the same way the transmission model does.
func NewDoseScorer(lambda float64, risk transmission.RiskAtDistance, interval time.Duration) (*DoseScorer, error) {
	if !(lambda > 0) {
		return nil, epi.Errorf(epi.ErrConfig, "risk scorer lambda must be > 0, got %v", lambda)
	}
	if risk == nil {
		risk = transmission.DefaultRisk
	}
	if interval <= 0 {
		interval = epi.ProximityTraceInterval
	}
	return &DoseScorer{
		lambda:   lambda,
		risk:     risk,
		interval: interval,
		dose:     make(map[int64]float64),
		state:    make(map[int64]epi.HealthState),
	}, nil
}

var _ simulation.Observer = (*DoseScorer)(nil)

func (s *DoseScorer) ObserveStep(_ context.Context, r *simulation.StepReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range r.Agents {
		s.state[a.ID] = a.State
		for _, e := range a.NewExposures {
			d, err := transmission.Dose(e, s.risk, s.interval)
			if err != nil {
				s.invalid++
				continue
			}
			s.dose[a.ID] += d
		}
	}
	return nil
}

// Scores returns every known agent's score ordered by agent id.
func (s *DoseScorer) Scores() []Score {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Score, 0, len(s.state))
	for id, st := range s.state {
		d := s.dose[id]
		out = append(out, Score{AgentID: id, State: st, Dose: d, Risk: transmission.Probability(s.lambda, d)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AgentID < out[j].AgentID })
	return out
}

// Invalid counts exposures skipped as invalid input.
func (s *DoseScorer) Invalid() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invalid
}
