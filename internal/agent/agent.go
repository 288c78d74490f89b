// Package agent implements the per-agent health state machine:
// SUSCEPTIBLE -> EXPOSED -> INFECTIOUS -> RECOVERED.
//
// Each step an agent submits visits, receives exposures and then plans its
// transitions. Planning never mutates the agent; Commit applies a plan
// exactly once. Within a step clock-driven progression is applied before the
// exposure-driven infection decision.
package agent

import (
	"math"
	"time"

	"abesim/internal/epi"
	"abesim/internal/transmission"
)

const day = 24 * time.Hour

// Profile holds population-profile attributes.
type Profile struct {
	Susceptibility float32
	SymptomFactor  float32
}

// Disease holds the clock-driven delays.
type Disease struct {
	Incubation time.Duration // EXPOSED -> INFECTIOUS
	Recovery   time.Duration // INFECTIOUS -> RECOVERED
}

// DefaultDisease recovers MaxDaysAfterInfection days after onset.
func DefaultDisease() Disease {
	return Disease{Incubation: 5 * day, Recovery: epi.MaxDaysAfterInfection * day}
}

// Config describes one agent.
type Config struct {
	ID        int64
	Initial   epi.HealthState
	Profile   Profile
	Locations []int64
	Disease   Disease
}

// Validate checks cfg.
func (c Config) Validate() error {
	switch {
	case !c.Initial.Valid():
		return epi.Errorf(epi.ErrConfig, "agent %d: invalid initial health state %d", c.ID, int(c.Initial))
	case badFactor(c.Profile.Susceptibility):
		return epi.Errorf(epi.ErrConfig, "agent %d: susceptibility must be >= 0, got %v", c.ID, c.Profile.Susceptibility)
	case badFactor(c.Profile.SymptomFactor):
		return epi.Errorf(epi.ErrConfig, "agent %d: symptom factor must be >= 0, got %v", c.ID, c.Profile.SymptomFactor)
	case c.Disease.Incubation < 0 || c.Disease.Recovery <= 0:
		return epi.Errorf(epi.ErrConfig, "agent %d: incubation must be >= 0 and recovery > 0 (got %v, %v)",
			c.ID, c.Disease.Incubation, c.Disease.Recovery)
	}
	return nil
}

func badFactor(f float32) bool { return math.IsNaN(float64(f)) || f < 0 }

// Agent is owned by exactly one worker partition during a step.
type Agent struct {
	cfg   Config
	model transmission.Model

	state     epi.HealthState
	exposedAt time.Time
	onset     time.Time

	history     []epi.Exposure
	transitions []epi.HealthTransition
}

// New builds an agent in its initial state at time init. An initially
// EXPOSED agent is exposed at init; an initially INFECTIOUS one has its onset
// at init.
func New(cfg Config, model transmission.Model, init time.Time) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if model == nil {
		return nil, epi.Errorf(epi.ErrConfig, "agent %d: nil transmission model", cfg.ID)
	}
	cfg.Locations = append([]int64(nil), cfg.Locations...)
	a := &Agent{cfg: cfg, model: model, state: cfg.Initial}
	switch cfg.Initial {
	case epi.Exposed:
		a.exposedAt = init
	case epi.Infectious:
		a.exposedAt, a.onset = init, init
	}
	return a, nil
}

func (a *Agent) ID() int64              { return a.cfg.ID }
func (a *Agent) State() epi.HealthState { return a.state }
func (a *Agent) Locations() []int64     { return a.cfg.Locations }
func (a *Agent) Profile() Profile       { return a.cfg.Profile }

// History returns every exposure received so far. Callers must not modify it.
func (a *Agent) History() []epi.Exposure { return a.history }

// Transitions returns every transition applied so far, in order.
func (a *Agent) Transitions() []epi.HealthTransition { return a.transitions }

// InfectivityAt returns the decay-table infectivity at t while INFECTIOUS.
func (a *Agent) InfectivityAt(t time.Time) float32 {
	if a.state != epi.Infectious || t.Before(a.onset) {
		return 0
	}
	return epi.Infectivity(int(t.Sub(a.onset) / day))
}

// Visits splits the window into equal consecutive slots, one per location,
// in location-list order.
func (a *Agent) Visits(w epi.Window) []epi.Visit {
	n := len(a.cfg.Locations)
	if n == 0 || !w.End.After(w.Start) {
		return nil
	}
	slot := w.Duration() / time.Duration(n)
	out := make([]epi.Visit, 0, n)
	for k, loc := range a.cfg.Locations {
		start := w.Start.Add(time.Duration(k) * slot)
		end := start.Add(slot)
		if k == n-1 {
			end = w.End
		}
		out = append(out, epi.Visit{
			AgentID:        a.cfg.ID,
			LocationID:     loc,
			Start:          start,
			End:            end,
			HealthState:    a.state,
			Infectivity:    a.InfectivityAt(start),
			SymptomFactor:  a.cfg.Profile.SymptomFactor,
			Susceptibility: a.cfg.Profile.Susceptibility,
		})
	}
	return out
}
