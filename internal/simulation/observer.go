package simulation

import (
	"context"

	"abesim/internal/epi"
)

// AgentSnapshot is one agent's committed state after a step. History is the
// agent's full exposure history and must be treated as read-only.
type AgentSnapshot struct {
	ID           int64
	State        epi.HealthState
	Transitions  []epi.HealthTransition // applied this step
	NewExposures []epi.Exposure         // received this step
	History      []epi.Exposure
}

// StepReport is handed to observers after each committed step.
type StepReport struct {
	Step   int
	Window epi.Window
	Agents []AgentSnapshot
}

// Observer consumes step reports, e.g. a risk scorer or a history store. The
// driver never reads anything back from an observer.
type Observer interface {
	ObserveStep(ctx context.Context, r *StepReport) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, r *StepReport) error

func (f ObserverFunc) ObserveStep(ctx context.Context, r *StepReport) error { return f(ctx, r) }

// Counts tallies agents per health state.
func (r *StepReport) Counts() map[epi.HealthState]int {
	out := make(map[epi.HealthState]int, 4)
	for _, a := range r.Agents {
		out[a.State]++
	}
	return out
}
