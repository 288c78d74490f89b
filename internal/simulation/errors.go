package simulation

import (
	"errors"
	"fmt"
)

// ErrHalted is returned by Step after an earlier step failed.
var ErrHalted = errors.New("simulation halted")

// Phase names a stage of one step.
type Phase int

const (
	PhaseVisit Phase = iota
	PhasePairing
	PhaseTransition
	PhaseCommit
	PhaseObserve
)

var phaseNames = [...]string{
	PhaseVisit:      "visit",
	PhasePairing:    "pairing",
	PhaseTransition: "transition",
	PhaseCommit:     "commit",
	PhaseObserve:    "observe",
}

func (p Phase) String() string {
	if p < PhaseVisit || p > PhaseObserve {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// PhaseError reports the first phase that failed and the step it failed in.
type PhaseError struct {
	Step  int
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("step %d: %s phase: %v", e.Step, e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }
