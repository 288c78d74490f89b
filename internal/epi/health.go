package epi

import (
	"fmt"
	"strings"
	"time"
)

// HealthState is an agent's disease-progression stage.
type HealthState int

const (
	Susceptible HealthState = iota
	Exposed
	Infectious
	Recovered
)

var healthStateNames = [...]string{
	Susceptible: "SUSCEPTIBLE",
	Exposed:     "EXPOSED",
	Infectious:  "INFECTIOUS",
	Recovered:   "RECOVERED",
}

// AllHealthStates lists the states in progression order.
func AllHealthStates() []HealthState {
	return []HealthState{Susceptible, Exposed, Infectious, Recovered}
}

// Valid reports whether s is one of the defined states.
func (s HealthState) Valid() bool { return s >= Susceptible && s <= Recovered }

func (s HealthState) String() string {
	if !s.Valid() {
		return fmt.Sprintf("HealthState(%d)", int(s))
	}
	return healthStateNames[s]
}

// ParseHealthState accepts the upper-case names (case-insensitive).
func ParseHealthState(v string) (HealthState, error) {
	for i, n := range healthStateNames {
		if strings.EqualFold(v, n) {
			return HealthState(i), nil
		}
	}
	return 0, Errorf(ErrConfig, "unknown health state %q", v)
}

func (s HealthState) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, Errorf(ErrInvalidInput, "invalid health state %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *HealthState) UnmarshalText(b []byte) error {
	v, err := ParseHealthState(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// CanTransition reports whether from -> to moves forward along
// SUSCEPTIBLE -> EXPOSED -> INFECTIOUS -> RECOVERED by exactly one stage.
func CanTransition(from, to HealthState) bool {
	return from.Valid() && to.Valid() && to == from+1
}

// HealthTransition is a target state and the time it takes effect.
type HealthTransition struct {
	Time  time.Time
	State HealthState
}
