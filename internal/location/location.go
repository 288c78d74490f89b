// Package location pairs co-present visitors and turns each pair into two
// exposures.
package location

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"abesim/internal/epi"
	"abesim/internal/exposure"
)

// Type classifies a location.
type Type int

const (
	Household Type = iota
	Business
	School
	Other
)

var typeNames = [...]string{
	Household: "household",
	Business:  "business",
	School:    "school",
	Other:     "other",
}

func (t Type) String() string {
	if t < Household || t > Other {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType accepts the lower-case names (case-insensitive).
func ParseType(v string) (Type, error) {
	for i, n := range typeNames {
		if strings.EqualFold(v, n) {
			return Type(i), nil
		}
	}
	return 0, epi.Errorf(epi.ErrConfig, "unknown location type %q", v)
}

// Config describes one location.
type Config struct {
	ID   int64
	Type Type
	// Degree bounds the number of partners per visitor per step.
	Degree int
	// Nodes bounds the number of visitors considered per step (0 = all).
	Nodes            int
	Transmissibility float32
}

// Validate checks the contact-graph parameters.
func (c Config) Validate() error {
	switch {
	case c.Degree < 0:
		return epi.Errorf(epi.ErrConfig, "location %d: degree must be >= 0, got %d", c.ID, c.Degree)
	case c.Nodes < 0:
		return epi.Errorf(epi.ErrConfig, "location %d: nodes must be >= 0, got %d", c.ID, c.Nodes)
	case math.IsNaN(float64(c.Transmissibility)) || c.Transmissibility < 0:
		return epi.Errorf(epi.ErrConfig, "location %d: transmissibility must be >= 0, got %v", c.ID, c.Transmissibility)
	}
	return nil
}

// Location owns its exposure generator and a random stream used for
// participant selection. It is not safe for concurrent use.
type Location struct {
	cfg Config
	gen exposure.Generator
	rng *rand.Rand
}

// New validates cfg. rng may be nil when Nodes is 0.
func New(cfg Config, gen exposure.Generator, rng *rand.Rand) (*Location, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if gen == nil {
		return nil, epi.Errorf(epi.ErrConfig, "location %d: nil exposure generator", cfg.ID)
	}
	if rng == nil && cfg.Nodes > 0 {
		return nil, epi.Errorf(epi.ErrConfig, "location %d: nil random source", cfg.ID)
	}
	return &Location{cfg: cfg, gen: gen, rng: rng}, nil
}

func (l *Location) ID() int64      { return l.cfg.ID }
func (l *Location) Config() Config { return l.cfg }
