// pkg/api/run_v1.go
package api

import "time"

// Record kinds for JSONL streams.
const (
	KindStep    = "step"
	KindSummary = "summary"
)

// CountsV1 tallies agents per health state.
type CountsV1 struct {
	Susceptible int `json:"susceptible"`
	Exposed     int `json:"exposed"`
	Infectious  int `json:"infectious"`
	Recovered   int `json:"recovered"`
}

// AgentStateV1 is one agent whose state or history changed during a step.
type AgentStateV1 struct {
	ID           int64                `json:"id"`
	State        string               `json:"state"`
	Transitions  []HealthTransitionV1 `json:"transitions,omitempty"`
	NewExposures []ExposureV1         `json:"new_exposures,omitempty"`
}

// StepV1 is the stable schema for one committed step.
type StepV1 struct {
	Kind        string         `json:"kind"`
	RunID       string         `json:"run_id,omitempty"`
	Step        int            `json:"step"`
	WindowStart time.Time      `json:"window_start"`
	WindowEnd   time.Time      `json:"window_end"`
	Counts      CountsV1       `json:"counts"`
	Exposures   int            `json:"exposures"`
	Transitions int            `json:"transitions"`
	Agents      []AgentStateV1 `json:"agents,omitempty"`
}

// RiskV1 is one agent's risk estimate at the end of a run.
type RiskV1 struct {
	AgentID int64   `json:"agent_id"`
	State   string  `json:"state"`
	Dose    float64 `json:"dose"`
	Risk    float64 `json:"risk"`
}

// SummaryV1 closes a run.
type SummaryV1 struct {
	Kind            string    `json:"kind"`
	RunID           string    `json:"run_id,omitempty"`
	Seed            uint64    `json:"seed"`
	Workers         int       `json:"workers"`
	Agents          int       `json:"agents"`
	Locations       int       `json:"locations"`
	Steps           int       `json:"steps"`
	InitTime        time.Time `json:"init_time"`
	EndTime         time.Time `json:"end_time"`
	StepSizeSeconds float64   `json:"step_size_s"`
	Lambda          float64   `json:"lambda"`
	Counts          CountsV1  `json:"counts"`
	Exposures       int       `json:"exposures"`
	Transitions     int       `json:"transitions"`
	InvalidInputs   int64     `json:"invalid_inputs,omitempty"`
	Risk            []RiskV1  `json:"risk,omitempty"`
}

// RunV1 is the single-document JSON output: the summary plus every step.
type RunV1 struct {
	Summary SummaryV1 `json:"summary"`
	Steps   []StepV1  `json:"steps"`
}
