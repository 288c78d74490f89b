// pkg/api/exposure_v1.go
package api

import "time"

// ExposureV1 is the stable JSON/JSONL schema for one exposure.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ExposureV1 struct {
	StartTime time.Time `json:"start_time"`
	// DurationSeconds is the contact duration.
	DurationSeconds float64 `json:"duration_s"`
	// ProximityTrace holds the sampled distances in meters; padding is dropped.
	ProximityTrace           []float32 `json:"proximity_trace"`
	Infectivity              float32   `json:"infectivity"`
	SymptomFactor            float32   `json:"symptom_factor"`
	LocationTransmissibility float32   `json:"location_transmissibility"`
	Susceptibility           float32   `json:"susceptibility"`
	LocationID               int64     `json:"location_id"`
	SourceAgentID            int64     `json:"source_agent_id"`
}

// HealthTransitionV1 is the stable schema for one health state change.
type HealthTransitionV1 struct {
	Time  time.Time `json:"time"`
	State string    `json:"state"` // SUSCEPTIBLE | EXPOSED | INFECTIOUS | RECOVERED
}

// VisitV1 is the stable schema for one location visit.
type VisitV1 struct {
	AgentID        int64     `json:"agent_id"`
	LocationID     int64     `json:"location_id"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	HealthState    string    `json:"health_state"`
	Infectivity    float32   `json:"infectivity"`
	SymptomFactor  float32   `json:"symptom_factor"`
	Susceptibility float32   `json:"susceptibility"`
}
