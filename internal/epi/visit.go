package epi

import "time"

// Visit is a request by an agent to be present at a location during
// [Start, End). The factors describe the visitor at Start.
type Visit struct {
	AgentID    int64
	LocationID int64
	Start      time.Time
	End        time.Time

	HealthState    HealthState
	Infectivity    float32
	SymptomFactor  float32
	Susceptibility float32
}

// Overlap returns the shared part of two visit windows. ok is false when the
// windows do not intersect.
func Overlap(a, b Visit) (start time.Time, d time.Duration, ok bool) {
	start = a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	if !end.After(start) {
		return time.Time{}, 0, false
	}
	return start, end.Sub(start), true
}

// Window is a half-open simulated time interval covered by one step.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Duration() time.Duration { return w.End.Sub(w.Start) }
