package epi

import "time"

// ProximityTrace holds per-interval distances (meters) between two hosts.
// Unused trailing slots hold NoProximity.
type ProximityTrace [MaxTraceLength]float32

// EmptyTrace returns a trace with every slot unused.
func EmptyTrace() ProximityTrace {
	var t ProximityTrace
	for i := range t {
		t[i] = NoProximity
	}
	return t
}

// Len counts the used slots.
func (t ProximityTrace) Len() int {
	n := 0
	for _, d := range t {
		if d < NoProximity {
			n++
		}
	}
	return n
}

// Duration is the contact time covered by the trace.
func (t ProximityTrace) Duration(interval time.Duration) time.Duration {
	return time.Duration(t.Len()) * interval
}

// Exposure is one contact event as seen by the exposed agent.
type Exposure struct {
	StartTime      time.Time
	Duration       time.Duration
	ProximityTrace ProximityTrace

	Infectivity              float32
	SymptomFactor            float32
	LocationTransmissibility float32
	Susceptibility           float32

	LocationID    int64
	SourceAgentID int64
}

// End is StartTime + Duration.
func (e Exposure) End() time.Time { return e.StartTime.Add(e.Duration) }

// Less orders exposures by start, location and source so aggregation does
// not depend on delivery order.
func (e Exposure) Less(o Exposure) bool {
	if !e.StartTime.Equal(o.StartTime) {
		return e.StartTime.Before(o.StartTime)
	}
	if e.LocationID != o.LocationID {
		return e.LocationID < o.LocationID
	}
	return e.SourceAgentID < o.SourceAgentID
}

// Delivery routes an Exposure produced at a Location back to the agent it
// belongs to. Step stamps the step that produced it.
type Delivery struct {
	Step     int
	AgentID  int64
	Exposure Exposure
}
