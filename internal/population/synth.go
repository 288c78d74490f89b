package population

import "abesim/internal/epi"

// Reference scenario ids and contact-graph parameters.
const (
	HouseholdID   int64 = 1000
	BusinessID    int64 = 1001
	DefaultDegree       = 10
	DefaultNodes        = 100
)

// Synthesize builds the reference scenario: one household and one business
// shared by n agents (ids 1..n), the first infectious of which start
// INFECTIOUS and the rest SUSCEPTIBLE.
func Synthesize(n, infectious int) ([]LocationRecord, []AgentRecord) {
	locs := []LocationRecord{
		{UUID: HouseholdID, Type: "household", Degree: DefaultDegree, Nodes: DefaultNodes},
		{UUID: BusinessID, Type: "business", Degree: DefaultDegree, Nodes: DefaultNodes},
	}
	agents := make([]AgentRecord, n)
	for i := range agents {
		state := epi.Susceptible
		if i < infectious {
			state = epi.Infectious
		}
		agents[i] = AgentRecord{
			UUID:               int64(i + 1),
			InitialHealthState: state.String(),
			Locations:          []int64{HouseholdID, BusinessID},
		}
	}
	return locs, agents
}
