// internal/output/convert.go
package output

import (
	"abesim/internal/epi"
	"abesim/internal/risk"
	"abesim/internal/simulation"
	"abesim/pkg/api"
)

// ToAPIExposure converts a domain Exposure to the stable wire schema (v1).
func ToAPIExposure(e epi.Exposure) api.ExposureV1 {
	trace := make([]float32, 0, e.ProximityTrace.Len())
	for _, d := range e.ProximityTrace {
		if d < epi.NoProximity {
			trace = append(trace, d)
		}
	}
	return api.ExposureV1{
		StartTime:                e.StartTime,
		DurationSeconds:          e.Duration.Seconds(),
		ProximityTrace:           trace,
		Infectivity:              e.Infectivity,
		SymptomFactor:            e.SymptomFactor,
		LocationTransmissibility: e.LocationTransmissibility,
		Susceptibility:           e.Susceptibility,
		LocationID:               e.LocationID,
		SourceAgentID:            e.SourceAgentID,
	}
}

func ToAPITransition(t epi.HealthTransition) api.HealthTransitionV1 {
	return api.HealthTransitionV1{Time: t.Time, State: t.State.String()}
}

func ToAPIVisit(v epi.Visit) api.VisitV1 {
	return api.VisitV1{
		AgentID:        v.AgentID,
		LocationID:     v.LocationID,
		Start:          v.Start,
		End:            v.End,
		HealthState:    v.HealthState.String(),
		Infectivity:    v.Infectivity,
		SymptomFactor:  v.SymptomFactor,
		Susceptibility: v.Susceptibility,
	}
}

func ToAPICounts(c map[epi.HealthState]int) api.CountsV1 {
	return api.CountsV1{
		Susceptible: c[epi.Susceptible],
		Exposed:     c[epi.Exposed],
		Infectious:  c[epi.Infectious],
		Recovered:   c[epi.Recovered],
	}
}

// ToAPIStep converts a step report. With detail set, agents that changed
// during the step are listed with their transitions and new exposures.
func ToAPIStep(runID string, r *simulation.StepReport, detail bool) api.StepV1 {
	v := api.StepV1{
		Kind:        api.KindStep,
		RunID:       runID,
		Step:        r.Step,
		WindowStart: r.Window.Start,
		WindowEnd:   r.Window.End,
		Counts:      ToAPICounts(r.Counts()),
	}
	for _, a := range r.Agents {
		v.Exposures += len(a.NewExposures)
		v.Transitions += len(a.Transitions)
		if !detail || (len(a.NewExposures) == 0 && len(a.Transitions) == 0) {
			continue
		}
		s := api.AgentStateV1{ID: a.ID, State: a.State.String()}
		for _, t := range a.Transitions {
			s.Transitions = append(s.Transitions, ToAPITransition(t))
		}
		for _, e := range a.NewExposures {
			s.NewExposures = append(s.NewExposures, ToAPIExposure(e))
		}
		v.Agents = append(v.Agents, s)
	}
	return v
}

// ToAPIRisk keeps the scores of agents that received any dose.
func ToAPIRisk(scores []risk.Score) []api.RiskV1 {
	var out []api.RiskV1
	for _, s := range scores {
		if s.Dose <= 0 {
			continue
		}
		out = append(out, api.RiskV1{AgentID: s.AgentID, State: s.State.String(), Dose: s.Dose, Risk: s.Risk})
	}
	return out
}
