package risk

import (
	"context"
	"math"
	"testing"
	"time"

	"abesim/internal/epi"
	"abesim/internal/simulation"
	"abesim/internal/transmission"
)

func closeContact(src int64) epi.Exposure {
	tr := epi.EmptyTrace()
	tr[0], tr[1] = 1, 1
	return epi.Exposure{
		StartTime: time.Unix(0, 0), Duration: 10 * time.Minute, ProximityTrace: tr,
		Infectivity: 1, SymptomFactor: 1, LocationTransmissibility: 1, Susceptibility: 1,
		SourceAgentID: src,
	}
}

func TestDoseScorerAccumulatesAcrossSteps(t *testing.T) {
	s, err := NewDoseScorer(0.01, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	e := closeContact(2)
	for step := 0; step < 2; step++ {
		err := s.ObserveStep(context.Background(), &simulation.StepReport{
			Step: step,
			Agents: []simulation.AgentSnapshot{
				{ID: 1, State: epi.Susceptible, NewExposures: []epi.Exposure{e}},
				{ID: 2, State: epi.Infectious},
			},
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	one, _ := transmission.Dose(e, transmission.DefaultRisk, epi.ProximityTraceInterval)
	scores := s.Scores()
	if len(scores) != 2 || scores[0].AgentID != 1 || scores[1].AgentID != 2 {
		t.Fatalf("scores %+v", scores)
	}
	if math.Abs(scores[0].Dose-2*one) > 1e-9 {
		t.Errorf("dose %v want %v", scores[0].Dose, 2*one)
	}
	if want := 1 - math.Exp(-0.01*2*one); math.Abs(scores[0].Risk-want) > 1e-12 {
		t.Errorf("risk %v want %v", scores[0].Risk, want)
	}
	if scores[1].Risk != 0 || scores[1].State != epi.Infectious {
		t.Errorf("unexposed agent %+v", scores[1])
	}
}

func TestDoseScorerSkipsInvalid(t *testing.T) {
	s, _ := NewDoseScorer(1, nil, 0)
	bad := closeContact(2)
	bad.Duration = -time.Minute
	_ = s.ObserveStep(context.Background(), &simulation.StepReport{
		Agents: []simulation.AgentSnapshot{{ID: 1, NewExposures: []epi.Exposure{bad}}},
	})
	if s.Invalid() != 1 || s.Scores()[0].Dose != 0 {
		t.Errorf("invalid=%d scores=%+v", s.Invalid(), s.Scores())
	}
	if _, err := NewDoseScorer(0, nil, 0); err == nil {
		t.Error("expected error for zero lambda")
	}
}
