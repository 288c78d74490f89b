package history

import (
	"context"
	"testing"
	"time"

	"abesim/internal/epi"
	"abesim/internal/simulation"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	t0 := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	run, err := s.BeginRun(ctx, RunMeta{Seed: 3, Workers: 2, Lambda: 0.5, InitTime: t0, StepSize: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	tr := epi.EmptyTrace()
	tr[0], tr[1] = 1.25, 3.5
	e := epi.Exposure{
		StartTime: t0, Duration: 10 * time.Minute, ProximityTrace: tr,
		Infectivity: 0.9, SymptomFactor: 1, LocationTransmissibility: 0.5, Susceptibility: 1,
		LocationID: 1000, SourceAgentID: 2,
	}
	ht := epi.HealthTransition{Time: t0.Add(10 * time.Minute), State: epi.Exposed}
	err = s.ObserveStep(ctx, &simulation.StepReport{
		Step: 0,
		Agents: []simulation.AgentSnapshot{
			{ID: 1, State: epi.Exposed, NewExposures: []epi.Exposure{e}, Transitions: []epi.HealthTransition{ht}},
			{ID: 2, State: epi.Infectious},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.Exposures(ctx, run, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != e {
		t.Fatalf("exposures %+v\nwant %+v", got, e)
	}
	trs, err := s.Transitions(ctx, run, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(trs) != 1 || trs[0] != ht {
		t.Fatalf("transitions %+v", trs)
	}
	if n, err := s.CountExposures(ctx, run); err != nil || n != 1 {
		t.Errorf("count %d %v", n, err)
	}
}

func TestObserveBeforeBeginRun(t *testing.T) {
	s := newStore(t)
	if err := s.ObserveStep(context.Background(), &simulation.StepReport{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestRunsAreSeparated(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a, _ := s.BeginRun(ctx, RunMeta{})
	_ = s.ObserveStep(ctx, &simulation.StepReport{Agents: []simulation.AgentSnapshot{
		{ID: 1, NewExposures: []epi.Exposure{{StartTime: time.Unix(0, 0).UTC(), ProximityTrace: epi.EmptyTrace()}}},
	}})
	b, _ := s.BeginRun(ctx, RunMeta{})
	if a == b {
		t.Fatal("run ids collide")
	}
	if n, _ := s.CountExposures(ctx, b); n != 0 {
		t.Errorf("new run sees %d exposures", n)
	}
}
