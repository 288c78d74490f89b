package epi

import (
	"errors"
	"testing"
	"time"
)

func TestInfectivityTableDecaysToZero(t *testing.T) {
	tbl := InfectivityTable()
	if tbl[MaxDaysAfterInfection] != 0 {
		t.Fatalf("day %d infectivity = %v, want 0", MaxDaysAfterInfection, tbl[MaxDaysAfterInfection])
	}
	// Peak is on day 1; strictly decreasing afterwards.
	for d := 2; d <= MaxDaysAfterInfection; d++ {
		if tbl[d] >= tbl[d-1] {
			t.Errorf("infectivity not decreasing at day %d: %v >= %v", d, tbl[d], tbl[d-1])
		}
	}
	if Infectivity(-1) != 0 || Infectivity(MaxDaysAfterInfection+1) != 0 {
		t.Error("out-of-range days must be zero")
	}
}

func TestHealthStateText(t *testing.T) {
	for _, s := range AllHealthStates() {
		b, err := s.MarshalText()
		if err != nil {
			t.Fatalf("marshal %v: %v", s, err)
		}
		var got HealthState
		if err := got.UnmarshalText(b); err != nil || got != s {
			t.Errorf("round trip %v -> %q -> %v (%v)", s, b, got, err)
		}
	}
	if _, err := ParseHealthState("zombie"); !errors.Is(err, ErrConfig) {
		t.Errorf("want ErrConfig, got %v", err)
	}
	if _, err := HealthState(9).MarshalText(); err == nil {
		t.Error("expected error for undefined state")
	}
}

func TestCanTransitionIsMonotonic(t *testing.T) {
	cases := []struct {
		from, to HealthState
		want     bool
	}{
		{Susceptible, Exposed, true},
		{Exposed, Infectious, true},
		{Infectious, Recovered, true},
		{Susceptible, Infectious, false},
		{Recovered, Susceptible, false},
		{Exposed, Susceptible, false},
		{Recovered, Recovered + 1, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%v,%v)=%v want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestTraceLenAndDuration(t *testing.T) {
	tr := EmptyTrace()
	if tr.Len() != 0 {
		t.Fatalf("empty trace len %d", tr.Len())
	}
	tr[0], tr[1], tr[2] = 0.5, 1, 2
	if tr.Len() != 3 {
		t.Fatalf("len %d want 3", tr.Len())
	}
	if d := tr.Duration(ProximityTraceInterval); d != 15*time.Minute {
		t.Errorf("duration %v want 15m", d)
	}
}

func TestOverlap(t *testing.T) {
	t0 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	a := Visit{Start: t0, End: t0.Add(2 * time.Hour)}
	b := Visit{Start: t0.Add(time.Hour), End: t0.Add(3 * time.Hour)}
	start, d, ok := Overlap(a, b)
	if !ok || !start.Equal(t0.Add(time.Hour)) || d != time.Hour {
		t.Errorf("overlap = %v %v %v", start, d, ok)
	}
	c := Visit{Start: t0.Add(2 * time.Hour), End: t0.Add(4 * time.Hour)}
	if _, _, ok := Overlap(a, c); ok {
		t.Error("touching windows must not overlap")
	}
}

func TestExposureLess(t *testing.T) {
	t0 := time.Unix(0, 0)
	a := Exposure{StartTime: t0, LocationID: 1, SourceAgentID: 5}
	b := Exposure{StartTime: t0, LocationID: 1, SourceAgentID: 6}
	c := Exposure{StartTime: t0, LocationID: 2, SourceAgentID: 1}
	if !a.Less(b) || !b.Less(c) || c.Less(a) {
		t.Error("unexpected ordering")
	}
}

func TestErrorKinds(t *testing.T) {
	err := Errorf(ErrInternal, "step %d", 3)
	if !errors.Is(err, ErrInternal) || errors.Is(err, ErrConfig) {
		t.Fatalf("kind mismatch: %v", err)
	}
	if err.Error() != "internal error: step 3" {
		t.Errorf("message %q", err.Error())
	}
}
