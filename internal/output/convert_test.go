package output

import (
	"strings"
	"testing"
	"time"

	"abesim/internal/epi"
	"abesim/internal/risk"
	"abesim/internal/simulation"
	"abesim/pkg/api"
)

var t0 = time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)

func TestToAPIExposureDropsPadding(t *testing.T) {
	tr := epi.EmptyTrace()
	tr[0], tr[1], tr[2] = 0.5, 1, 2
	v := ToAPIExposure(epi.Exposure{StartTime: t0, Duration: 15 * time.Minute, ProximityTrace: tr, LocationID: 7, SourceAgentID: 3})
	if len(v.ProximityTrace) != 3 || v.ProximityTrace[2] != 2 {
		t.Fatalf("trace %v", v.ProximityTrace)
	}
	if v.DurationSeconds != 900 || v.LocationID != 7 || v.SourceAgentID != 3 {
		t.Errorf("got %+v", v)
	}
}

func TestToAPIStepDetail(t *testing.T) {
	r := &simulation.StepReport{
		Step:   4,
		Window: epi.Window{Start: t0, End: t0.Add(time.Hour)},
		Agents: []simulation.AgentSnapshot{
			{ID: 1, State: epi.Exposed,
				Transitions:  []epi.HealthTransition{{Time: t0, State: epi.Exposed}},
				NewExposures: []epi.Exposure{{StartTime: t0, ProximityTrace: epi.EmptyTrace()}}},
			{ID: 2, State: epi.Infectious},
			{ID: 3, State: epi.Susceptible},
		},
	}
	s := ToAPIStep("run", r, true)
	if s.Kind != api.KindStep || s.Step != 4 || s.RunID != "run" {
		t.Fatalf("header %+v", s)
	}
	want := api.CountsV1{Susceptible: 1, Exposed: 1, Infectious: 1}
	if s.Counts != want {
		t.Errorf("counts %+v", s.Counts)
	}
	if s.Exposures != 1 || s.Transitions != 1 {
		t.Errorf("totals %d %d", s.Exposures, s.Transitions)
	}
	if len(s.Agents) != 1 || s.Agents[0].ID != 1 || s.Agents[0].State != "EXPOSED" {
		t.Errorf("agents %+v", s.Agents)
	}
	if got := ToAPIStep("", r, false); got.Agents != nil {
		t.Errorf("detail off still lists agents")
	}
}

func TestToAPIRiskSkipsZeroDose(t *testing.T) {
	got := ToAPIRisk([]risk.Score{{AgentID: 1}, {AgentID: 2, Dose: 0.5, Risk: 0.2, State: epi.Exposed}})
	if len(got) != 1 || got[0].AgentID != 2 || got[0].State != "EXPOSED" {
		t.Fatalf("got %+v", got)
	}
}

func TestStepRowMatchesHeader(t *testing.T) {
	row := FormatStepRowTSV(api.StepV1{Step: 1, WindowStart: t0, WindowEnd: t0.Add(time.Hour)})
	if got, want := strings.Count(row, "\t"), strings.Count(StepHeader, "\t"); got != want {
		t.Fatalf("row has %d tabs, header %d", got, want)
	}
	if !strings.HasPrefix(row, "1\t2020-03-01T00:00:00Z\t2020-03-01T01:00:00Z") {
		t.Errorf("row %q", row)
	}
}

func TestWriteSummaryText(t *testing.T) {
	var b strings.Builder
	if err := WriteSummaryText(&b, api.SummaryV1{Agents: 3, Counts: api.CountsV1{Recovered: 2}}); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	if strings.Contains(out, "run_id") {
		t.Errorf("empty run id printed")
	}
	for _, want := range []string{"# agents: 3\n", "# recovered: 2\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}
