package population

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"abesim/internal/agent"
	"abesim/internal/epi"
)

func params() Params {
	return Params{
		Seed:     1,
		Lambda:   0.1,
		Disease:  agent.DefaultDisease(),
		InitTime: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestReadRecords(t *testing.T) {
	locs, err := ReadLocations(strings.NewReader(`
# reference locations
{"uuid":1000,"type":"household","degree":10,"nodes":100}
{"uuid":1001,"type":"business","degree":4,"nodes":20,"transmissibility":0.5}
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(locs) != 2 || locs[1].Degree != 4 || *locs[1].Transmissibility != 0.5 {
		t.Fatalf("locations %+v", locs)
	}
	agents, err := ReadAgents(strings.NewReader(`{"uuid":1,"initial_health_state":"INFECTIOUS","locations":[1000,1001]}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(agents) != 1 || agents[0].InitialHealthState != "INFECTIOUS" || len(agents[0].Locations) != 2 {
		t.Fatalf("agents %+v", agents)
	}
}

func TestReadRejectsUnknownFields(t *testing.T) {
	_, err := ReadAgents(strings.NewReader(`{"uuid":1,"colour":"red"}`))
	if err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Fatalf("want line-numbered error, got %v", err)
	}
}

func TestSynthesizeRoundTrip(t *testing.T) {
	locs, agents := Synthesize(10, 2)
	var lb, ab bytes.Buffer
	if err := WriteJSONL(&lb, locs); err != nil {
		t.Fatal(err)
	}
	if err := WriteJSONL(&ab, agents); err != nil {
		t.Fatal(err)
	}
	gotLocs, err := ReadLocations(&lb)
	if err != nil || len(gotLocs) != 2 {
		t.Fatalf("locations %v %v", gotLocs, err)
	}
	gotAgents, err := ReadAgents(&ab)
	if err != nil || len(gotAgents) != 10 {
		t.Fatalf("agents %v %v", gotAgents, err)
	}
	if gotAgents[1].InitialHealthState != "INFECTIOUS" || gotAgents[2].InitialHealthState != "SUSCEPTIBLE" {
		t.Errorf("initial states %+v", gotAgents[:3])
	}
}

func TestBuild(t *testing.T) {
	locs, recs := Synthesize(5, 1)
	agents, locations, err := Build(params(), locs, recs)
	if err != nil {
		t.Fatal(err)
	}
	if len(agents) != 5 || len(locations) != 2 {
		t.Fatalf("built %d agents %d locations", len(agents), len(locations))
	}
	if agents[0].State() != epi.Infectious || agents[1].State() != epi.Susceptible {
		t.Errorf("states %v %v", agents[0].State(), agents[1].State())
	}
	if p := agents[1].Profile(); p.Susceptibility != 1 || p.SymptomFactor != 1 {
		t.Errorf("default profile %+v", p)
	}
	if c := locations[0].Config(); c.Transmissibility != 1 || c.Degree != DefaultDegree {
		t.Errorf("location config %+v", c)
	}
}

func TestBuildConfigErrors(t *testing.T) {
	locs, recs := Synthesize(2, 1)

	p := params()
	p.TraceDistribution = [][]float32{}
	if _, _, err := Build(p, locs, recs); !errors.Is(err, epi.ErrConfig) {
		t.Errorf("empty distribution: want ErrConfig, got %v", err)
	}

	p = params()
	p.Lambda = 0
	if _, _, err := Build(p, locs, recs); !errors.Is(err, epi.ErrConfig) {
		t.Errorf("zero lambda: want ErrConfig, got %v", err)
	}

	bad := append([]AgentRecord(nil), recs...)
	bad[0].InitialHealthState = "undead"
	if _, _, err := Build(params(), locs, bad); !errors.Is(err, epi.ErrConfig) {
		t.Errorf("bad state: want ErrConfig, got %v", err)
	}

	badLoc := append([]LocationRecord(nil), locs...)
	badLoc[0].Type = "moon"
	if _, _, err := Build(params(), badLoc, recs); !errors.Is(err, epi.ErrConfig) {
		t.Errorf("bad type: want ErrConfig, got %v", err)
	}
}
