package location

import (
	"sort"

	"abesim/internal/epi"
)

// ProcessVisits pairs the visitors of one step and returns one delivery per
// side of every formed pair. The result does not depend on the order of
// visits.
func (l *Location) ProcessVisits(step int, visits []epi.Visit) ([]epi.Delivery, error) {
	participants, err := l.participants(visits)
	if err != nil {
		return nil, err
	}
	var out []epi.Delivery
	for _, p := range l.pairs(len(participants)) {
		a, b := participants[p[0]], participants[p[1]]
		start, d, ok := epi.Overlap(a, b)
		if !ok {
			continue
		}
		// Exposure i is received by side i and carries the partner's factors.
		ea, eb := l.gen.GeneratePair(start, d,
			[2]float32{b.Infectivity, a.Infectivity},
			[2]float32{b.SymptomFactor, a.SymptomFactor},
		)
		out = append(out,
			epi.Delivery{Step: step, AgentID: a.AgentID, Exposure: l.finish(ea, a, b)},
			epi.Delivery{Step: step, AgentID: b.AgentID, Exposure: l.finish(eb, b, a)},
		)
	}
	return out, nil
}

func (l *Location) finish(e epi.Exposure, self, source epi.Visit) epi.Exposure {
	e.LocationTransmissibility = l.cfg.Transmissibility
	e.Susceptibility = self.Susceptibility
	e.LocationID = l.cfg.ID
	e.SourceAgentID = source.AgentID
	return e
}

// participants sorts visits by agent, merges repeated visits of one agent
// into its widest window and applies the node bound.
func (l *Location) participants(visits []epi.Visit) ([]epi.Visit, error) {
	vs := make([]epi.Visit, 0, len(visits))
	for _, v := range visits {
		if v.LocationID != l.cfg.ID {
			return nil, epi.Errorf(epi.ErrInternal, "location %d received visit for location %d", l.cfg.ID, v.LocationID)
		}
		if !v.End.After(v.Start) {
			continue
		}
		vs = append(vs, v)
	}
	sort.SliceStable(vs, func(i, j int) bool {
		if vs[i].AgentID != vs[j].AgentID {
			return vs[i].AgentID < vs[j].AgentID
		}
		return vs[i].Start.Before(vs[j].Start)
	})

	merged := vs[:0]
	for _, v := range vs {
		if n := len(merged); n > 0 && merged[n-1].AgentID == v.AgentID {
			if v.End.After(merged[n-1].End) {
				merged[n-1].End = v.End
			}
			continue
		}
		merged = append(merged, v)
	}

	if l.cfg.Nodes > 0 && len(merged) > l.cfg.Nodes {
		l.rng.Shuffle(len(merged), func(i, j int) { merged[i], merged[j] = merged[j], merged[i] })
		merged = merged[:l.cfg.Nodes]
		sort.Slice(merged, func(i, j int) bool { return merged[i].AgentID < merged[j].AgentID })
	}
	return merged, nil
}

// pairs builds a circulant contact graph over n participants: participant i
// is linked to i+1 .. i+ceil(degree/2) (mod n). No pair repeats and nobody
// exceeds degree partners.
func (l *Location) pairs(n int) [][2]int {
	if n < 2 || l.cfg.Degree == 0 {
		return nil
	}
	partners := make([]int, n)
	seen := make(map[[2]int]struct{})
	var out [][2]int
	for k := 1; k <= (l.cfg.Degree+1)/2 && k < n; k++ {
		for i := 0; i < n; i++ {
			j := (i + k) % n
			key := [2]int{min(i, j), max(i, j)}
			if _, dup := seen[key]; dup {
				continue
			}
			if partners[i] >= l.cfg.Degree || partners[j] >= l.cfg.Degree {
				continue
			}
			seen[key] = struct{}{}
			partners[i]++
			partners[j]++
			out = append(out, key)
		}
	}
	return out
}
