package agent

import (
	"sort"
	"time"

	"abesim/internal/epi"
)

// Update is a planned, not yet applied, change to one agent.
type Update struct {
	AgentID     int64
	From        epi.HealthState
	State       epi.HealthState
	ExposedAt   time.Time
	Onset       time.Time
	Transitions []epi.HealthTransition
	Exposures   []epi.Exposure
}

// Plan computes the transitions for window w given the exposures delivered
// this step. Clock-driven progression due before w.End is applied first;
// only an agent that is then still SUSCEPTIBLE consults the transmission
// model.
func (a *Agent) Plan(w epi.Window, exposures []epi.Exposure) (Update, error) {
	u := Update{
		AgentID:   a.cfg.ID,
		From:      a.state,
		State:     a.state,
		ExposedAt: a.exposedAt,
		Onset:     a.onset,
	}
	if len(exposures) > 0 {
		u.Exposures = append([]epi.Exposure(nil), exposures...)
		sort.SliceStable(u.Exposures, func(i, j int) bool { return u.Exposures[i].Less(u.Exposures[j]) })
	}

	a.progress(&u, w.End)

	if u.State == epi.Susceptible && len(u.Exposures) > 0 {
		ht := a.model.InfectionOutcome(u.Exposures)
		switch ht.State {
		case epi.Susceptible:
		case epi.Exposed:
			u.State = epi.Exposed
			u.ExposedAt = ht.Time
			u.Transitions = append(u.Transitions, ht)
		default:
			return Update{}, epi.Errorf(epi.ErrInternal, "agent %d: transmission model returned %v", a.cfg.ID, ht.State)
		}
	}
	return u, nil
}

// progress applies the disease clock to u for everything due before end.
func (a *Agent) progress(u *Update, end time.Time) {
	for {
		switch u.State {
		case epi.Exposed:
			at := u.ExposedAt.Add(a.cfg.Disease.Incubation)
			if !at.Before(end) {
				return
			}
			u.State, u.Onset = epi.Infectious, at
			u.Transitions = append(u.Transitions, epi.HealthTransition{Time: at, State: epi.Infectious})
		case epi.Infectious:
			at := u.Onset.Add(a.cfg.Disease.Recovery)
			if !at.Before(end) {
				return
			}
			u.State = epi.Recovered
			u.Transitions = append(u.Transitions, epi.HealthTransition{Time: at, State: epi.Recovered})
		default:
			return
		}
	}
}

// Commit applies u. It fails if u was planned against a different state or
// contains a non-monotonic transition.
func (a *Agent) Commit(u Update) error {
	if u.AgentID != a.cfg.ID {
		return epi.Errorf(epi.ErrInternal, "agent %d: update for agent %d", a.cfg.ID, u.AgentID)
	}
	if u.From != a.state {
		return epi.Errorf(epi.ErrInternal, "agent %d: stale update planned from %v, now %v", a.cfg.ID, u.From, a.state)
	}
	s := a.state
	for _, t := range u.Transitions {
		if !epi.CanTransition(s, t.State) {
			return epi.Errorf(epi.ErrInternal, "agent %d: illegal transition %v -> %v", a.cfg.ID, s, t.State)
		}
		s = t.State
	}
	if s != u.State {
		return epi.Errorf(epi.ErrInternal, "agent %d: update ends in %v but transitions end in %v", a.cfg.ID, u.State, s)
	}
	a.state = u.State
	a.exposedAt = u.ExposedAt
	a.onset = u.Onset
	a.transitions = append(a.transitions, u.Transitions...)
	a.history = append(a.history, u.Exposures...)
	return nil
}
