package simulation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"abesim/internal/agent"
	"abesim/internal/epi"
	"abesim/internal/location"
	"abesim/internal/pipeline"
)

// Simulation is the driver contract shared by serial and parallel modes.
// There is no run-to-completion call: the caller decides how many steps to
// run.
type Simulation interface {
	Step(ctx context.Context, steps int, stepSize time.Duration) error
	Time() time.Time
	StepCount() int
	Agents() []*agent.Agent
	Locations() []*location.Location
	AddObserver(o Observer)
}

// Config holds driver-level settings.
type Config struct {
	InitTime time.Time
	// Workers selects parallel mode when > 1 (New only).
	Workers int
}

// Driver implements Simulation. Agents and locations are split into
// contiguous partitions, one per worker.
type Driver struct {
	workers   int
	agents    []*agent.Agent
	locations []*location.Location
	agentIdx  map[int64]int
	locIdx    map[int64]int
	observers []Observer

	now   time.Time
	steps int
	err   error

	// stamp holds step<<8 | phase of the phase currently allowed to run.
	stamp atomic.Uint64

	visits     *pipeline.Mailbox[epi.Visit]
	deliveries *pipeline.Mailbox[epi.Delivery]
	plans      []agent.Update
}

var _ Simulation = (*Driver)(nil)

// New returns a parallel driver when cfg.Workers > 1 and a serial one
// otherwise.
func New(cfg Config, agents []*agent.Agent, locations []*location.Location) (*Driver, error) {
	if cfg.Workers > 1 {
		return NewParallel(cfg, agents, locations, cfg.Workers)
	}
	if cfg.Workers < 0 {
		return nil, epi.Errorf(epi.ErrConfig, "worker count must be >= 0, got %d", cfg.Workers)
	}
	return NewSerial(cfg, agents, locations)
}

// NewSerial runs every phase on the calling goroutine.
func NewSerial(cfg Config, agents []*agent.Agent, locations []*location.Location) (*Driver, error) {
	return newDriver(cfg, agents, locations, 1)
}

// NewParallel partitions the population across workers goroutines.
func NewParallel(cfg Config, agents []*agent.Agent, locations []*location.Location, workers int) (*Driver, error) {
	if workers < 1 {
		return nil, epi.Errorf(epi.ErrConfig, "worker count must be >= 1, got %d", workers)
	}
	return newDriver(cfg, agents, locations, workers)
}

func newDriver(cfg Config, agents []*agent.Agent, locations []*location.Location, workers int) (*Driver, error) {
	d := &Driver{
		workers:   workers,
		agents:    append([]*agent.Agent(nil), agents...),
		locations: append([]*location.Location(nil), locations...),
		agentIdx:  make(map[int64]int, len(agents)),
		locIdx:    make(map[int64]int, len(locations)),
		now:       cfg.InitTime,
	}
	sort.Slice(d.agents, func(i, j int) bool { return d.agents[i].ID() < d.agents[j].ID() })
	sort.Slice(d.locations, func(i, j int) bool { return d.locations[i].ID() < d.locations[j].ID() })

	for i, l := range d.locations {
		if l == nil {
			return nil, epi.Errorf(epi.ErrConfig, "nil location")
		}
		if _, dup := d.locIdx[l.ID()]; dup {
			return nil, epi.Errorf(epi.ErrConfig, "duplicate location id %d", l.ID())
		}
		d.locIdx[l.ID()] = i
	}
	for i, a := range d.agents {
		if a == nil {
			return nil, epi.Errorf(epi.ErrConfig, "nil agent")
		}
		if _, dup := d.agentIdx[a.ID()]; dup {
			return nil, epi.Errorf(epi.ErrConfig, "duplicate agent id %d", a.ID())
		}
		d.agentIdx[a.ID()] = i
		for _, loc := range a.Locations() {
			if _, ok := d.locIdx[loc]; !ok {
				return nil, epi.Errorf(epi.ErrConfig, "agent %d references unknown location %d", a.ID(), loc)
			}
		}
	}
	d.visits = pipeline.NewMailbox[epi.Visit](workers)
	d.deliveries = pipeline.NewMailbox[epi.Delivery](workers)
	d.plans = make([]agent.Update, len(d.agents))
	return d, nil
}

func (d *Driver) Time() time.Time                 { return d.now }
func (d *Driver) StepCount() int                  { return d.steps }
func (d *Driver) Workers() int                    { return d.workers }
func (d *Driver) Agents() []*agent.Agent          { return d.agents }
func (d *Driver) Locations() []*location.Location { return d.locations }

// AddObserver registers o; observers run in registration order.
func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

// Step runs exactly steps steps of stepSize each. A non-positive step size
// or a negative count is a configuration error. After any failure the driver
// is halted.
func (d *Driver) Step(ctx context.Context, steps int, stepSize time.Duration) error {
	if d.err != nil {
		return fmt.Errorf("%w: %v", ErrHalted, d.err)
	}
	if stepSize <= 0 {
		return epi.Errorf(epi.ErrConfig, "step size must be > 0, got %v", stepSize)
	}
	if steps < 0 {
		return epi.Errorf(epi.ErrConfig, "step count must be >= 0, got %d", steps)
	}
	for i := 0; i < steps; i++ {
		if err := d.step(ctx, stepSize); err != nil {
			d.err = err
			return err
		}
	}
	return nil
}

func (d *Driver) step(ctx context.Context, stepSize time.Duration) error {
	step := d.steps
	w := epi.Window{Start: d.now, End: d.now.Add(stepSize)}

	if err := d.run(ctx, step, PhaseVisit, func(p int) error { return d.visitPhase(step, p, w) }); err != nil {
		return err
	}
	if err := d.run(ctx, step, PhasePairing, func(p int) error { return d.pairingPhase(step, p) }); err != nil {
		return err
	}
	if err := d.run(ctx, step, PhaseTransition, func(p int) error { return d.transitionPhase(step, p, w) }); err != nil {
		return err
	}
	// Once every plan exists the step is applied in full.
	commitCtx := context.WithoutCancel(ctx)
	if err := d.run(commitCtx, step, PhaseCommit, func(p int) error { return d.commitPhase(p) }); err != nil {
		return err
	}
	d.now = w.End
	d.steps++

	return d.observe(ctx, step, w)
}

// run stamps the phase, then runs fn on every partition behind a barrier.
func (d *Driver) run(ctx context.Context, step int, ph Phase, fn func(p int) error) error {
	d.stamp.Store(stampOf(step, ph))
	err := pipeline.RunPhase(ctx, d.workers, func(_ context.Context, p int) error {
		if err := d.checkStamp(step, ph, p); err != nil {
			return err
		}
		return fn(p)
	})
	if err != nil {
		var pe *PhaseError
		if errors.As(err, &pe) {
			return err
		}
		return &PhaseError{Step: step, Phase: ph, Err: err}
	}
	return nil
}

func stampOf(step int, ph Phase) uint64 { return uint64(step)<<8 | uint64(ph) }

// checkStamp fails when partition p is about to run work of (step, ph) while
// the driver is in another phase.
func (d *Driver) checkStamp(step int, ph Phase, p int) error {
	if got := d.stamp.Load(); got != stampOf(step, ph) {
		return epi.Errorf(epi.ErrInternal, "barrier violation: partition %d ran %s of step %d under step %d %s",
			p, ph, step, got>>8, Phase(got&0xff))
	}
	return nil
}

func (d *Driver) visitPhase(step, p int, w epi.Window) error {
	lo, hi := pipeline.Partition(len(d.agents), d.workers, p)
	for i := lo; i < hi; i++ {
		for _, v := range d.agents[i].Visits(w) {
			li, ok := d.locIdx[v.LocationID]
			if !ok {
				return epi.Errorf(epi.ErrInternal, "step %d: agent %d visited unknown location %d", step, v.AgentID, v.LocationID)
			}
			d.visits.Put(p, pipeline.Owner(len(d.locations), d.workers, li), v)
		}
	}
	return nil
}

func (d *Driver) pairingPhase(step, p int) error {
	lo, hi := pipeline.Partition(len(d.locations), d.workers, p)
	byLoc := make(map[int][]epi.Visit, hi-lo)
	for _, v := range d.visits.Drain(p) {
		li := d.locIdx[v.LocationID]
		if li < lo || li >= hi {
			return epi.Errorf(epi.ErrInternal, "barrier violation: visit for location %d routed to partition %d", v.LocationID, p)
		}
		byLoc[li] = append(byLoc[li], v)
	}
	for li := lo; li < hi; li++ {
		vs := byLoc[li]
		if len(vs) == 0 {
			continue
		}
		dels, err := d.locations[li].ProcessVisits(step, vs)
		if err != nil {
			return err
		}
		for _, del := range dels {
			ai, ok := d.agentIdx[del.AgentID]
			if !ok {
				return epi.Errorf(epi.ErrInternal, "location %d produced exposure for unknown agent %d", d.locations[li].ID(), del.AgentID)
			}
			d.deliveries.Put(p, pipeline.Owner(len(d.agents), d.workers, ai), del)
		}
	}
	return nil
}

func (d *Driver) transitionPhase(step, p int, w epi.Window) error {
	lo, hi := pipeline.Partition(len(d.agents), d.workers, p)
	byAgent := make(map[int][]epi.Exposure)
	for _, del := range d.deliveries.Drain(p) {
		if del.Step != step {
			return epi.Errorf(epi.ErrInternal, "barrier violation: exposure from step %d delivered in step %d", del.Step, step)
		}
		ai := d.agentIdx[del.AgentID]
		if ai < lo || ai >= hi {
			return epi.Errorf(epi.ErrInternal, "barrier violation: exposure for agent %d routed to partition %d", del.AgentID, p)
		}
		byAgent[ai] = append(byAgent[ai], del.Exposure)
	}
	for i := lo; i < hi; i++ {
		u, err := d.agents[i].Plan(w, byAgent[i])
		if err != nil {
			return err
		}
		d.plans[i] = u
	}
	return nil
}

func (d *Driver) commitPhase(p int) error {
	lo, hi := pipeline.Partition(len(d.agents), d.workers, p)
	for i := lo; i < hi; i++ {
		if err := d.agents[i].Commit(d.plans[i]); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) observe(ctx context.Context, step int, w epi.Window) error {
	if len(d.observers) == 0 {
		return nil
	}
	r := &StepReport{Step: step, Window: w, Agents: make([]AgentSnapshot, len(d.agents))}
	for i, a := range d.agents {
		r.Agents[i] = AgentSnapshot{
			ID:           a.ID(),
			State:        a.State(),
			Transitions:  d.plans[i].Transitions,
			NewExposures: d.plans[i].Exposures,
			History:      a.History(),
		}
	}
	for _, o := range d.observers {
		if err := o.ObserveStep(ctx, r); err != nil {
			return &PhaseError{Step: step, Phase: PhaseObserve, Err: err}
		}
	}
	return nil
}
