// Package game runs the epidemic simulation: it owns the agent world, the
// clock, and the per-tick pipeline, and reports to renderers and telemetry.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/contagion/components"
	"github.com/pthm-cable/contagion/config"
	"github.com/pthm-cable/contagion/systems"
	"github.com/pthm-cable/contagion/telemetry"
)

// pcgStream is the fixed PCG stream selector; runs differ by seed only.
const pcgStream = 0x9e3779b97f4a7c15

// Reason explains why a run stopped.
type Reason string

const (
	ReasonRunning    Reason = ""
	ReasonNoLiving   Reason = "no_living"
	ReasonNoInfected Reason = "no_infected"
	ReasonMaxTicks   Reason = "max_ticks"
	ReasonCancelled  Reason = "cancelled"
)

// Options configures a simulation run.
type Options struct {
	Seed  uint64
	RunID string // empty = generated

	Renderer Renderer // nil = no rendering

	LogStats    bool
	OutputDir   string // CSV/YAML/PNG output, empty = disabled
	SnapshotDir string // snapshots on bookmarks, empty = disabled

	StatsCallback func(telemetry.WindowStats)
}

// Result summarizes a run.
type Result struct {
	RunID string `csv:"run_id"`
	Seed  uint64 `csv:"seed"`

	Day   uint    `csv:"day"`
	Hour  float64 `csv:"hour"`
	Ticks int     `csv:"ticks"`

	Live         int `csv:"live"`
	Deaths       int `csv:"deaths"`
	Immune       int `csv:"immune"`
	Infected     int `csv:"infected"`
	PeakInfected int `csv:"peak_infected"`

	Reason Reason `csv:"reason"`
}

// Simulation holds the complete state of one run.
type Simulation struct {
	cfg *config.Config

	world  *ecs.World
	agents *ecs.Map3[components.Position, components.Velocity, components.Health]
	order  []ecs.Entity // population order

	seed uint64
	pcg  *rand.PCG
	rng  *rand.Rand

	clock Clock
	tick  int

	bounds       systems.Bounds
	geom         systems.Geometry
	agePerTick   float64
	detector     *systems.Detector
	transmission *systems.TransmissionSystem
	resolution   *systems.ResolutionSystem

	// Per-tick scratch, reused
	view     systems.Population
	contacts []systems.Contact
	frame    []Agent

	census       telemetry.Census
	deaths       int
	peakInfected int

	finished bool
	reason   Reason
	err      error

	runID    string
	renderer Renderer

	// Telemetry
	collector     *telemetry.Collector
	perf          *telemetry.Profiler
	bookmarks     *telemetry.BookmarkDetector
	lifetimes     *telemetry.LifetimeTracker
	spreaders     *telemetry.SpreaderBoard
	curve         telemetry.Curve
	output        *telemetry.OutputManager
	events        []telemetry.Event
	logStats      bool
	snapshotDir   string
	statsCallback func(telemetry.WindowStats)
}

// New creates a simulation with a freshly sampled population.
// The configuration is validated before anything else happens.
func New(cfg *config.Config, opts Options) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	pcg := rand.NewPCG(opts.Seed, pcgStream)
	p := cfg.Params
	agents := systems.NewPopulation(p.PopulationSize, p.InfectionRate, p.VaccinationRate, SpawnFrom(cfg), rand.New(pcg))

	return newSimulation(cfg, opts, pcg, agents)
}

// NewWithAgents creates a simulation over a hand-placed population, in order.
func NewWithAgents(cfg *config.Config, opts Options, agents []systems.AgentState) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	for i, a := range agents {
		if ok, reason := a.Health.Consistent(); !ok {
			return nil, &InvariantError{Index: i, Health: a.Health, Reason: reason}
		}
	}

	return newSimulation(cfg, opts, rand.NewPCG(opts.Seed, pcgStream), agents)
}

// SpawnFrom returns the spawn box and speed described by the config.
func SpawnFrom(cfg *config.Config) systems.Spawn {
	return systems.Spawn{
		Width: cfg.World.Width,
		MinY:  cfg.Derived.SpawnMinY,
		MaxY:  cfg.Derived.SpawnMaxY,
		Speed: cfg.Agent.Speed,
	}
}

func newSimulation(cfg *config.Config, opts Options, pcg *rand.PCG, agents []systems.AgentState) (*Simulation, error) {
	world := ecs.NewWorld()

	s := &Simulation{
		cfg:    cfg,
		world:  world,
		agents: ecs.NewMap3[components.Position, components.Velocity, components.Health](world),
		order:  make([]ecs.Entity, 0, len(agents)),

		seed: opts.Seed,
		pcg:  pcg,
		rng:  rand.New(pcg),

		clock: NewClock(cfg.Disease.AgePerTick),

		bounds:       systems.BoundsFrom(cfg.World.Bounds),
		geom:         systems.GeometryFrom(cfg),
		agePerTick:   cfg.Disease.AgePerTick,
		detector:     systems.NewDetectorFromConfig(cfg),
		transmission: systems.NewTransmissionSystem(systems.TransmissionParamsFrom(cfg)),
		resolution:   systems.NewResolutionSystem(systems.ResolutionParamsFrom(cfg)),

		runID:    opts.RunID,
		renderer: opts.Renderer,
	}
	if s.runID == "" {
		s.runID = telemetry.NewRunID()
	}

	if err := s.initTelemetry(opts); err != nil {
		return nil, err
	}

	for _, a := range agents {
		s.spawn(a)
	}
	s.refreshView()

	s.census = s.count()
	s.peakInfected = s.census.Infected()

	// An empty population never runs a tick.
	if s.census.Live == 0 {
		s.finish(ReasonNoLiving)
	}

	slog.Debug("simulation created",
		"run_id", s.runID,
		"seed", s.seed,
		"population", s.census.Live,
		"infected", s.census.Infected(),
		"vaccinated", s.census.Vaccinated,
	)

	return s, nil
}

// spawn adds one agent at the end of the population order.
func (s *Simulation) spawn(a systems.AgentState) ecs.Entity {
	pos, vel, health := a.Position, a.Velocity, a.Health
	e := s.agents.NewEntity(&pos, &vel, &health)
	s.order = append(s.order, e)
	s.lifetimes.Register(entityID(e), s.tick, health.Vaccinated, health.Infected)
	return e
}

// refreshView rebuilds the index-ordered component view. Component pointers
// move on structural changes, so this runs after every spawn or removal batch.
func (s *Simulation) refreshView() {
	s.view.Reset()
	for _, e := range s.order {
		pos, vel, health := s.agents.Get(e)
		s.view.Append(pos, vel, health)
	}
}

// Step advances the simulation by one tick. After the run has finished it is
// a no-op; after an invariant violation it returns ErrFailed.
func (s *Simulation) Step() error {
	if s.err != nil {
		return fmt.Errorf("%w: %w", ErrFailed, s.err)
	}
	if s.finished {
		return nil
	}

	s.perf.Begin()
	prevLive := s.view.Len()

	s.tick++
	s.clock.Advance()

	s.perf.Enter(telemetry.StageMove)
	systems.Move(&s.view, s.bounds)
	s.perf.Count(telemetry.StageMove, s.view.Len())

	s.perf.Enter(telemetry.StageDetect)
	s.contacts = s.detector.Detect(&s.view, s.contacts[:0])
	s.perf.Count(telemetry.StageDetect, len(s.contacts))

	s.perf.Enter(telemetry.StageContact)
	for _, c := range s.contacts {
		systems.Collide(s.geom, *s.view.Pos[c.I], *s.view.Pos[c.J], s.view.Vel[c.I], s.view.Vel[c.J])
	}
	infections := s.transmission.Update(&s.view, s.contacts, s.rng)
	s.perf.Count(telemetry.StageContact, len(infections))

	s.perf.Enter(telemetry.StageResolve)
	systems.AgeInfections(&s.view, s.agePerTick)
	res := s.resolution.Update(&s.view, s.rng)
	s.perf.Count(telemetry.StageResolve, len(res.Deaths)+len(res.Immunized)+len(res.Relapsed))
	s.recordTick(infections, res)

	s.perf.Enter(telemetry.StageCleanup)
	s.removeDead(res.Deaths)
	s.perf.Count(telemetry.StageCleanup, len(res.Deaths))
	s.census = s.count()
	s.peakInfected = max(s.peakInfected, s.census.Infected())

	if err := s.checkInvariants(prevLive); err != nil {
		s.err = err
		s.perf.End()
		slog.Error("invariant violated", "run_id", s.runID, "error", err)
		return err
	}

	switch {
	case s.census.Live == 0:
		s.finish(ReasonNoLiving)
	case s.census.Healthy() == s.census.Live:
		s.finish(ReasonNoInfected)
	}

	s.perf.Enter(telemetry.StageTelemetry)
	s.flushTelemetry(s.finished)
	s.perf.End()

	s.render()

	return nil
}

// removeDead removes the agents at the given population indices, then
// compacts the population order. Indices must come from the current order.
func (s *Simulation) removeDead(deaths []int) {
	if len(deaths) == 0 {
		return
	}

	for _, i := range deaths {
		s.world.RemoveEntity(s.order[i])
	}

	live := s.order[:0]
	for _, e := range s.order {
		if s.world.Alive(e) {
			live = append(live, e)
		}
	}
	s.order = live
	s.deaths += len(deaths)

	s.refreshView()
}

// count takes a census of the live population.
func (s *Simulation) count() telemetry.Census {
	c := telemetry.Census{Live: s.view.Len()}
	contagiousAge := s.cfg.Disease.ContagiousAge
	for _, h := range s.view.Health {
		switch h.Status(contagiousAge) {
		case components.StatusSusceptible:
			c.Susceptible++
		case components.StatusIncubating:
			c.Incubating++
		case components.StatusContagious:
			c.Contagious++
		case components.StatusImmune:
			c.Immune++
		}
		if h.Vaccinated {
			c.Vaccinated++
		}
	}
	return c
}

func (s *Simulation) finish(reason Reason) {
	s.finished = true
	s.reason = reason
	slog.Info("simulation finished",
		"run_id", s.runID,
		"reason", string(reason),
		"clock", s.clock.String(),
		"days", s.clock.Days(),
		"live", s.census.Live,
		"deaths", s.deaths,
		"immune", s.census.Immune,
	)
}

// render hands the current frame to the renderer, if any.
func (s *Simulation) render() {
	if s.renderer == nil {
		return
	}
	s.frame = s.appendAgents(s.frame[:0])
	s.renderer.Render(Frame{Agents: s.frame, Display: s.Display()})
}

// Run steps until the simulation finishes, ctx is cancelled, or the tick
// counter reaches maxTicks (0 = unlimited).
func (s *Simulation) Run(ctx context.Context, maxTicks int) (Result, error) {
	for !s.finished {
		if err := ctx.Err(); err != nil {
			res := s.Result()
			res.Reason = ReasonCancelled
			return res, err
		}
		if maxTicks > 0 && s.tick >= maxTicks {
			res := s.Result()
			res.Reason = ReasonMaxTicks
			return res, nil
		}
		if err := s.Step(); err != nil {
			return s.Result(), err
		}
	}
	return s.Result(), nil
}

// Result returns the run summary so far.
func (s *Simulation) Result() Result {
	return Result{
		RunID:        s.runID,
		Seed:         s.seed,
		Day:          s.clock.Day,
		Hour:         s.clock.Hour,
		Ticks:        s.tick,
		Live:         s.census.Live,
		Deaths:       s.deaths,
		Immune:       s.census.Immune,
		Infected:     s.census.Infected(),
		PeakInfected: s.peakInfected,
		Reason:       s.reason,
	}
}

// Display returns the aggregate values for the current tick.
func (s *Simulation) Display() Display {
	return Display{
		InfectionRate: s.census.InfectionRate(),
		Population:    s.census.Live,
		Healthy:       s.census.Healthy(),
		Infected:      s.census.Infected(),
		Immune:        s.census.Immune,
		Deaths:        s.deaths,
		Params:        s.cfg.Params,
		Day:           s.clock.Day,
		Hour:          s.clock.Hour,
		Finished:      s.finished,
		Elapsed:       s.clock.Days(),
	}
}

// Agents returns a copy of every agent in population order.
func (s *Simulation) Agents() []Agent {
	return s.appendAgents(make([]Agent, 0, len(s.order)))
}

func (s *Simulation) appendAgents(dst []Agent) []Agent {
	contagiousAge := s.cfg.Disease.ContagiousAge
	for i, e := range s.order {
		h := *s.view.Health[i]
		dst = append(dst, Agent{
			ID:       entityID(e),
			Position: *s.view.Pos[i],
			Velocity: *s.view.Vel[i],
			Health:   h,
			Status:   h.Status(contagiousAge),
		})
	}
	return dst
}

// Close flushes remaining telemetry and closes output files.
func (s *Simulation) Close() error {
	var errs []error

	if s.err == nil && !s.finished {
		s.flushTelemetry(true)
	}

	for _, stats := range s.lifetimes.All() {
		s.spreaders.Consider(stats, true)
	}

	if s.output != nil {
		if err := s.output.WriteSpreaders(s.spreaders); err != nil {
			errs = append(errs, err)
		}
		if s.cfg.Telemetry.Chart {
			if err := s.output.WriteCurve(&s.curve, s.cfg.Telemetry.ChartWidth, s.cfg.Telemetry.ChartHeight); err != nil {
				errs = append(errs, err)
			}
		}
		if err := s.output.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Tick returns the number of ticks simulated.
func (s *Simulation) Tick() int { return s.tick }

// Clock returns the simulated time.
func (s *Simulation) Clock() Clock { return s.clock }

// Census returns the head count after the last tick.
func (s *Simulation) Census() telemetry.Census { return s.census }

// Finished reports whether a termination condition was reached.
func (s *Simulation) Finished() bool { return s.finished }

// Err returns the invariant violation that stopped the run, if any.
func (s *Simulation) Err() error { return s.err }

// RunID returns the run identifier.
func (s *Simulation) RunID() string { return s.runID }

// Config returns the run's configuration.
func (s *Simulation) Config() *config.Config { return s.cfg }

func entityID(e ecs.Entity) uint32 {
	return uint32(e.ID())
}
