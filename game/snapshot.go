package game

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/pthm-cable/contagion/components"
	"github.com/pthm-cable/contagion/config"
	"github.com/pthm-cable/contagion/systems"
	"github.com/pthm-cable/contagion/telemetry"
)

// Snapshot captures the complete run state, including the random source,
// so a restored run continues exactly where this one stands.
func (s *Simulation) Snapshot() (*telemetry.Snapshot, error) {
	rng, err := s.pcg.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal rng: %w", err)
	}

	snap := &telemetry.Snapshot{
		Version:      telemetry.SnapshotVersion,
		RunID:        s.runID,
		Seed:         s.seed,
		RNG:          rng,
		Params:       s.cfg.Params,
		World:        s.cfg.World,
		Agent:        s.cfg.Agent,
		Disease:      s.cfg.Disease,
		Collision:    s.cfg.Collision,
		Tick:         s.tick,
		Day:          s.clock.Day,
		Hour:         s.clock.Hour,
		Deaths:       s.deaths,
		PeakInfected: s.peakInfected,
		Agents:       make([]telemetry.AgentRecord, 0, len(s.order)),
	}

	for i, e := range s.order {
		pos, vel, h := s.view.Pos[i], s.view.Vel[i], s.view.Health[i]
		snap.Agents = append(snap.Agents, telemetry.AgentRecord{
			ID:           entityID(e),
			X:            pos.X,
			Y:            pos.Y,
			VelX:         vel.X,
			VelY:         vel.Y,
			Infected:     h.Infected,
			InfectionAge: h.InfectionAge,
			Vaccinated:   h.Vaccinated,
			Immune:       h.Immune,
		})
	}

	return snap, nil
}

// Restore rebuilds a simulation from a snapshot. The snapshot's parameters,
// world, agent, disease, and collision settings override those in cfg;
// screen and telemetry settings come from cfg.
func Restore(cfg *config.Config, snap *telemetry.Snapshot, opts Options) (*Simulation, error) {
	if snap.Version != telemetry.SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snap.Version, telemetry.SnapshotVersion)
	}

	cfg = restoredConfig(cfg, snap)

	agents := make([]systems.AgentState, len(snap.Agents))
	for i, a := range snap.Agents {
		agents[i] = systems.AgentState{
			Position: components.Position{X: a.X, Y: a.Y},
			Velocity: components.Velocity{X: a.VelX, Y: a.VelY},
			Health: components.Health{
				Infected:     a.Infected,
				InfectionAge: a.InfectionAge,
				Vaccinated:   a.Vaccinated,
				Immune:       a.Immune,
			},
		}
	}

	opts.Seed = snap.Seed
	if opts.RunID == "" {
		opts.RunID = snap.RunID
	}

	s, err := NewWithAgents(cfg, opts, agents)
	if err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}

	pcg := &rand.PCG{}
	if err := pcg.UnmarshalBinary(snap.RNG); err != nil {
		return nil, fmt.Errorf("restore rng: %w", err)
	}
	s.pcg = pcg
	s.rng = rand.New(pcg)

	s.tick = snap.Tick
	s.clock.Day = snap.Day
	s.clock.Hour = snap.Hour
	s.deaths = snap.Deaths
	s.peakInfected = max(s.peakInfected, snap.PeakInfected)
	s.collector.Reset(snap.Tick)
	s.collector.SetTotalDeaths(snap.Deaths)

	// A snapshot taken on the final tick stays finished.
	if !s.finished && s.tick > 0 && s.census.Healthy() == s.census.Live {
		s.finish(ReasonNoInfected)
	}

	slog.Info("snapshot restored", "run_id", s.runID, "tick", s.tick, "agents", len(agents))

	return s, nil
}

// restoredConfig applies the snapshot's model settings to a copy of cfg,
// warning about each section that differs from what the caller passed.
func restoredConfig(cfg *config.Config, snap *telemetry.Snapshot) *config.Config {
	diffs := []struct {
		section string
		differs bool
	}{
		{"world", cfg.World != snap.World},
		{"agent", cfg.Agent != snap.Agent},
		{"disease", cfg.Disease != snap.Disease},
		{"collision", cfg.Collision != snap.Collision},
	}
	for _, d := range diffs {
		if d.differs {
			slog.Warn("config differs from snapshot, using snapshot", "section", d.section, "run_id", snap.RunID)
		}
	}

	out := cfg.Clone()
	out.World = snap.World
	out.Agent = snap.Agent
	out.Disease = snap.Disease
	out.Collision = snap.Collision
	return out.WithParams(snap.Params)
}
