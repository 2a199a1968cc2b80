package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/contagion/systems"
	"github.com/pthm-cable/contagion/telemetry"
)

// initTelemetry sets up collectors and the optional output directory.
func (s *Simulation) initTelemetry(opts Options) error {
	tc := s.cfg.Telemetry

	s.collector = telemetry.NewCollector(tc.WindowTicks)
	s.perf = telemetry.NewProfiler()
	s.bookmarks = telemetry.NewBookmarkDetector(tc.BookmarkHistory)
	s.lifetimes = telemetry.NewLifetimeTracker()
	s.spreaders = telemetry.NewSpreaderBoard(tc.Spreaders)
	s.logStats = opts.LogStats
	s.snapshotDir = opts.SnapshotDir
	s.statsCallback = opts.StatsCallback

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if err := output.WriteConfig(s.cfg); err != nil {
		output.Close()
		return fmt.Errorf("output: %w", err)
	}
	s.output = output

	return nil
}

// recordTick feeds one tick's transmissions and resolutions into the
// collectors. Indices refer to the population order before dead agents
// are removed.
func (s *Simulation) recordTick(infections []systems.Infection, res *systems.Resolution) {
	s.collector.RecordContacts(len(s.contacts))
	day, hour := s.clock.Day, s.clock.Hour

	for _, inf := range infections {
		target, source := entityID(s.order[inf.Target]), entityID(s.order[inf.Source])
		s.collector.RecordInfection()
		s.lifetimes.RecordInfection(target, s.tick)
		s.lifetimes.RecordTransmission(source)
		s.emit(telemetry.NewInfectionEvent(s.tick, day, hour, target, source))
	}

	for _, i := range res.Immunized {
		id := entityID(s.order[i])
		s.collector.RecordImmunity()
		s.lifetimes.RecordOutcome(id, telemetry.OutcomeImmune, s.tick)
		s.emit(telemetry.NewImmunityEvent(s.tick, day, hour, id))
	}

	for _, i := range res.Relapsed {
		id := entityID(s.order[i])
		s.collector.RecordRelapse()
		s.lifetimes.RecordOutcome(id, telemetry.OutcomeRelapsed, s.tick)
		s.emit(telemetry.NewRelapseEvent(s.tick, day, hour, id))
	}

	for range res.Stalled {
		s.collector.RecordStall()
	}
	if res.Stopped {
		slog.Debug("resolution pass stopped", "tick", s.tick, "index", res.StoppedAt)
	}

	for _, i := range res.Deaths {
		id := entityID(s.order[i])
		s.collector.RecordDeath()
		s.lifetimes.RecordOutcome(id, telemetry.OutcomeDied, s.tick)
		s.spreaders.Consider(s.lifetimes.Remove(id), false)
		s.emit(telemetry.NewDeathEvent(s.tick, day, hour, id))
	}
}

// emit logs an event and buffers it for events.csv.
func (s *Simulation) emit(e telemetry.Event) {
	slog.Debug("event", "event", e)
	if s.output != nil {
		s.events = append(s.events, e)
	}
}

// flushTelemetry checks if the stats window should be flushed and handles
// bookmarks. force flushes a partial window, as at the end of a run.
func (s *Simulation) flushTelemetry(force bool) {
	if !s.collector.ShouldFlush(s.tick) && !(force && s.collector.Pending(s.tick)) {
		return
	}

	stats := s.collector.Flush(s.tick, s.clock.Day, s.clock.Hour, s.census, s.infectionAges())
	profile := s.perf.Take()
	s.curve.Add(stats)

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		profile.LogStats()
	}

	if s.output != nil {
		if err := s.output.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := s.output.WritePerf(profile, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
		if err := s.output.WriteEvents(s.events); err != nil {
			slog.Error("failed to write events", "error", err)
		}
		s.events = s.events[:0]
	}

	for _, bm := range s.bookmarks.Check(stats) {
		if s.logStats {
			bm.LogBookmark()
		}

		if s.output != nil {
			if err := s.output.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}

		if s.snapshotDir != "" {
			s.saveSnapshot(&bm)
		}
	}
}

// infectionAges samples the infection age of every infected agent.
func (s *Simulation) infectionAges() []float64 {
	var ages []float64
	for _, h := range s.view.Health {
		if h.Infected {
			ages = append(ages, h.InfectionAge)
		}
	}
	return ages
}

// saveSnapshot creates and saves a snapshot to disk.
func (s *Simulation) saveSnapshot(bookmark *telemetry.Bookmark) {
	snap, err := s.Snapshot()
	if err != nil {
		slog.Error("failed to create snapshot", "error", err)
		return
	}
	snap.Bookmark = bookmark

	path, err := telemetry.SaveSnapshot(snap, s.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", s.tick)
}
