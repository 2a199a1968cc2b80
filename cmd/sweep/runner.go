package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pthm-cable/contagion/config"
	"github.com/pthm-cable/contagion/game"
	"github.com/pthm-cable/contagion/telemetry"
)

// RunRow is one simulation in runs.csv.
type RunRow struct {
	RunID        string      `csv:"run_id"`
	Seed         uint64      `csv:"seed"`
	Reason       game.Reason `csv:"reason"`
	Ticks        int         `csv:"ticks"`
	Days         float64     `csv:"days"`
	Live         int         `csv:"live"`
	Deaths       int         `csv:"deaths"`
	Immune       int         `csv:"immune"`
	Infected     int         `csv:"infected"`
	PeakInfected int         `csv:"peak_infected"`
}

// rowFrom converts a run result.
func rowFrom(r game.Result) RunRow {
	return RunRow{
		RunID:        r.RunID,
		Seed:         r.Seed,
		Reason:       r.Reason,
		Ticks:        r.Ticks,
		Days:         float64(r.Day) + r.Hour/24,
		Live:         r.Live,
		Deaths:       r.Deaths,
		Immune:       r.Immune,
		Infected:     r.Infected,
		PeakInfected: r.PeakInfected,
	}
}

// SummaryRow describes one metric across all runs in summary.csv.
type SummaryRow struct {
	Metric string  `csv:"metric"`
	N      int     `csv:"n"`
	Mean   float64 `csv:"mean"`
	Std    float64 `csv:"std"`
	Min    float64 `csv:"min"`
	P10    float64 `csv:"p10"`
	P50    float64 `csv:"p50"`
	P90    float64 `csv:"p90"`
	Max    float64 `csv:"max"`
}

// metrics lists the summarized columns of RunRow.
var metrics = []struct {
	name string
	get  func(RunRow) float64
}{
	{"days", func(r RunRow) float64 { return r.Days }},
	{"deaths", func(r RunRow) float64 { return float64(r.Deaths) }},
	{"immune", func(r RunRow) float64 { return float64(r.Immune) }},
	{"peak_infected", func(r RunRow) float64 { return float64(r.PeakInfected) }},
	{"survivors", func(r RunRow) float64 { return float64(r.Live) }},
}

// Summarize computes per-metric statistics over the runs.
func Summarize(rows []RunRow) []SummaryRow {
	out := make([]SummaryRow, 0, len(metrics))
	values := make([]float64, len(rows))
	for _, m := range metrics {
		for i, r := range rows {
			values[i] = m.get(r)
		}
		s := telemetry.Summarize(values)
		out = append(out, SummaryRow{
			Metric: m.name,
			N:      s.N,
			Mean:   s.Mean,
			Std:    s.Std,
			Min:    s.Min,
			P10:    s.P10,
			P50:    s.P50,
			P90:    s.P90,
			Max:    s.Max,
		})
	}
	return out
}

// Sweep runs one headless simulation per seed on a bounded worker pool.
// Rows come back in seed order regardless of completion order.
type Sweep struct {
	Config   *config.Config
	Seeds    []uint64
	Workers  int
	MaxTicks int
}

// Run executes the sweep. It stops handing out seeds once ctx is done and
// returns the first simulation error, if any.
func (s *Sweep) Run(ctx context.Context) ([]RunRow, error) {
	if err := s.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	workers := max(1, min(s.Workers, len(s.Seeds)))
	rows := make([]RunRow, len(s.Seeds))
	errs := make([]error, len(s.Seeds))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rows[i], errs[i] = s.runOne(ctx, s.Seeds[i])
			}
		}()
	}

feed:
	for i := range s.Seeds {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("seed %d: %w", s.Seeds[i], err)
		}
	}
	return rows, nil
}

func (s *Sweep) runOne(ctx context.Context, seed uint64) (RunRow, error) {
	sim, err := game.New(s.Config, game.Options{Seed: seed})
	if err != nil {
		return RunRow{}, err
	}
	defer sim.Close()

	res, err := sim.Run(ctx, s.MaxTicks)
	if err != nil {
		return RunRow{}, err
	}

	slog.Debug("run finished", "run_id", res.RunID, "seed", seed, "reason", string(res.Reason), "ticks", res.Ticks)
	return rowFrom(res), nil
}

// SeedRange returns n consecutive seeds starting at base.
func SeedRange(base uint64, n int) []uint64 {
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = base + uint64(i)
	}
	return seeds
}
