// Package main runs many headless simulations across seeds and summarizes
// how the outbreak ends.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/contagion/config"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	runs := flag.Int("runs", 100, "Number of seeds to simulate")
	seedBase := flag.Uint64("seed-base", 1, "First seed; runs use consecutive seeds")
	workers := flag.Int("workers", runtime.NumCPU(), "Concurrent simulations")
	maxTicks := flag.Int("max-ticks", 48*365, "Stop each run after N ticks (0 = unlimited)")
	outputDir := flag.String("output", "", "Output directory for runs.csv and summary.csv")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if *outputDir == "" {
		slog.Error("--output is required")
		os.Exit(2)
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sweep := &Sweep{
		Config:   cfg,
		Seeds:    SeedRange(*seedBase, *runs),
		Workers:  *workers,
		MaxTicks: *maxTicks,
	}

	slog.Info("starting sweep", "runs", *runs, "workers", *workers, "max_ticks", *maxTicks, "params", cfg.Params)
	start := time.Now()

	rows, err := sweep.Run(ctx)
	if err != nil {
		slog.Error("sweep failed", "error", err)
		os.Exit(1)
	}

	summary := Summarize(rows)
	if err := writeCSV(filepath.Join(*outputDir, "runs.csv"), &rows); err != nil {
		slog.Error("failed to write runs", "error", err)
		os.Exit(1)
	}
	if err := writeCSV(filepath.Join(*outputDir, "summary.csv"), &summary); err != nil {
		slog.Error("failed to write summary", "error", err)
		os.Exit(1)
	}
	if err := cfg.WriteYAML(filepath.Join(*outputDir, "config.yaml")); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	for _, s := range summary {
		slog.Info("summary", "metric", s.Metric, "mean", s.Mean, "std", s.Std, "p10", s.P10, "p50", s.P50, "p90", s.P90)
	}
	slog.Info("sweep complete", "runs", len(rows), "elapsed", time.Since(start).Round(time.Millisecond).String())
}

func writeCSV(path string, records any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gocsv.MarshalFile(records, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
