package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/contagion/config"
)

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Params.PopulationSize = 30
	cfg.Params.TransmissionRate = 50
	return cfg
}

func TestSweepIsDeterministicAcrossWorkers(t *testing.T) {
	seeds := SeedRange(10, 6)

	run := func(workers int) []RunRow {
		s := &Sweep{Config: smallConfig(), Seeds: seeds, Workers: workers, MaxTicks: 300}
		rows, err := s.Run(context.Background())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return rows
	}

	serial, parallel := run(1), run(4)
	if len(serial) != len(seeds) || len(parallel) != len(seeds) {
		t.Fatalf("rows = %d, %d, want %d", len(serial), len(parallel), len(seeds))
	}
	for i := range serial {
		if serial[i].Seed != seeds[i] {
			t.Errorf("row %d seed = %d, want %d", i, serial[i].Seed, seeds[i])
		}
		a, b := serial[i], parallel[i]
		a.RunID, b.RunID = "", ""
		if a != b {
			t.Errorf("seed %d differs:\n%+v\n%+v", seeds[i], a, b)
		}
	}
}

func TestSweepRejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Params.TransmissionRate = 150

	s := &Sweep{Config: cfg, Seeds: SeedRange(1, 2), Workers: 2}
	_, err := s.Run(context.Background())
	var fe *config.FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want FieldError", err)
	}
}

func TestSweepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Sweep{Config: smallConfig(), Seeds: SeedRange(1, 3), Workers: 2}
	if _, err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestSummarize(t *testing.T) {
	rows := []RunRow{
		{Deaths: 1, Days: 10},
		{Deaths: 3, Days: 20},
		{Deaths: 2, Days: 30},
	}
	summary := Summarize(rows)
	if len(summary) != len(metrics) {
		t.Fatalf("summary rows = %d, want %d", len(summary), len(metrics))
	}

	byName := make(map[string]SummaryRow)
	for _, s := range summary {
		byName[s.Metric] = s
	}
	d := byName["deaths"]
	if d.N != 3 || d.Mean != 2 || d.Min != 1 || d.Max != 3 || d.P50 != 2 {
		t.Errorf("deaths = %+v", d)
	}
	if byName["days"].Mean != 20 {
		t.Errorf("days mean = %v, want 20", byName["days"].Mean)
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.csv")
	rows := []RunRow{{RunID: "a", Seed: 1, Reason: "no_infected", Deaths: 2}}
	if err := writeCSV(path, &rows); err != nil {
		t.Fatalf("writeCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var got []RunRow
	if err := gocsv.UnmarshalFile(f, &got); err != nil {
		t.Fatalf("UnmarshalFile: %v", err)
	}
	if len(got) != 1 || got[0] != rows[0] {
		t.Errorf("got %+v, want %+v", got, rows)
	}
}
