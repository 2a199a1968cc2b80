package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/contagion/config"
)

func TestNewOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v", om, err)
	}

	// A nil manager accepts every write.
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteEvents([]Event{{Type: EventDeath}}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerTelemetryCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	rows := []WindowStats{
		{WindowEndTick: 48, Day: 1, Live: 100, Infected: 50, InfectionRate: 0.5},
		{WindowEndTick: 96, Day: 2, Live: 99, Infected: 60, InfectionRate: 60.0 / 99, Deaths: 1, TotalDeaths: 1},
	}
	for _, r := range rows {
		if err := om.WriteTelemetry(r); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var got []WindowStats
	if err := gocsv.UnmarshalFile(f, &got); err != nil {
		t.Fatalf("reading telemetry.csv: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows = %d, want 2 (header written once)", len(got))
	}
	if got[1].WindowEndTick != 96 || got[1].Live != 99 || got[1].TotalDeaths != 1 {
		t.Errorf("row 2 = %+v", got[1])
	}
}

func TestOutputManagerEvents(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := om.WriteEvents(nil); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteEvents([]Event{NewInfectionEvent(3, 0, 1.5, 7, 2)}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteEvents([]Event{NewDeathEvent(9, 0, 4.5, 7)}); err != nil {
		t.Fatal(err)
	}
	om.Close()

	data, err := os.ReadFile(filepath.Join(dir, "events.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("events.csv has %d lines:\n%s", len(lines), data)
	}
	if lines[0] != "tick,day,hour,type,agent,source" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "infection") || !strings.Contains(lines[2], "death") {
		t.Errorf("rows = %q", lines[1:])
	}
}

func TestOutputManagerFiles(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatal(err)
	}

	sb := NewSpreaderBoard(3)
	sb.Consider(&LifetimeStats{AgentID: 4, Transmissions: 2}, true)
	if err := om.WriteSpreaders(sb); err != nil {
		t.Fatal(err)
	}

	var c Curve
	c.Add(WindowStats{Day: 0, Live: 10, Infected: 5})
	c.Add(WindowStats{Day: 1, Live: 10, Infected: 7})
	if err := om.WriteCurve(&c, 400, 200); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"config.yaml", "spreaders.json", "curve.png", "telemetry.csv", "perf.csv", "bookmarks.csv", "events.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}

	cfg, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("reloading config.yaml: %v", err)
	}
	if cfg.Params != config.Default().Params {
		t.Errorf("round-tripped params = %+v", cfg.Params)
	}
}

func TestOutputManagerSkipsShortCurve(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	var c Curve
	c.Add(WindowStats{Day: 0, Live: 10})
	if err := om.WriteCurve(&c, 400, 200); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "curve.png")); !os.IsNotExist(err) {
		t.Error("curve.png written for a single point")
	}
}

func TestOutputManagerPerfCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	prof := StageProfile{Ticks: 2}
	prof.Work[StageDetect] = 6
	if err := om.WritePerf(prof, 48); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var got []StageProfileCSV
	if err := gocsv.UnmarshalFile(f, &got); err != nil {
		t.Fatalf("reading perf.csv: %v", err)
	}
	if len(got) != 1 || got[0].WindowEnd != 48 || got[0].Ticks != 2 || got[0].Contacts != 3 {
		t.Errorf("rows = %+v", got)
	}
}
