package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pthm-cable/contagion/config"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version: SnapshotVersion,
		RunID:   NewRunID(),
		Seed:    42,
		RNG:     []byte{1, 2, 3, 4},
		Params: config.Params{
			PopulationSize:   2,
			InfectionRate:    0.5,
			VaccinationRate:  50,
			VaccineEfficacy:  50,
			TransmissionRate: 10,
			ImmunityRate:     50,
		},
		Disease: config.DiseaseConfig{
			ContagiousAge:  240,
			ResolutionAge:  480,
			AgePerTick:     0.5,
			DeathRate:      0.003,
			RecoveryChance: 0.2,
			ResolutionMode: config.ResolutionLegacy,
		},
		World:        config.WorldConfig{Width: 300, Height: 300, HeaderHeight: 20, Bounds: config.BoundsConfig{Right: 302, Top: 21, Bottom: 302}},
		Agent:        config.AgentConfig{Radius: 5, Speed: 1, Epsilon: 0.0001},
		Collision:    config.CollisionConfig{BroadPhase: config.BroadPhaseGrid, GridCellSize: 16},
		Tick:         1000,
		Day:          20,
		Hour:         20,
		Deaths:       3,
		PeakInfected: 40,
		Agents: []AgentRecord{
			{ID: 1, X: 150, Y: 250, VelX: 0.6, VelY: -0.8, Infected: true, InfectionAge: 300.5},
			{ID: 2, X: 10, Y: 40, VelX: -1, Vaccinated: true, Immune: true},
		},
		Bookmark: &Bookmark{
			Type:        BookmarkFirstDeath,
			Tick:        1000,
			Description: "Test bookmark",
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.RunID != snapshot.RunID || loaded.Seed != snapshot.Seed || loaded.Tick != snapshot.Tick {
		t.Errorf("header mismatch: got %+v", loaded)
	}
	if string(loaded.RNG) != string(snapshot.RNG) {
		t.Errorf("RNG state mismatch: got %v", loaded.RNG)
	}
	if loaded.Params != snapshot.Params {
		t.Errorf("params mismatch: got %+v", loaded.Params)
	}
	if loaded.World != snapshot.World || loaded.Agent != snapshot.Agent ||
		loaded.Disease != snapshot.Disease || loaded.Collision != snapshot.Collision {
		t.Errorf("model config mismatch: got %+v %+v %+v %+v", loaded.World, loaded.Agent, loaded.Disease, loaded.Collision)
	}
	if len(loaded.Agents) != len(snapshot.Agents) {
		t.Fatalf("Agents count mismatch: got %d, want %d", len(loaded.Agents), len(snapshot.Agents))
	}
	for i := range snapshot.Agents {
		if loaded.Agents[i] != snapshot.Agents[i] {
			t.Errorf("agent %d: got %+v, want %+v", i, loaded.Agents[i], snapshot.Agents[i])
		}
	}
	if loaded.Bookmark == nil {
		t.Error("Bookmark not loaded")
	} else if loaded.Bookmark.Type != snapshot.Bookmark.Type {
		t.Errorf("Bookmark type mismatch: got %s, want %s", loaded.Bookmark.Type, snapshot.Bookmark.Type)
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()
	herd := &Bookmark{Type: BookmarkHerdImmunity, Tick: 5000}

	tests := []struct {
		name string
		snap *Snapshot
		want string
	}{
		{"bookmark", &Snapshot{Version: SnapshotVersion, RunID: "run-a", Tick: 5000, Bookmark: herd}, "run-a_snapshot_5000_herd_immunity.msgpack"},
		{"plain", &Snapshot{Version: SnapshotVersion, RunID: "run-a", Tick: 3000}, "run-a_snapshot_3000.msgpack"},
		{"other run same tick", &Snapshot{Version: SnapshotVersion, RunID: "run-b", Tick: 3000}, "run-b_snapshot_3000.msgpack"},
		{"no run id", &Snapshot{Version: SnapshotVersion, Tick: 3000}, "snapshot_3000.msgpack"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := SaveSnapshot(tt.snap, tmpDir)
			if err != nil {
				t.Fatalf("SaveSnapshot failed: %v", err)
			}
			if want := filepath.Join(tmpDir, tt.want); path != want {
				t.Errorf("Path mismatch: got %s, want %s", path, want)
			}
		})
	}

	// Two runs at the same tick keep separate files.
	a, err := LoadSnapshot(filepath.Join(tmpDir, "run-a_snapshot_3000.msgpack"))
	if err != nil {
		t.Fatal(err)
	}
	if a.RunID != "run-a" {
		t.Errorf("run-a file holds run %q", a.RunID)
	}
}

func TestLoadSnapshotRejectsOtherVersions(t *testing.T) {
	data, err := msgpack.Marshal(&Snapshot{Version: SnapshotVersion + 1})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "future.msgpack")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSnapshot(path); err == nil || !strings.Contains(err.Error(), "version") {
		t.Errorf("err = %v, want version error", err)
	}
}

func TestNewRunIDUnique(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == b || len(a) != 36 {
		t.Errorf("run IDs %q and %q", a, b)
	}
}
