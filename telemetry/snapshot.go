package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/pthm-cable/contagion/config"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 2

// NewRunID returns a fresh identifier for a simulation run.
func NewRunID() string {
	return uuid.NewString()
}

// Snapshot holds the complete simulation state needed to resume a run.
type Snapshot struct {
	Version int    `msgpack:"version"`
	RunID   string `msgpack:"run_id"`
	Seed    uint64 `msgpack:"seed"`

	// RNG is the binary state of the run's PCG source.
	RNG []byte `msgpack:"rng"`

	// The run's model configuration. A restored run uses these, not the
	// caller's config, so it evolves exactly as the original would have.
	Params    config.Params          `msgpack:"params"`
	World     config.WorldConfig     `msgpack:"world"`
	Agent     config.AgentConfig     `msgpack:"agent"`
	Disease   config.DiseaseConfig   `msgpack:"disease"`
	Collision config.CollisionConfig `msgpack:"collision"`

	Tick         int     `msgpack:"tick"`
	Day          uint    `msgpack:"day"`
	Hour         float64 `msgpack:"hour"`
	Deaths       int     `msgpack:"deaths"`
	PeakInfected int     `msgpack:"peak_infected"`

	Agents []AgentRecord `msgpack:"agents"`

	Bookmark *Bookmark `msgpack:"bookmark,omitempty"`
}

// AgentRecord holds one agent's complete state, in population order.
type AgentRecord struct {
	ID           uint32  `msgpack:"id"`
	X            float64 `msgpack:"x"`
	Y            float64 `msgpack:"y"`
	VelX         float64 `msgpack:"vx"`
	VelY         float64 `msgpack:"vy"`
	Infected     bool    `msgpack:"infected"`
	InfectionAge float64 `msgpack:"infection_age"`
	Vaccinated   bool    `msgpack:"vaccinated"`
	Immune       bool    `msgpack:"immune"`
}

// SaveSnapshot writes a snapshot to disk as
// <run id>_snapshot_<tick>[_<bookmark>].msgpack, so runs sharing a directory
// never overwrite each other. Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.RunID != "" {
		name = snapshot.RunID + "_" + name
	}
	if snapshot.Bookmark != nil {
		name += "_" + strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
	}
	name += ".msgpack"

	path := filepath.Join(dir, name)

	data, err := msgpack.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := msgpack.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
