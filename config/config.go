// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Agent     AgentConfig     `yaml:"agent"`
	Disease   DiseaseConfig   `yaml:"disease"`
	Params    Params          `yaml:"params"`
	Collision CollisionConfig `yaml:"collision"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the board geometry: where agents spawn and where they bounce.
type WorldConfig struct {
	Width        float64      `yaml:"width"`         // Board width (spawn x range is [0, width))
	Height       float64      `yaml:"height"`        // Board height (spawn y max)
	HeaderHeight float64      `yaml:"header_height"` // Strip at the top reserved for the clock
	Bounds       BoundsConfig `yaml:"bounds"`
}

// BoundsConfig holds the reflection thresholds checked after every move.
type BoundsConfig struct {
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
}

// AgentConfig holds per-agent physical constants.
type AgentConfig struct {
	Radius  float64 `yaml:"radius"`  // Circle radius; center = position + radius
	Speed   float64 `yaml:"speed"`   // Velocity magnitude at spawn
	Epsilon float64 `yaml:"epsilon"` // Contact tolerance added to the diameter
}

// ResolutionMode selects how the infection resolver treats a "no progress" outcome.
type ResolutionMode string

const (
	// ResolutionIndependent resolves every agent on its own.
	ResolutionIndependent ResolutionMode = "independent"
	// ResolutionLegacy stops the whole pass on the first "no progress" outcome.
	ResolutionLegacy ResolutionMode = "legacy"
)

// DiseaseConfig holds the fixed epidemiological constants.
type DiseaseConfig struct {
	ContagiousAge  float64        `yaml:"contagious_age"`  // Infection age at which an agent starts spreading
	ResolutionAge  float64        `yaml:"resolution_age"`  // Infection age at which resolution is attempted
	AgePerTick     float64        `yaml:"age_per_tick"`    // Infection age added per tick
	DeathRate      float64        `yaml:"death_rate"`      // Compared against draw*0.01
	RecoveryChance float64        `yaml:"recovery_chance"` // Chance per tick to leave infection once past resolution age
	ResolutionMode ResolutionMode `yaml:"resolution_mode"`
}

// Params is the user-adjustable parameter tuple fixed at run start.
type Params struct {
	PopulationSize   int     `yaml:"population_size"`
	InfectionRate    float64 `yaml:"infection_rate"`    // Fraction [0,1] infected at start
	VaccinationRate  float64 `yaml:"vaccination_rate"`  // Percent [0,100] vaccinated at start
	VaccineEfficacy  float64 `yaml:"vaccine_efficacy"`  // Percent [0,100]
	TransmissionRate float64 `yaml:"transmission_rate"` // Percent [0,100] per contact
	ImmunityRate     float64 `yaml:"immunity_rate"`     // Percent [0,100] of recoveries that become immune
}

// BroadPhase selects the contact candidate generator.
type BroadPhase string

const (
	BroadPhaseNone BroadPhase = "none"
	BroadPhaseGrid BroadPhase = "grid"
)

// CollisionConfig holds contact detection settings.
type CollisionConfig struct {
	BroadPhase   BroadPhase `yaml:"broad_phase"`
	GridCellSize float64    `yaml:"grid_cell_size"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	WindowTicks     int  `yaml:"window_ticks"`     // Ticks per stats window (48 = one simulated day)
	BookmarkHistory int  `yaml:"bookmark_history"` // Windows kept for bookmark detection
	Spreaders       int  `yaml:"spreaders"`        // Entries kept in spreaders.json
	Chart           bool `yaml:"chart"`            // Render curve.png on close
	ChartWidth      int  `yaml:"chart_width"`
	ChartHeight     int  `yaml:"chart_height"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Diameter        float64 // 2 * Agent.Radius
	ContactDistance float64 // Diameter + Epsilon
	SpawnMinY       float64 // World.HeaderHeight
	SpawnMaxY       float64 // World.Height
	TicksPerDay     int     // 24 hours / 0.5 hours per tick
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.ComputeDerived()

	return cfg, nil
}

// ComputeDerived recalculates values derived from the loaded config.
// Call it again after mutating a Config in place.
func (c *Config) ComputeDerived() {
	c.Derived.Diameter = 2 * c.Agent.Radius
	c.Derived.ContactDistance = c.Derived.Diameter + c.Agent.Epsilon
	c.Derived.SpawnMinY = c.World.HeaderHeight
	c.Derived.SpawnMaxY = c.World.Height

	c.Derived.TicksPerDay = 48
	if c.Disease.AgePerTick > 0 {
		c.Derived.TicksPerDay = int(24 / c.Disease.AgePerTick)
	}

	if c.Disease.ResolutionMode == "" {
		c.Disease.ResolutionMode = ResolutionIndependent
	}
	if c.Collision.BroadPhase == "" {
		c.Collision.BroadPhase = BroadPhaseNone
	}
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	return &out
}

// WithParams returns a copy of the configuration with the given parameters applied.
func (c *Config) WithParams(p Params) *Config {
	out := c.Clone()
	out.Params = p
	out.ComputeDerived()
	return out
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
