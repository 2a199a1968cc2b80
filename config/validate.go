package config

import (
	"errors"
	"fmt"
)

// MaxPopulation is the largest population allowed with exhaustive contact
// detection. It reflects the real-time cost of checking every pair, not a
// model limit; the grid broad phase lifts it.
const MaxPopulation = 120

// FieldError describes a single configuration value outside its valid range.
type FieldError struct {
	Field  string
	Value  any
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("config: %s = %v: %s", e.Field, e.Value, e.Reason)
}

// Validate checks the parameter tuple against its bounds.
// Every violation is reported; nothing is clamped.
func (p Params) Validate() error {
	var errs []error

	if p.PopulationSize < 0 {
		errs = append(errs, &FieldError{"params.population_size", p.PopulationSize, "must be non-negative"})
	}
	errs = append(errs,
		checkRange("params.infection_rate", p.InfectionRate, 0, 1),
		checkRange("params.vaccination_rate", p.VaccinationRate, 0, 100),
		checkRange("params.vaccine_efficacy", p.VaccineEfficacy, 0, 100),
		checkRange("params.transmission_rate", p.TransmissionRate, 0, 100),
		checkRange("params.immunity_rate", p.ImmunityRate, 0, 100),
	)

	return errors.Join(errs...)
}

// Validate checks the whole configuration, including the parameter tuple.
func (c *Config) Validate() error {
	errs := []error{c.Params.Validate()}

	if c.Agent.Radius <= 0 {
		errs = append(errs, &FieldError{"agent.radius", c.Agent.Radius, "must be positive"})
	}
	if c.Agent.Epsilon < 0 {
		errs = append(errs, &FieldError{"agent.epsilon", c.Agent.Epsilon, "must be non-negative"})
	}
	if c.Agent.Speed < 0 {
		errs = append(errs, &FieldError{"agent.speed", c.Agent.Speed, "must be non-negative"})
	}
	if c.World.Width <= 0 {
		errs = append(errs, &FieldError{"world.width", c.World.Width, "must be positive"})
	}
	if c.World.Height <= c.World.HeaderHeight {
		errs = append(errs, &FieldError{"world.height", c.World.Height, "must exceed header_height"})
	}
	if c.World.Bounds.Right <= c.World.Bounds.Left {
		errs = append(errs, &FieldError{"world.bounds.right", c.World.Bounds.Right, "must exceed bounds.left"})
	}
	if c.World.Bounds.Bottom <= c.World.Bounds.Top {
		errs = append(errs, &FieldError{"world.bounds.bottom", c.World.Bounds.Bottom, "must exceed bounds.top"})
	}

	d := c.Disease
	if d.AgePerTick <= 0 {
		errs = append(errs, &FieldError{"disease.age_per_tick", d.AgePerTick, "must be positive"})
	}
	if d.ContagiousAge < 0 {
		errs = append(errs, &FieldError{"disease.contagious_age", d.ContagiousAge, "must be non-negative"})
	}
	if d.ResolutionAge < d.ContagiousAge {
		errs = append(errs, &FieldError{"disease.resolution_age", d.ResolutionAge, "must not be below contagious_age"})
	}
	errs = append(errs,
		checkRange("disease.death_rate", d.DeathRate, 0, 1),
		checkRange("disease.recovery_chance", d.RecoveryChance, 0, 1),
	)
	switch d.ResolutionMode {
	case ResolutionIndependent, ResolutionLegacy:
	default:
		errs = append(errs, &FieldError{"disease.resolution_mode", d.ResolutionMode, "must be independent or legacy"})
	}

	switch c.Collision.BroadPhase {
	case BroadPhaseNone:
		if c.Params.PopulationSize > MaxPopulation {
			errs = append(errs, &FieldError{"params.population_size", c.Params.PopulationSize,
				fmt.Sprintf("must be at most %d with exhaustive contact detection (use collision.broad_phase: grid)", MaxPopulation)})
		}
	case BroadPhaseGrid:
		if c.Collision.GridCellSize < c.Derived.ContactDistance {
			errs = append(errs, &FieldError{"collision.grid_cell_size", c.Collision.GridCellSize, "must be at least the contact distance"})
		}
	default:
		errs = append(errs, &FieldError{"collision.broad_phase", c.Collision.BroadPhase, "must be none or grid"})
	}

	if c.Telemetry.WindowTicks <= 0 {
		errs = append(errs, &FieldError{"telemetry.window_ticks", c.Telemetry.WindowTicks, "must be positive"})
	}

	return errors.Join(errs...)
}

// checkRange returns a FieldError when v is outside [lo, hi], nil otherwise.
// NaN is always out of range.
func checkRange(field string, v, lo, hi float64) error {
	if v >= lo && v <= hi {
		return nil
	}
	return &FieldError{field, v, fmt.Sprintf("must be in [%g, %g]", lo, hi)}
}
