package systems

import (
	"github.com/pthm-cable/contagion/config"
)

// deathDrawScale is applied to the death draw before comparing to the death rate.
const deathDrawScale = 0.01

// ResolutionParams holds the resolver knobs.
type ResolutionParams struct {
	ResolutionAge  float64
	DeathRate      float64
	RecoveryChance float64 // chance per tick of leaving infection once eligible
	ImmunityRate   float64 // percent [0,100] of recoveries that become immune
	Mode           config.ResolutionMode
}

// ResolutionParamsFrom reads resolver knobs from the config.
func ResolutionParamsFrom(cfg *config.Config) ResolutionParams {
	return ResolutionParams{
		ResolutionAge:  cfg.Disease.ResolutionAge,
		DeathRate:      cfg.Disease.DeathRate,
		RecoveryChance: cfg.Disease.RecoveryChance,
		ImmunityRate:   cfg.Params.ImmunityRate,
		Mode:           cfg.Disease.ResolutionMode,
	}
}

// Resolution lists what happened during one resolver pass, by population index.
type Resolution struct {
	Deaths    []int
	Immunized []int
	Relapsed  []int
	Stalled   []int

	// Stopped is set when a legacy pass ended early at StoppedAt.
	Stopped   bool
	StoppedAt int
}

func (r *Resolution) reset() {
	r.Deaths = r.Deaths[:0]
	r.Immunized = r.Immunized[:0]
	r.Relapsed = r.Relapsed[:0]
	r.Stalled = r.Stalled[:0]
	r.Stopped = false
	r.StoppedAt = 0
}

// AgeInfections advances the infection age of every infected agent.
func AgeInfections(pop *Population, agePerTick float64) {
	for _, h := range pop.Health {
		if h.Infected {
			h.InfectionAge += agePerTick
		}
	}
}

// ResolutionSystem ends long-running infections in death, immunity, or relapse.
type ResolutionSystem struct {
	params ResolutionParams
	res    Resolution
}

// NewResolutionSystem creates a new resolution system.
func NewResolutionSystem(p ResolutionParams) *ResolutionSystem {
	return &ResolutionSystem{params: p}
}

// Update runs one pass in population order. Dead agents are only reported;
// the caller removes them after the pass, so indices stay valid throughout.
// The returned Resolution is reused on the next call.
func (s *ResolutionSystem) Update(pop *Population, rng Rand) *Resolution {
	s.res.reset()
	p := s.params
	immunity := p.ImmunityRate / 100

	for i, h := range pop.Health {
		if !h.Infected || h.InfectionAge < p.ResolutionAge {
			continue
		}

		x := rng.Float64()
		if x*deathDrawScale <= p.DeathRate {
			s.res.Deaths = append(s.res.Deaths, i)
			continue
		}

		if rng.Float64() > p.RecoveryChance {
			s.res.Stalled = append(s.res.Stalled, i)
			if p.Mode == config.ResolutionLegacy {
				s.res.Stopped = true
				s.res.StoppedAt = i
				break
			}
			continue
		}

		// The immunity decision reuses the death draw.
		h.Infected = false
		h.InfectionAge = 0
		if x <= immunity {
			h.Immune = true
			s.res.Immunized = append(s.res.Immunized, i)
		} else {
			s.res.Relapsed = append(s.res.Relapsed, i)
		}
	}

	return &s.res
}
