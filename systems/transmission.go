package systems

import (
	"github.com/pthm-cable/contagion/components"
	"github.com/pthm-cable/contagion/config"
)

// Side identifies which member of a contact was infected.
type Side int8

const (
	SideNone Side = iota
	SideFirst
	SideSecond
)

// Infection records one successful transmission by population index.
type Infection struct {
	Target int
	Source int
}

// TransmissionParams holds the per-run transmission knobs.
type TransmissionParams struct {
	TransmissionRate float64 // percent [0,100] per contact
	VaccineEfficacy  float64 // percent [0,100]
	ContagiousAge    float64
}

// TransmissionParamsFrom reads transmission knobs from the config.
func TransmissionParamsFrom(cfg *config.Config) TransmissionParams {
	return TransmissionParams{
		TransmissionRate: cfg.Params.TransmissionRate,
		VaccineEfficacy:  cfg.Params.VaccineEfficacy,
		ContagiousAge:    cfg.Disease.ContagiousAge,
	}
}

// TransmissionSystem decides whether disease passes across a contact.
type TransmissionSystem struct {
	transmission float64 // probability
	efficacy     float64 // probability
	contagiousAt float64

	// Reusable buffer to avoid allocations
	infected []Infection
}

// NewTransmissionSystem creates a new transmission system.
func NewTransmissionSystem(p TransmissionParams) *TransmissionSystem {
	return &TransmissionSystem{
		transmission: p.TransmissionRate / 100,
		efficacy:     p.VaccineEfficacy / 100,
		contagiousAt: p.ContagiousAge,
		infected:     make([]Infection, 0, 16),
	}
}

// Pair evaluates one contact. Only one direction fires per contact: first to
// second when the first is contagious and the second can catch it, otherwise
// second to first. A pair of two contagious agents never transmits.
func (s *TransmissionSystem) Pair(a, b *components.Health, rng Rand) Side {
	switch {
	case a.CanSpread(s.contagiousAt) && b.CanCatch():
		if s.infects(b, rng) {
			return SideSecond
		}
	case b.CanSpread(s.contagiousAt) && a.CanCatch():
		if s.infects(a, rng) {
			return SideFirst
		}
	}
	return SideNone
}

// infects draws against the target and flags it infected on success.
// A vaccinated target takes a second independent draw against efficacy;
// both must pass.
func (s *TransmissionSystem) infects(target *components.Health, rng Rand) bool {
	hit := rng.Float64() <= s.transmission
	if target.Vaccinated {
		escaped := rng.Float64() > s.efficacy
		hit = hit && escaped
	}
	if hit {
		target.Infected = true
	}
	return hit
}

// Update evaluates every contact in order and returns the infections that
// happened this tick. The returned slice is reused on the next call.
func (s *TransmissionSystem) Update(pop *Population, contacts []Contact, rng Rand) []Infection {
	s.infected = s.infected[:0]
	for _, c := range contacts {
		switch s.Pair(pop.Health[c.I], pop.Health[c.J], rng) {
		case SideFirst:
			s.infected = append(s.infected, Infection{Target: c.I, Source: c.J})
		case SideSecond:
			s.infected = append(s.infected, Infection{Target: c.J, Source: c.I})
		}
	}
	return s.infected
}
