package components

// Health holds an agent's epidemiological record.
type Health struct {
	Infected     bool
	InfectionAge float64 // 0 while not infected; reset on resolution
	Vaccinated   bool    // fixed at creation
	Immune       bool    // once set, never cleared
}

// Status derives the display/transmission state from the record.
// contagiousAge is the infection age at which an agent starts spreading.
func (h Health) Status(contagiousAge float64) Status {
	switch {
	case h.Infected && h.InfectionAge >= contagiousAge:
		return StatusContagious
	case h.Infected:
		return StatusIncubating
	case h.Immune:
		return StatusImmune
	default:
		return StatusSusceptible
	}
}

// CanSpread reports whether the agent can pass the infection on contact.
func (h Health) CanSpread(contagiousAge float64) bool {
	return h.Infected && h.InfectionAge >= contagiousAge
}

// CanCatch reports whether the agent can be infected on contact.
func (h Health) CanCatch() bool {
	return !h.Infected && !h.Immune
}

// Consistent reports whether the record satisfies the state machine invariants.
// It returns a short reason when it does not.
func (h Health) Consistent() (bool, string) {
	if h.Infected && h.Immune {
		return false, "infected and immune"
	}
	if h.InfectionAge > 0 && !h.Infected {
		return false, "infection age without infection"
	}
	if h.InfectionAge < 0 {
		return false, "negative infection age"
	}
	return true, ""
}
