package game

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/contagion/components"
)

// ErrFailed is returned by Step once a run has stopped on an invariant violation.
var ErrFailed = errors.New("simulation failed")

// InvariantError reports an agent or population state that must never occur.
type InvariantError struct {
	Tick   int
	Index  int // population index, -1 for population-wide violations
	Health components.Health
	Reason string
}

func (e *InvariantError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("tick %d: %s", e.Tick, e.Reason)
	}
	return fmt.Sprintf("tick %d: agent %d: %s (infected=%t age=%g immune=%t)",
		e.Tick, e.Index, e.Reason, e.Health.Infected, e.Health.InfectionAge, e.Health.Immune)
}

// checkInvariants verifies the state after a tick. The population never grows,
// and every agent's health flags are consistent.
func (s *Simulation) checkInvariants(prevLive int) error {
	if n := s.view.Len(); n > prevLive {
		return &InvariantError{
			Tick:   s.tick,
			Index:  -1,
			Reason: fmt.Sprintf("population grew from %d to %d", prevLive, n),
		}
	}
	for i, h := range s.view.Health {
		if ok, reason := h.Consistent(); !ok {
			return &InvariantError{Tick: s.tick, Index: i, Health: *h, Reason: reason}
		}
	}
	return nil
}
