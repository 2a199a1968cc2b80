package systems

import (
	"math"
	"math/rand/v2"

	"github.com/pthm-cable/contagion/components"
)

// Rand is the subset of *rand.Rand the stochastic systems draw from.
type Rand interface {
	Float64() float64
}

// AgentState bundles the components of one agent outside the ECS world.
// Used to seed a population and to restore snapshots.
type AgentState struct {
	Position components.Position
	Velocity components.Velocity
	Health   components.Health
}

// Population is an index-ordered view over live agent components.
// The index is the agent's position in population order; every system
// visits agents in that order. The pointers are only valid until the
// next structural change of the owning world.
type Population struct {
	Pos    []*components.Position
	Vel    []*components.Velocity
	Health []*components.Health
}

// Len returns the number of agents in the view.
func (p *Population) Len() int {
	return len(p.Pos)
}

// Reset empties the view, keeping capacity.
func (p *Population) Reset() {
	p.Pos = p.Pos[:0]
	p.Vel = p.Vel[:0]
	p.Health = p.Health[:0]
}

// Append adds one agent to the end of the view.
func (p *Population) Append(pos *components.Position, vel *components.Velocity, h *components.Health) {
	p.Pos = append(p.Pos, pos)
	p.Vel = append(p.Vel, vel)
	p.Health = append(p.Health, h)
}

// ViewOf builds a view over a slice of agent states. Mutations through the
// view write back into states.
func ViewOf(states []AgentState) *Population {
	p := &Population{
		Pos:    make([]*components.Position, 0, len(states)),
		Vel:    make([]*components.Velocity, 0, len(states)),
		Health: make([]*components.Health, 0, len(states)),
	}
	for i := range states {
		p.Append(&states[i].Position, &states[i].Velocity, &states[i].Health)
	}
	return p
}

// Spawn describes where new agents appear and how fast they move.
type Spawn struct {
	Width float64 // x in [0, Width)
	MinY  float64 // y in [MinY, MaxY)
	MaxY  float64
	Speed float64
}

// NewPopulation creates size agents with uniform positions and headings.
// Exactly floor(infectionRate*size) agents are infected and exactly
// floor(vaccinationRate/100*size) are vaccinated; each set is an independent
// sample without replacement, so the two may overlap.
func NewPopulation(size int, infectionRate, vaccinationRate float64, spawn Spawn, rng *rand.Rand) []AgentState {
	if size <= 0 {
		return nil
	}

	agents := make([]AgentState, size)
	for i := range agents {
		x := rng.Float64() * spawn.Width
		y := spawn.MinY + rng.Float64()*(spawn.MaxY-spawn.MinY)
		heading := rng.Float64() * 2 * math.Pi

		agents[i] = AgentState{
			Position: components.Position{X: x, Y: y},
			Velocity: components.Velocity{
				X: math.Cos(heading) * spawn.Speed,
				Y: math.Sin(heading) * spawn.Speed,
			},
		}
	}

	for _, i := range sample(rng, size, targetCount(infectionRate, size)) {
		agents[i].Health.Infected = true
	}
	for _, i := range sample(rng, size, targetCount(vaccinationRate/100, size)) {
		agents[i].Health.Vaccinated = true
	}

	return agents
}

// targetCount returns floor(fraction*size) clamped to [0, size].
func targetCount(fraction float64, size int) int {
	n := int(math.Floor(fraction * float64(size)))
	if n < 0 {
		return 0
	}
	if n > size {
		return size
	}
	return n
}

// sample returns k distinct indices in [0, n) chosen uniformly.
func sample(rng *rand.Rand, n, k int) []int {
	if k == 0 {
		return nil
	}
	return rng.Perm(n)[:k]
}
