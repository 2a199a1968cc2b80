package game

import (
	"github.com/pthm-cable/contagion/components"
	"github.com/pthm-cable/contagion/config"
)

// Agent is a read-only copy of one agent's state.
type Agent struct {
	ID       uint32
	Position components.Position
	Velocity components.Velocity
	Health   components.Health
	Status   components.Status
}

// Display holds the aggregate values shown next to the board.
type Display struct {
	InfectionRate float64 // infected / live
	Population    int     // live agents
	Healthy       int
	Infected      int
	Immune        int
	Deaths        int

	// Params is the run's fixed parameter set.
	Params config.Params

	Day  uint
	Hour float64

	Finished bool
	Elapsed  float64 // fractional days, for the closing screen
}

// Frame is everything a renderer receives for one tick.
// Agents is only valid until the next tick.
type Frame struct {
	Agents  []Agent
	Display Display
}

// Renderer receives one frame per tick.
type Renderer interface {
	Render(Frame)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(Frame)

// Render calls f(frame).
func (f RendererFunc) Render(frame Frame) {
	f(frame)
}
