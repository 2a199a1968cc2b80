// Package components defines ECS components for the simulation.
package components

// Position represents an agent's top-left anchor on the board.
// The circle center is Position plus the agent radius on both axes.
type Position struct {
	X, Y float64
}

// Velocity represents an agent's per-tick displacement.
type Velocity struct {
	X, Y float64
}

// SpeedSq returns the squared magnitude (kinetic energy for unit mass, times two).
func (v Velocity) SpeedSq() float64 {
	return v.X*v.X + v.Y*v.Y
}
