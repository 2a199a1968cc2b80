// Package systems contains the per-tick simulation systems.
package systems

import (
	"github.com/pthm-cable/contagion/components"
	"github.com/pthm-cable/contagion/config"
)

// Bounds holds the reflection thresholds of the board.
type Bounds struct {
	Left, Right, Top, Bottom float64
}

// BoundsFrom converts the configured thresholds.
func BoundsFrom(b config.BoundsConfig) Bounds {
	return Bounds{Left: b.Left, Right: b.Right, Top: b.Top, Bottom: b.Bottom}
}

// Wall identifies which threshold an agent crossed this tick.
type Wall uint8

const (
	WallNone Wall = iota
	WallRight
	WallLeft
	WallBottom
	WallTop
)

// Move advances every agent by its velocity and reflects boundary crossings.
func Move(pop *Population, b Bounds) {
	for i := range pop.Pos {
		pos, vel := pop.Pos[i], pop.Vel[i]
		pos.X += vel.X
		pos.Y += vel.Y
		Reflect(pos, vel, b)
	}
}

// Reflect applies at most one axial reflection, checked right, left, bottom,
// then top. The position is nudged one unit back inside so the same wall
// does not trigger again next tick.
func Reflect(pos *components.Position, vel *components.Velocity, b Bounds) Wall {
	switch {
	case pos.X >= b.Right:
		vel.X = -vel.X
		pos.X -= 1
		return WallRight
	case pos.X <= b.Left:
		vel.X = -vel.X
		pos.X += 1
		return WallLeft
	case pos.Y >= b.Bottom:
		vel.Y = -vel.Y
		pos.Y -= 1
		return WallBottom
	case pos.Y < b.Top:
		vel.Y = -vel.Y
		pos.Y += 1
		return WallTop
	}
	return WallNone
}
