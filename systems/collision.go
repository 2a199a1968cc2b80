package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/contagion/components"
	"github.com/pthm-cable/contagion/config"
)

// Contact is an unordered pair of agents in physical contact, stored with I < J.
type Contact struct {
	I, J int
}

// Geometry holds the contact test constants.
type Geometry struct {
	Radius          float64 // center = position + Radius on both axes
	ContactDistance float64 // diameter + epsilon
}

// GeometryFrom reads contact geometry from the config.
func GeometryFrom(cfg *config.Config) Geometry {
	return Geometry{
		Radius:          cfg.Agent.Radius,
		ContactDistance: cfg.Derived.ContactDistance,
	}
}

// Center returns the circle center of an agent anchored at pos.
func (g Geometry) Center(pos components.Position) r2.Vec {
	return r2.Vec{X: pos.X + g.Radius, Y: pos.Y + g.Radius}
}

// InContact reports whether the circles anchored at a and b touch.
func (g Geometry) InContact(a, b components.Position) bool {
	return r2.Norm(r2.Sub(g.Center(b), g.Center(a))) <= g.ContactDistance
}

// DetectContacts examines every pair exactly once and appends contacts to dst
// in increasing I, then increasing J.
func DetectContacts(pop *Population, g Geometry, dst []Contact) []Contact {
	n := pop.Len()
	for i := 0; i < n; i++ {
		a := *pop.Pos[i]
		for j := i + 1; j < n; j++ {
			if g.InContact(a, *pop.Pos[j]) {
				dst = append(dst, Contact{I: i, J: j})
			}
		}
	}
	return dst
}

// Detector produces the contact list for a tick, optionally through a grid
// broad-phase. Both paths return identical lists.
type Detector struct {
	geom Geometry
	grid *SpatialGrid // nil = exhaustive
}

// NewDetector creates a detector. A nil grid selects exhaustive pair checks.
func NewDetector(geom Geometry, grid *SpatialGrid) *Detector {
	return &Detector{geom: geom, grid: grid}
}

// NewDetectorFromConfig builds the detector the config asks for.
func NewDetectorFromConfig(cfg *config.Config) *Detector {
	geom := GeometryFrom(cfg)
	if cfg.Collision.BroadPhase != config.BroadPhaseGrid {
		return NewDetector(geom, nil)
	}
	b := cfg.World.Bounds
	grid := NewSpatialGrid(b.Left, b.Top, b.Right+2*geom.Radius, b.Bottom+2*geom.Radius, cfg.Collision.GridCellSize)
	return NewDetector(geom, grid)
}

// Detect appends this tick's contacts to dst and returns it.
func (d *Detector) Detect(pop *Population, dst []Contact) []Contact {
	if d.grid == nil {
		return DetectContacts(pop, d.geom, dst)
	}
	return d.grid.Contacts(pop, d.geom, dst)
}

// Collide applies an equal-mass elastic collision to a contacting pair: the
// velocity components along the center line are exchanged and the tangential
// components are kept. Coincident centers have no collision axis and are left
// unchanged.
func Collide(g Geometry, pa, pb components.Position, va, vb *components.Velocity) {
	normal := r2.Sub(g.Center(pb), g.Center(pa))
	dist := r2.Norm(normal)
	if dist == 0 {
		return
	}
	normal = r2.Scale(1/dist, normal)

	v1 := r2.Vec{X: va.X, Y: va.Y}
	v2 := r2.Vec{X: vb.X, Y: vb.Y}
	u1 := r2.Dot(v1, normal)
	u2 := r2.Dot(v2, normal)

	v1 = r2.Add(v1, r2.Scale(u2-u1, normal))
	v2 = r2.Add(v2, r2.Scale(u1-u2, normal))

	va.X, va.Y = v1.X, v1.Y
	vb.X, vb.Y = v2.X, v2.Y
}
