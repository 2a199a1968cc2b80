package systems

import (
	"testing"

	"github.com/pthm-cable/contagion/components"
)

var testBounds = Bounds{Left: 0, Right: 502, Top: 21, Bottom: 502}

func TestReflect(t *testing.T) {
	tests := []struct {
		name    string
		pos     components.Position
		vel     components.Velocity
		want    Wall
		wantPos components.Position
		wantVel components.Velocity
	}{
		{
			name: "inside",
			pos:  components.Position{X: 100, Y: 100}, vel: components.Velocity{X: 1, Y: 0},
			want: WallNone, wantPos: components.Position{X: 100, Y: 100}, wantVel: components.Velocity{X: 1, Y: 0},
		},
		{
			name: "right",
			pos:  components.Position{X: 502.5, Y: 100}, vel: components.Velocity{X: 0.6, Y: 0.8},
			want: WallRight, wantPos: components.Position{X: 501.5, Y: 100}, wantVel: components.Velocity{X: -0.6, Y: 0.8},
		},
		{
			name: "left",
			pos:  components.Position{X: -0.5, Y: 100}, vel: components.Velocity{X: -0.6, Y: 0.8},
			want: WallLeft, wantPos: components.Position{X: 0.5, Y: 100}, wantVel: components.Velocity{X: 0.6, Y: 0.8},
		},
		{
			name: "bottom",
			pos:  components.Position{X: 50, Y: 502}, vel: components.Velocity{X: 0.6, Y: 0.8},
			want: WallBottom, wantPos: components.Position{X: 50, Y: 501}, wantVel: components.Velocity{X: 0.6, Y: -0.8},
		},
		{
			name: "top",
			pos:  components.Position{X: 50, Y: 20.5}, vel: components.Velocity{X: 0.6, Y: -0.8},
			want: WallTop, wantPos: components.Position{X: 50, Y: 21.5}, wantVel: components.Velocity{X: 0.6, Y: 0.8},
		},
		{
			name: "corner reflects x only",
			pos:  components.Position{X: 503, Y: 503}, vel: components.Velocity{X: 0.6, Y: 0.8},
			want: WallRight, wantPos: components.Position{X: 502, Y: 503}, wantVel: components.Velocity{X: -0.6, Y: 0.8},
		},
		{
			name: "top left corner reflects x only",
			pos:  components.Position{X: -1, Y: 10}, vel: components.Velocity{X: -0.6, Y: -0.8},
			want: WallLeft, wantPos: components.Position{X: 0, Y: 10}, wantVel: components.Velocity{X: 0.6, Y: -0.8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, vel := tt.pos, tt.vel
			got := Reflect(&pos, &vel, testBounds)
			if got != tt.want {
				t.Errorf("wall = %v, want %v", got, tt.want)
			}
			if pos != tt.wantPos {
				t.Errorf("pos = %+v, want %+v", pos, tt.wantPos)
			}
			if vel != tt.wantVel {
				t.Errorf("vel = %+v, want %+v", vel, tt.wantVel)
			}
		})
	}
}

func TestMoveTowardWall(t *testing.T) {
	states := []AgentState{{
		Position: components.Position{X: 501.5, Y: 200},
		Velocity: components.Velocity{X: 1, Y: 0},
	}}
	pop := ViewOf(states)

	Move(pop, testBounds)

	if states[0].Velocity.X != -1 {
		t.Errorf("vx = %v, want -1", states[0].Velocity.X)
	}
	if states[0].Position.X >= testBounds.Right {
		t.Errorf("x = %v, want < %v", states[0].Position.X, testBounds.Right)
	}

	Move(pop, testBounds)
	if states[0].Velocity.X != -1 {
		t.Errorf("second tick flipped again: vx = %v", states[0].Velocity.X)
	}
}

func TestMoveStaysInsideBounds(t *testing.T) {
	spawn := Spawn{Width: 500, MinY: 22, MaxY: 500, Speed: 1}
	states := NewPopulation(120, 0, 0, spawn, newRNG(3))
	pop := ViewOf(states)

	// Reflection is one-axis-per-tick, so a corner can overshoot by one step.
	slack := spawn.Speed + 1e-9
	for tick := 0; tick < 5000; tick++ {
		Move(pop, testBounds)
		for i, s := range states {
			p := s.Position
			if p.X < testBounds.Left-slack || p.X > testBounds.Right+slack ||
				p.Y < testBounds.Top-slack || p.Y > testBounds.Bottom+slack {
				t.Fatalf("tick %d agent %d escaped: %+v", tick, i, p)
			}
		}
	}
}
