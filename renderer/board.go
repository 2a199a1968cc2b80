// Package renderer draws the simulation board with raylib.
package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/contagion/components"
	"github.com/pthm-cable/contagion/config"
	"github.com/pthm-cable/contagion/game"
)

// StatusColors maps each epidemiological status to its circle color.
var StatusColors = map[components.Status]rl.Color{
	components.StatusContagious:  rl.Red,
	components.StatusIncubating:  rl.Orange,
	components.StatusSusceptible: rl.Green,
	components.StatusImmune:      rl.Violet,
}

// Board draws agents on the square board with the clock header above.
// It implements game.Renderer: Render stores the latest frame, Draw paints it.
type Board struct {
	width        int32
	height       int32
	headerHeight int32
	radius       float32

	frame  game.Frame
	agents []game.Agent
}

// NewBoard creates a board sized from the world config.
func NewBoard(cfg *config.Config) *Board {
	return &Board{
		width:        int32(cfg.World.Width) + 2*int32(cfg.Agent.Radius) + 2,
		height:       int32(cfg.World.Height),
		headerHeight: int32(cfg.World.HeaderHeight),
		radius:       float32(cfg.Agent.Radius),
	}
}

// Width returns the board width in pixels, including the right border.
func (b *Board) Width() int32 {
	return b.width
}

// Render keeps a copy of the frame for the next Draw.
func (b *Board) Render(f game.Frame) {
	b.agents = append(b.agents[:0], f.Agents...)
	b.frame = game.Frame{Agents: b.agents, Display: f.Display}
}

// Frame returns the last frame received.
func (b *Board) Frame() game.Frame {
	return b.frame
}

// Draw paints the board, the header clock, and every agent.
// Call between rl.BeginDrawing and rl.EndDrawing.
func (b *Board) Draw() {
	d := b.frame.Display

	rl.DrawLine(b.width, 0, b.width, b.height, rl.Black)
	rl.DrawLine(0, b.headerHeight, b.width, b.headerHeight, rl.Black)

	rl.DrawText(fmt.Sprintf("DAY: %d", d.Day), 5, 5, 12, rl.Black)
	rl.DrawText(fmt.Sprintf("HOUR: %02d", int(d.Hour)), 55, 5, 12, rl.Black)

	for _, a := range b.frame.Agents {
		// Position is the top-left of the circle's bounding box.
		cx := float32(a.Position.X) + b.radius
		cy := float32(a.Position.Y) + b.radius
		rl.DrawCircleV(rl.Vector2{X: cx, Y: cy}, b.radius, StatusColors[a.Status])
	}
}

// DrawClosing paints the end-of-run screen with the elapsed simulated time.
func DrawClosing(d game.Display) {
	box := func(x, y, w, h int32) {
		rl.DrawRectangleLines(x, y, w, h, rl.Black)
		rl.DrawRectangleLines(x-1, y-1, w+2, h+2, rl.Black)
	}

	rl.DrawText("SIMULATION COMPLETE", 305, 101, 24, rl.Black)
	box(299, 100, 290, 25)

	rl.DrawText("SIMULATION TIME", 345, 151, 24, rl.Black)
	box(340, 150, 215, 25)

	rl.DrawText(fmt.Sprintf("%.2f DAYS", d.Elapsed), 385, 190, 24, rl.Black)
	box(340, 150, 215, 80)

	summary := fmt.Sprintf("Deaths: %d  Immune: %d  Survivors: %d", d.Deaths, d.Immune, d.Population)
	rl.DrawText(summary, 340, 245, 16, rl.DarkGray)
}
