package main

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/contagion/config"
	"github.com/pthm-cable/contagion/game"
	"github.com/pthm-cable/contagion/renderer"
	"github.com/pthm-cable/contagion/ui"
)

// phase is where the window is in a run's lifecycle.
type phase int

const (
	phaseSetup phase = iota
	phaseRunning
	phaseComplete
)

// App is the graphical shell: a parameter page, then the running board,
// then the closing screen.
type App struct {
	cfg   *config.Config
	opts  game.Options
	phase phase

	params   config.Params
	sim      *game.Simulation
	board    *renderer.Board
	controls *ui.ControlsPanel
	sidebar  *ui.Sidebar

	paused         bool
	stepsPerUpdate int
	maxTicks       int
	err            error
}

// NewApp creates the shell. A non-nil sim skips the parameter page.
func NewApp(cfg *config.Config, opts game.Options, sim *game.Simulation, stepsPerUpdate, maxTicks int) *App {
	board := renderer.NewBoard(cfg)
	sideX := board.Width() + 10

	a := &App{
		cfg:            cfg,
		opts:           opts,
		params:         cfg.Params,
		board:          board,
		controls:       ui.NewControlsPanel(sideX+30, 20, int32(cfg.Screen.Width)-sideX-40),
		sidebar:        ui.NewSidebar(sideX+30, 20, int32(cfg.Screen.Width)-sideX-40),
		stepsPerUpdate: max(1, stepsPerUpdate),
		maxTicks:       maxTicks,
	}
	if sim != nil {
		a.attach(sim)
	}
	return a
}

// attach starts drawing a simulation.
func (a *App) attach(sim *game.Simulation) {
	a.sim = sim
	a.phase = phaseRunning
	a.board.Render(game.Frame{Agents: sim.Agents(), Display: sim.Display()})
}

// start freezes the panel parameters and creates the run.
func (a *App) start() {
	cfg := a.cfg.WithParams(a.params)
	opts := a.opts
	opts.Renderer = a.board

	sim, err := game.New(cfg, opts)
	if err != nil {
		slog.Error("cannot start simulation", "error", err)
		a.err = err
		return
	}
	a.err = nil
	a.attach(sim)
	slog.Info("simulation started", "run_id", sim.RunID(), "params", cfg.Params)
}

// Update advances the current phase by one frame.
func (a *App) Update() {
	if a.phase != phaseRunning {
		return
	}

	a.handleInput()
	if a.paused {
		return
	}

	for i := 0; i < a.stepsPerUpdate; i++ {
		if a.maxTicks > 0 && a.sim.Tick() >= a.maxTicks {
			a.phase = phaseComplete
			return
		}
		if err := a.sim.Step(); err != nil {
			slog.Error("simulation failed", "error", err)
			a.err = err
			a.phase = phaseComplete
			return
		}
		if a.sim.Finished() {
			a.phase = phaseComplete
			return
		}
	}
}

// handleInput processes keyboard input while running.
func (a *App) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.paused = !a.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && a.stepsPerUpdate > 1 {
		a.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && a.stepsPerUpdate < 10 {
		a.stepsPerUpdate++
	}
}

// Draw renders the current phase.
func (a *App) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(ui.DefaultTheme().Background)

	switch a.phase {
	case phaseSetup:
		ui.DrawInstructions()
		if a.controls.Draw(&a.params) {
			a.start()
		}
		if a.err != nil {
			rl.DrawText(a.err.Error(), 10, int32(a.cfg.Screen.Height)-20, 10, rl.Red)
		}
	case phaseRunning:
		a.board.Draw()
		a.sidebar.Draw(a.board.Frame().Display)
		if a.paused {
			rl.DrawText("PAUSED", 150, 5, 12, rl.Maroon)
		}
	case phaseComplete:
		renderer.DrawClosing(a.board.Frame().Display)
		if a.err != nil {
			rl.DrawText(a.err.Error(), 10, int32(a.cfg.Screen.Height)-20, 10, rl.Red)
		}
	}
}

// Close releases the running simulation's outputs.
func (a *App) Close() error {
	if a.sim == nil {
		return nil
	}
	return a.sim.Close()
}
