package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/contagion/config"
	"github.com/pthm-cable/contagion/game"
	"github.com/pthm-cable/contagion/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output daily stats via slog")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for bookmark snapshots")
	restorePath := flag.String("restore", "", "Resume from a snapshot file")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, chart and config snapshot")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per frame in graphical mode")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = uint64(time.Now().UnixNano())
	}

	opts := game.Options{
		Seed:        rngSeed,
		LogStats:    *logStats,
		OutputDir:   *outputDir,
		SnapshotDir: *snapshotDir,
	}

	if *headless {
		os.Exit(runHeadless(cfg, opts, *restorePath, *maxTicks))
	}
	os.Exit(runGraphical(cfg, opts, *restorePath, *stepsPerUpdate, *maxTicks))
}

// newSimulation creates a fresh run or resumes one from a snapshot file.
func newSimulation(cfg *config.Config, opts game.Options, restorePath string) (*game.Simulation, error) {
	if restorePath == "" {
		return game.New(cfg, opts)
	}
	snap, err := telemetry.LoadSnapshot(restorePath)
	if err != nil {
		return nil, err
	}
	return game.Restore(cfg, snap, opts)
}

// runHeadless runs to completion without raylib and returns the exit code.
func runHeadless(cfg *config.Config, opts game.Options, restorePath string, maxTicks int) int {
	sim, err := newSimulation(cfg, opts, restorePath)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("starting headless simulation",
		"run_id", sim.RunID(),
		"seed", opts.Seed,
		"max_ticks", maxTicks,
		"params", cfg.Params,
	)

	res, runErr := sim.Run(ctx, maxTicks)
	if err := sim.Close(); err != nil {
		slog.Error("failed to close outputs", "error", err)
	}

	slog.Info("simulation result",
		"run_id", res.RunID,
		"reason", string(res.Reason),
		"day", res.Day,
		"hour", res.Hour,
		"ticks", res.Ticks,
		"live", res.Live,
		"deaths", res.Deaths,
		"immune", res.Immune,
		"peak_infected", res.PeakInfected,
	)

	if runErr != nil {
		slog.Error("simulation stopped", "error", runErr)
		return 1
	}
	return 0
}

// runGraphical opens the window and runs the parameter page and board.
func runGraphical(cfg *config.Config, opts game.Options, restorePath string, stepsPerUpdate, maxTicks int) int {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Epidemic Simulation")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	app := NewApp(cfg, opts, nil, stepsPerUpdate, maxTicks)
	if restorePath != "" {
		sim, err := newSimulation(cfg, withRenderer(opts, app), restorePath)
		if err != nil {
			slog.Error("failed to restore simulation", "error", err)
			return 1
		}
		app.attach(sim)
	}

	for !rl.WindowShouldClose() {
		app.Update()
		app.Draw()
	}

	if err := app.Close(); err != nil {
		slog.Error("failed to close outputs", "error", err)
		return 1
	}
	return 0
}

func withRenderer(opts game.Options, app *App) game.Options {
	opts.Renderer = app.board
	return opts
}
