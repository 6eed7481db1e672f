package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/lox/monopolyforbots/cmd/monopolyforbots/shared"
	"github.com/lox/monopolyforbots/internal/simulator"
)

// SimulateCmd plays a batch of all-bot games.
type SimulateCmd struct {
	Games     int           `kong:"default='100',help='Number of games to play'"`
	Seats     int           `kong:"default='4',help='Bots per game'"`
	Board     string        `kong:"help='Board key (default from config)'"`
	Seed      int64         `kong:"default='42',help='Batch seed; game i uses a seed derived from it'"`
	MaxRounds int           `kong:"name='max-rounds',help='Round cap, 0 uses the config'"`
	Workers   int           `kong:"help='Parallel games (default: number of CPUs)'"`
	Timeout   time.Duration `kong:"default='30s',help='Per-game timeout'"`
	Progress  bool          `kong:"help='Log a line as each game completes'"`
}

func (c *SimulateCmd) Run(globals *Globals) error {
	logger := shared.SetupConsoleLogger(globals.Debug, "sim")
	cfg, err := globals.LoadConfig()
	if err != nil {
		return err
	}

	board, err := cfg.Board(c.Board)
	if err != nil {
		return err
	}
	rules, err := cfg.Rules(c.Board)
	if err != nil {
		return err
	}

	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	maxRounds := c.MaxRounds
	if maxRounds == 0 {
		maxRounds = cfg.Game.MaxRounds
	}

	simCfg := simulator.Config{
		Games:     c.Games,
		Seats:     c.Seats,
		Board:     board,
		Rules:     rules,
		Seed:      c.Seed,
		MaxRounds: maxRounds,
		Workers:   workers,
		Timeout:   c.Timeout,
		Logger:    logger,
	}
	if c.Progress {
		simCfg.Progress = func(done, total int) {
			logger.Info("Game complete", "done", done, "total", total)
		}
	}

	logger.Info("Starting simulation",
		"board", cfg.BoardName(c.Board),
		"games", c.Games,
		"seats", c.Seats,
		"workers", workers,
		"seed", c.Seed,
		"max_rounds", maxRounds,
	)

	ctx, cancel := shared.SignalContext(shared.SetupLogger(globals.Debug, globals.LogJSON))
	defer cancel()

	start := time.Now()
	stats, err := simulator.New(simCfg).Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	logger.Info("Simulation finished", "elapsed", time.Since(start).Round(time.Millisecond))

	simulator.PrintSummary(os.Stdout, stats)
	return nil
}
