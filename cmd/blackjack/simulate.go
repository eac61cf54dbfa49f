package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/simulator"
)

// SimulateCmd plays agent-only sessions and prints per-seat results
type SimulateCmd struct {
	Sessions      int   `short:"n" default:"4" help:"Number of independent sessions"`
	Rounds        int   `short:"r" default:"1000" help:"Rounds per session"`
	Players       int   `short:"p" default:"2" help:"Seats per table including the dealer"`
	StartingCards int   `default:"2" help:"Cards dealt to each seat per round"`
	StandOn       int   `default:"17" help:"Score at which non-dealer agents stay"`
	Parallelism   int   `help:"Sessions run at once (0 uses GOMAXPROCS)"`
	Seed          int64 `env:"BLACKJACK_SEED" help:"Base seed; session i uses seed+i (0 picks one)"`
	Debug         bool  `env:"BLACKJACK_DEBUG" help:"Enable debug logging"`
}

func (c *SimulateCmd) Run() error {
	level := "info"
	if c.Debug {
		level = "debug"
	}
	logger, err := newLogger(os.Stderr, level)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	return c.run(ctx, logger, os.Stdout)
}

func (c *SimulateCmd) config(logger *log.Logger) simulator.Config {
	return simulator.Config{
		Sessions:      c.Sessions,
		Rounds:        c.Rounds,
		Players:       c.Players,
		StartingCards: c.StartingCards,
		StandOn:       c.StandOn,
		Seed:          randutil.Seed(c.Seed, time.Now()),
		Parallelism:   c.Parallelism,
		Logger:        logger,
	}
}

func (c *SimulateCmd) run(ctx context.Context, logger *log.Logger, out io.Writer) error {
	cfg := c.config(logger)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid simulation: %w", err)
	}

	logger.Info("Starting simulation",
		"sessions", cfg.Sessions,
		"rounds", cfg.Rounds,
		"players", cfg.Players,
		"seed", cfg.Seed)

	results, err := simulator.New(cfg).Run(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, results.Summary())
	return err
}
