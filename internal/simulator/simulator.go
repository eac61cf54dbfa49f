// Package simulator plays blackjack sessions headlessly with agents in
// every seat and aggregates the outcomes.
package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/gameerr"
	"github.com/lox/blackjack/internal/randutil"
)

// Config holds configuration for running simulations
type Config struct {
	Sessions      int
	Rounds        int // per session
	Players       int // including the dealer
	StartingCards int
	StandOn       int
	Seed          int64 // 0 seeds from the clock
	Parallelism   int   // 0 uses GOMAXPROCS
	Logger        *log.Logger
}

// DefaultConfig returns a small two-seat simulation
func DefaultConfig() Config {
	return Config{
		Sessions:      4,
		Rounds:        1000,
		Players:       2,
		StartingCards: 2,
		StandOn:       17,
	}
}

// Validate checks the simulation parameters
func (c Config) Validate() error {
	switch {
	case c.Sessions < 1:
		return gameerr.NewConfigError("sessions", c.Sessions, "must be at least 1")
	case c.Rounds < 1:
		return gameerr.NewConfigError("rounds", c.Rounds, "must be at least 1")
	case c.Players < 2:
		return gameerr.NewConfigError("players", c.Players, "must be at least 2")
	case c.StartingCards < 1:
		return gameerr.NewConfigError("starting_cards", c.StartingCards, "must be at least 1")
	case c.StandOn < 1 || c.StandOn > blackjack.Blackjack:
		return gameerr.NewConfigError("stand_on", c.StandOn, "must be between 1 and 21")
	case c.Parallelism < 0:
		return gameerr.NewConfigError("parallelism", c.Parallelism, "must not be negative")
	}
	return nil
}

// Simulator runs blackjack sessions
type Simulator struct {
	config Config
	clock  quartz.Clock
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{config: config, clock: quartz.NewReal()}
}

// Run plays every session concurrently and merges the results. Sessions are
// seeded Seed, Seed+1, ... so a fixed seed reproduces the same totals.
func (s *Simulator) Run(ctx context.Context) (*Results, error) {
	if err := s.config.Validate(); err != nil {
		return nil, err
	}

	start := s.clock.Now()
	seed := randutil.Seed(s.config.Seed, start)
	logger := s.config.Logger.WithPrefix("simulator")
	logger.Info("Starting simulation", "sessions", s.config.Sessions, "rounds", s.config.Rounds,
		"players", s.config.Players, "seed", seed)

	limit := s.config.Parallelism
	if limit == 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	perSession := make([]*Results, s.config.Sessions)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range perSession {
		sessionSeed := seed + int64(i)
		g.Go(func() error {
			r, err := s.playSession(ctx, i, sessionSeed)
			if err != nil {
				return fmt.Errorf("session %d (seed %d): %w", i, sessionSeed, err)
			}
			perSession[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := newResults(s.config.Players)
	total.Seed = seed
	for _, r := range perSession {
		total.merge(r)
	}
	total.Duration = s.clock.Since(start)
	logger.Info("Simulation complete", "rounds", total.Rounds, "duration", total.Duration)
	return total, nil
}

// roundCounter tallies round results until the target is reached. A single
// tick can play several rounds, so extras are ignored.
type roundCounter struct {
	target  int
	results *Results
}

func (c *roundCounter) done() bool { return c.results.Rounds >= c.target }

func (c *roundCounter) OnEvent(event game.GameEvent) {
	if c.done() {
		return
	}
	switch ev := event.(type) {
	case game.RoundEndEvent:
		c.results.Rounds++
		if ev.HasWinner {
			c.results.WinsBySeat[ev.WinnerSeat]++
		} else {
			c.results.NoWinner++
		}
		for i, r := range ev.Results {
			if r.Bust {
				c.results.BustsBySeat[i]++
			}
		}
	case game.RoundAbortedEvent:
		c.results.Aborted++
	}
}

func (s *Simulator) playSession(ctx context.Context, index int, seed int64) (*Results, error) {
	cfg := blackjack.DefaultConfig()
	cfg.MinPlayers = s.config.Players
	cfg.StartingCards = s.config.StartingCards
	cfg.DealSequentially = false
	cfg.Delays = blackjack.Delays{}

	logger := s.config.Logger.With("session", index)
	e, err := blackjack.NewEngine(cfg, s.clock, randutil.New(seed), logger,
		blackjack.WithSessionID(fmt.Sprintf("sim-%d", index)), blackjack.WithAutoStart(false))
	if err != nil {
		return nil, err
	}

	if _, err := e.RegisterPlayer("Dealer", blackjack.AsDealer(), blackjack.WithAgent(blackjack.NewDealerAgent(0))); err != nil {
		return nil, err
	}
	for i := 1; i < s.config.Players; i++ {
		agent := blackjack.NewThresholdAgent(s.config.StandOn, 0)
		if _, err := e.RegisterPlayer(fmt.Sprintf("Bot %d", i), blackjack.WithAgent(agent)); err != nil {
			return nil, err
		}
	}

	counter := &roundCounter{target: s.config.Rounds, results: newResults(s.config.Players)}
	e.Subscribe(counter)
	if err := e.Start(); err != nil {
		return nil, err
	}

	// With zero delays every tick makes progress; a generous bound catches a
	// stuck engine instead of spinning forever.
	maxTicks := s.config.Rounds*8 + 64
	for tick := 0; !counter.done(); tick++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if tick >= maxTicks {
			return nil, fmt.Errorf("stalled after %d ticks with %d rounds played", tick, counter.results.Rounds)
		}
		if err := e.Tick(); err != nil {
			return nil, err
		}
	}

	counter.results.Sessions = 1
	logger.Debug("Session complete", "rounds", counter.results.Rounds, "aborted", counter.results.Aborted)
	return counter.results, nil
}
