package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/snapshot"
	"github.com/lox/blackjack/internal/tui"
)

// PlayCmd runs an interactive table
type PlayCmd struct {
	ConfigFlags
	Debug      bool          `env:"BLACKJACK_DEBUG" help:"Enable debug logging (overrides config)"`
	Seed       *int64        `env:"BLACKJACK_SEED" help:"Deterministic shuffle seed (overrides config)"`
	LogLevel   string        `short:"l" help:"Log level (overrides config)"`
	LogFile    string        `help:"Log file path (overrides config)"`
	Fresh      bool          `help:"Ignore any saved game and start a new session"`
	NoColor    bool          `help:"Disable colour output"`
	ShowPhases bool          `help:"Show phase transitions in the event log"`
	Animation  time.Duration `default:"250ms" help:"How long each dealt card is shown"`
}

// apply copies command line overrides onto cfg
func (c *PlayCmd) apply(cfg *config.Config) {
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
	if c.Debug {
		cfg.LogLevel = "debug"
	}
	if c.LogFile != "" {
		cfg.LogFile = c.LogFile
	}
	if c.Seed != nil {
		cfg.Session.Seed = *c.Seed
	}
	if c.Animation <= 0 {
		// nothing to animate, so deal the whole round at once
		batch := false
		cfg.Session.DealSequentially = &batch
	}
}

func (c *PlayCmd) Run() error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	c.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	logger, closeLog, err := openLogFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := signalContext(logger)
	defer cancel()

	store, closeStore, err := cfg.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("Closing snapshot store", "err", err)
		}
	}()

	engine, perspective, err := c.newEngine(ctx, cfg, store, logger)
	if err != nil {
		return err
	}

	var saver *snapshot.Autosaver
	if cfg.Autosave() {
		saver = snapshot.NewAutosaver(engine, store, logger)
		engine.Subscribe(saver)
	}

	tick, err := cfg.TickInterval()
	if err != nil {
		return err
	}
	opts := tui.DefaultOptions()
	opts.Perspective = perspective
	opts.ShowPhases = c.ShowPhases
	opts.Animation = c.Animation

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return engine.Run(gctx, tick)
	})
	g.Go(func() error {
		// quitting the UI ends the session
		defer stop()
		return tui.Run(gctx, engine, logger, opts)
	})
	runErr := g.Wait()

	if saver != nil {
		saveCtx, cancelSave := context.WithTimeout(context.Background(), snapshot.DefaultSaveTimeout)
		defer cancelSave()
		if err := saver.Save(saveCtx); err != nil && !errors.Is(err, blackjack.ErrNotStarted) {
			logger.Warn("Final save failed", "err", err)
		}
	}

	logger.Info("Session ended", "session", engine.SessionID(), "rounds", engine.State().Round)
	return runErr
}

// newEngine builds the engine, restores the saved game unless --fresh was
// given and seats the roster. It returns the first human seat's name.
func (c *PlayCmd) newEngine(ctx context.Context, cfg *config.Config, store snapshot.Store, logger *log.Logger) (*blackjack.Engine, string, error) {
	bjCfg, err := cfg.Blackjack()
	if err != nil {
		return nil, "", err
	}

	seed := randutil.Seed(cfg.Session.Seed, time.Now())
	engine, err := blackjack.NewEngine(bjCfg, nil, randutil.New(seed), logger)
	if err != nil {
		return nil, "", err
	}
	logger.Info("Starting blackjack",
		"session", engine.SessionID(),
		"seed", seed,
		"min_players", bjCfg.MinPlayers,
		"starting_cards", bjCfg.StartingCards,
		"storage", cfg.Storage.Backend)

	if !c.Fresh {
		snap, err := store.Load(ctx)
		switch {
		case err != nil:
			logger.Warn("Could not load saved game, starting fresh", "err", err)
		case snap != nil:
			if err := engine.Resume(snap); err != nil {
				logger.Warn("Could not resume saved game, starting fresh", "err", err)
			} else {
				logger.Info("Resuming saved game", "session", snap.SessionID, "rounds", snap.Stats.RoundsPlayed)
				for _, p := range cfg.Players {
					if p.ID == 0 {
						logger.Warn("Player has no id and is matched to the saved game by seat order", "player", p.Name)
					}
				}
			}
		}
	}

	roster, err := cfg.Roster()
	if err != nil {
		return nil, "", err
	}
	perspective := ""
	for _, seat := range roster {
		if _, err := engine.RegisterPlayer(seat.Name, seat.Options()...); err != nil {
			return nil, "", fmt.Errorf("registering %s: %w", seat.Name, err)
		}
		if seat.Agent == nil && perspective == "" {
			perspective = seat.Name
		}
	}
	return engine, perspective, nil
}
