package blackjack

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/gameerr"
)

// Delays are the settle times between automatic phase transitions
type Delays struct {
	AfterReset    time.Duration // Reset -> Deal
	AfterDeal     time.Duration // Deal -> PlayerTurn
	AfterRoundEnd time.Duration // RoundEnd -> Clear
	ClearToReset  time.Duration // Clear -> Reset when the pool runs low
	ClearToDeal   time.Duration // Clear -> Deal
}

// DefaultDelays returns the pacing used by the interactive game
func DefaultDelays() Delays {
	return Delays{
		AfterReset:    500 * time.Millisecond,
		AfterDeal:     200 * time.Millisecond,
		AfterRoundEnd: 3 * time.Second,
		ClearToReset:  750 * time.Millisecond,
		ClearToDeal:   200 * time.Millisecond,
	}
}

// Config holds the session parameters for an Engine
type Config struct {
	MinPlayers       int
	StartingCards    int
	DealSequentially bool
	Suits            int
	Ranks            int
	Delays           Delays
}

// DefaultConfig returns a two-player, two-card game on a standard deck
func DefaultConfig() Config {
	return Config{
		MinPlayers:       2,
		StartingCards:    2,
		DealSequentially: false,
		Suits:            deck.SuitCount,
		Ranks:            deck.RankCount,
		Delays:           DefaultDelays(),
	}
}

// Validate checks the configuration for values the engine cannot run with
func (c Config) Validate() error {
	if c.MinPlayers < 1 {
		return gameerr.NewConfigError("min_players", c.MinPlayers, "must be at least 1")
	}
	if c.StartingCards < 0 {
		return gameerr.NewConfigError("starting_cards", c.StartingCards, "must not be negative")
	}
	if c.Suits <= 0 {
		return gameerr.NewConfigError("suits", c.Suits, "must be positive")
	}
	if c.Ranks <= 0 {
		return gameerr.NewConfigError("ranks", c.Ranks, "must be positive")
	}
	delays := []struct {
		name string
		d    time.Duration
	}{
		{"after_reset", c.Delays.AfterReset},
		{"after_deal", c.Delays.AfterDeal},
		{"after_round_end", c.Delays.AfterRoundEnd},
		{"clear_to_reset", c.Delays.ClearToReset},
		{"clear_to_deal", c.Delays.ClearToDeal},
	}
	for _, delay := range delays {
		if delay.d < 0 {
			return gameerr.NewConfigError(delay.name, delay.d, "must not be negative")
		}
	}
	return nil
}
