package simulator

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/gameerr"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Sessions = 3
	cfg.Rounds = 50
	cfg.Players = 3
	cfg.Seed = 12345
	cfg.Logger = log.New(io.Discard)
	return cfg
}

func TestNew(t *testing.T) {
	s := New(Config{Sessions: 1})
	require.NotNil(t, s)
	assert.NotNil(t, s.config.Logger, "nil logger is replaced")
}

func TestSimulatorRun(t *testing.T) {
	results, err := New(testConfig()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, results.Sessions)
	assert.Equal(t, 150, results.Rounds)
	assert.Equal(t, int64(12345), results.Seed)
	require.Len(t, results.WinsBySeat, 3)

	wins := 0
	for _, w := range results.WinsBySeat {
		wins += w
	}
	assert.Equal(t, results.Rounds, wins+results.NoWinner, "every round has one winner or none")
	assert.Positive(t, results.WinsBySeat[0], "the dealer wins some rounds")
}

func TestSimulatorIsDeterministic(t *testing.T) {
	first, err := New(testConfig()).Run(context.Background())
	require.NoError(t, err)
	second, err := New(testConfig()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.WinsBySeat, second.WinsBySeat)
	assert.Equal(t, first.BustsBySeat, second.BustsBySeat)
	assert.Equal(t, first.NoWinner, second.NoWinner)
}

func TestSimulatorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(testConfig()).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"no sessions", func(c *Config) { c.Sessions = 0 }, "sessions"},
		{"no rounds", func(c *Config) { c.Rounds = 0 }, "rounds"},
		{"one player", func(c *Config) { c.Players = 1 }, "players"},
		{"no cards", func(c *Config) { c.StartingCards = 0 }, "starting_cards"},
		{"stand on too high", func(c *Config) { c.StandOn = 22 }, "stand_on"},
		{"negative parallelism", func(c *Config) { c.Parallelism = -1 }, "parallelism"},
	}

	require.NoError(t, DefaultConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			_, err := New(cfg).Run(context.Background())
			var cfgErr *gameerr.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestResults(t *testing.T) {
	r := &Results{
		Sessions:    2,
		Rounds:      100,
		NoWinner:    10,
		Aborted:     1,
		WinsBySeat:  []int{50, 40},
		BustsBySeat: []int{20, 30},
	}

	assert.InDelta(t, 0.5, r.WinRate(0), 1e-9)
	assert.InDelta(t, 0.4, r.WinRate(1), 1e-9)
	assert.Zero(t, r.WinRate(5))
	assert.InDelta(t, 0.3, r.BustRate(1), 1e-9)
	assert.InDelta(t, 0.05, r.StdError(0), 1e-9)

	low, high := r.ConfidenceInterval95(0)
	assert.InDelta(t, 0.402, low, 1e-9)
	assert.InDelta(t, 0.598, high, 1e-9)

	summary := r.Summary()
	assert.Contains(t, summary, "Sessions: 2, rounds: 100")
	assert.Contains(t, summary, "Dealer")
	assert.Contains(t, summary, "Bot 1")
	assert.Contains(t, summary, "No winner: 10 rounds (10.0%)")
	assert.Contains(t, summary, "Aborted:   1 rounds")

	assert.Zero(t, (&Results{}).StdError(0))
}

func TestResultsMerge(t *testing.T) {
	total := newResults(2)
	total.merge(&Results{Sessions: 1, Rounds: 3, NoWinner: 1, WinsBySeat: []int{1, 1}, BustsBySeat: []int{0, 2}})
	total.merge(&Results{Sessions: 1, Rounds: 2, Aborted: 1, WinsBySeat: []int{2, 0}, BustsBySeat: []int{1, 0}})

	assert.Equal(t, 2, total.Sessions)
	assert.Equal(t, 5, total.Rounds)
	assert.Equal(t, []int{3, 1}, total.WinsBySeat)
	assert.Equal(t, []int{1, 2}, total.BustsBySeat)
	assert.Equal(t, 1, total.Aborted)
}
