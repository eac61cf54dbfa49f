package blackjack

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/gameerr"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 500*time.Millisecond, cfg.Delays.AfterReset)
	assert.Equal(t, 3*time.Second, cfg.Delays.AfterRoundEnd)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"no players", func(c *Config) { c.MinPlayers = 0 }, "min_players"},
		{"negative cards", func(c *Config) { c.StartingCards = -1 }, "starting_cards"},
		{"zero suits", func(c *Config) { c.Suits = 0 }, "suits"},
		{"zero ranks", func(c *Config) { c.Ranks = 0 }, "ranks"},
		{"negative delay", func(c *Config) { c.Delays.ClearToDeal = -time.Second }, "clear_to_deal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, gameerr.ErrConfig)
			var cfgErr *gameerr.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "Reset", PhaseReset.String())
	assert.Equal(t, "PlayerTurn", PhasePlayerTurn.String())
	assert.Equal(t, "Unknown", Phase(99).String())
}
