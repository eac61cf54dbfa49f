package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/gameerr"
)

func seatPlayers(names ...string) []*Player {
	players := make([]*Player, len(names))
	for i, n := range names {
		players[i] = NewPlayer(i+1, n)
	}
	return players
}

func TestNewTableValidation(t *testing.T) {
	tests := []struct {
		name    string
		players []*Player
		opts    []TableOption
		field   string
	}{
		{"no players", nil, nil, "players"},
		{"turn too high", seatPlayers("a", "b"), []TableOption{WithPlayerTurn(2)}, "playerTurn"},
		{"negative turn", seatPlayers("a"), []TableOption{WithPlayerTurn(-1)}, "playerTurn"},
		{"negative card count", seatPlayers("a"), []TableOption{WithStartingCardCount(-1)}, "startingCardCount"},
		{"duplicate ids", []*Player{NewPlayer(1, "a"), NewPlayer(1, "b")}, nil, "players"},
		{"nil player", []*Player{NewPlayer(1, "a"), nil}, nil, "players"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.players, tt.opts...)
			require.ErrorIs(t, err, gameerr.ErrConfig)
			var cfgErr *gameerr.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestNewTableDefaults(t *testing.T) {
	tbl, err := NewTable(seatPlayers("a", "b", "c"))
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.PlayerTurn())
	assert.Equal(t, DefaultStartingCardCount, tbl.StartingCardCount())
	assert.Equal(t, 15, tbl.CardsRequired())
	assert.Equal(t, 3, tbl.Len())
}

func TestGetPlayerWraps(t *testing.T) {
	tbl := NewTestTable(WithPlayers("a", "b", "c"))
	assert.Equal(t, "a", tbl.GetPlayer(3).Name)
	assert.Equal(t, "c", tbl.GetPlayer(5).Name)
	assert.Equal(t, "c", tbl.GetPlayer(-1).Name)
}

func TestNextPlayerTurnVisitsEverySeatOnce(t *testing.T) {
	tbl := NewTestTable(WithPlayers("a", "b", "c", "d"))
	require.NoError(t, tbl.SetPlayerTurn(2))
	start := tbl.PlayerTurn()

	visited := make(map[int]int)
	for i := 0; i < tbl.Len(); i++ {
		p := tbl.NextPlayerTurn()
		visited[tbl.PlayerTurn()]++
		assert.True(t, p.IsMyTurn)
		for _, other := range tbl.Players() {
			if other != p {
				assert.False(t, other.IsMyTurn, "only the active seat has the turn flag")
			}
		}
	}

	assert.Equal(t, start, tbl.PlayerTurn())
	assert.Len(t, visited, 4)
	for seat, n := range visited {
		assert.Equal(t, 1, n, "seat %d", seat)
	}
}

func TestGetDealerLazilyAssignsSeatZero(t *testing.T) {
	tbl := NewTestTable(WithPlayers("a", "b", "c"), WithDealerSeat(-1))
	for _, p := range tbl.Players() {
		require.False(t, p.IsDealer)
	}

	assert.Equal(t, 0, tbl.GetDealer())
	assert.True(t, tbl.GetPlayer(0).IsDealer)

	assert.Equal(t, 0, tbl.GetDealer())
	dealers := 0
	for _, p := range tbl.Players() {
		if p.IsDealer {
			dealers++
		}
	}
	assert.Equal(t, 1, dealers)
}

func TestGetDealerFindsFirstFlag(t *testing.T) {
	tbl := NewTestTable(WithPlayers("a", "b", "c"), WithDealerSeat(2))
	assert.Equal(t, 2, tbl.GetDealer())
	assert.False(t, tbl.GetPlayer(0).IsDealer)
}

func TestSetAndSwapDealer(t *testing.T) {
	tbl := NewTestTable(WithPlayers("a", "b", "c"))
	a, b, c := tbl.GetPlayer(0), tbl.GetPlayer(1), tbl.GetPlayer(2)

	require.NoError(t, tbl.SetDealer(b))
	assert.False(t, a.IsDealer)
	assert.True(t, b.IsDealer)

	require.NoError(t, tbl.SwapDealer(b, c))
	assert.False(t, b.IsDealer)
	assert.True(t, c.IsDealer)
	assert.Equal(t, 2, tbl.GetDealer())

	stranger := NewPlayer(99, "stranger")
	assert.ErrorIs(t, tbl.SetDealer(stranger), gameerr.ErrUnregistered)
	assert.ErrorIs(t, tbl.SwapDealer(stranger, a), gameerr.ErrUnregistered)
	assert.True(t, c.IsDealer, "failed reassignment leaves the dealer alone")
}

func TestRotateDealer(t *testing.T) {
	tbl := NewTestTable(WithPlayers("a", "b", "c"))
	assert.Equal(t, 1, tbl.RotateDealer())
	assert.Equal(t, 2, tbl.RotateDealer())
	assert.Equal(t, 0, tbl.RotateDealer())
	assert.True(t, tbl.GetPlayer(0).IsDealer)
}

func TestPlayerByID(t *testing.T) {
	tbl := NewTestTable(WithPlayers("a", "b"))
	p, err := tbl.PlayerByID(2)
	require.NoError(t, err)
	assert.Equal(t, "b", p.Name)

	_, err = tbl.PlayerByID(42)
	var unreg *gameerr.UnregisteredError
	require.ErrorAs(t, err, &unreg)
	assert.Equal(t, "player", unreg.Kind)
	assert.Equal(t, 42, unreg.ID)
}

func TestHeldCardsAndClearHands(t *testing.T) {
	tbl := NewTestTable(WithPlayers("a", "b"))
	c1 := deck.NewCard(1, deck.Spade, deck.Two)
	c2 := deck.NewCard(2, deck.Spade, deck.Three)
	require.NoError(t, tbl.GetPlayer(0).AddCard(c1))
	require.NoError(t, tbl.GetPlayer(1).AddCard(c2))
	c2.Reveal()

	assert.ElementsMatch(t, []*deck.Card{c1, c2}, tbl.HeldCards())

	cleared := tbl.ClearHands()
	assert.Len(t, cleared, 2)
	assert.Empty(t, tbl.HeldCards())
	assert.False(t, c2.FaceUp)
	assert.False(t, c2.InPlay)
}
