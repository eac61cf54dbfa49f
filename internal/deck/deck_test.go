package deck

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/gameerr"
	"github.com/lox/blackjack/internal/randutil"
)

// heldCards is a HandSource backed by a plain slice.
type heldCards []*Card

func (h heldCards) HeldCards() []*Card { return h }

func newTestDeck(t *testing.T) *Deck {
	t.Helper()
	d, err := NewStandard(randutil.New(42))
	require.NoError(t, err)
	return d
}

func TestNewStandardDeck(t *testing.T) {
	d := newTestDeck(t)

	require.Equal(t, 52, d.Size())
	assert.True(t, d.IsEmpty(), "pool starts empty until the first reshuffle")

	seen := make(map[int]bool)
	for i, c := range d.Cards() {
		assert.Equal(t, i, c.ID, "cards are ordered by id")
		assert.False(t, seen[c.ID], "duplicate id %d", c.ID)
		seen[c.ID] = true
		assert.Equal(t, int(c.Suit)*RankCount+int(c.Rank)-1, c.ID)
	}
	assert.Len(t, seen, 52)
}

func TestNewRejectsBadCounts(t *testing.T) {
	tests := []struct {
		name  string
		suits int
		ranks int
		field string
	}{
		{"zero suits", 0, 13, "suitCount"},
		{"negative ranks", 4, -1, "rankCount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(randutil.New(1), tt.suits, tt.ranks)
			require.Error(t, err)
			assert.True(t, errors.Is(err, gameerr.ErrConfig))

			var cfgErr *gameerr.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}

	_, err := New(nil, 4, 13)
	assert.ErrorIs(t, err, gameerr.ErrConfig)
}

func TestSmallDeckIDs(t *testing.T) {
	d, err := New(randutil.New(1), 2, 3)
	require.NoError(t, err)
	require.Equal(t, 6, d.Size())

	c, err := d.Card(4)
	require.NoError(t, err)
	assert.Equal(t, Heart, c.Suit)
	assert.Equal(t, Two, c.Rank)

	_, err = d.Card(6)
	assert.ErrorIs(t, err, gameerr.ErrUnregistered)
	_, err = d.Card(-1)
	assert.ErrorIs(t, err, gameerr.ErrUnregistered)
}

func TestReshuffleFillsPool(t *testing.T) {
	d := newTestDeck(t)
	d.Reshuffle()
	assert.Equal(t, 52, d.PoolSize())
	assert.False(t, d.NotEnoughCards(52))
	assert.True(t, d.NotEnoughCards(53))

	// A second hard reshuffle does not duplicate entries.
	d.Reshuffle()
	assert.Equal(t, 52, d.PoolSize())
}

func TestSoftReshuffleSkipsHeldCards(t *testing.T) {
	d := newTestDeck(t)
	all := d.Cards()
	held := heldCards{all[0], all[13], all[51]}

	d.SoftReshuffle(held)

	assert.Equal(t, 49, d.PoolSize())
	for _, c := range held {
		assert.False(t, d.InPool(c.ID), "held card %s must not be drawable", c)
	}
	assert.True(t, d.InPool(1))

	d.SoftReshuffle(nil)
	assert.Equal(t, 52, d.PoolSize())
}

func TestDealRandomCardNeverRepeats(t *testing.T) {
	d := newTestDeck(t)
	d.Reshuffle()

	var hand heldCards
	seen := make(map[int]bool)
	for i := 0; i < 52; i++ {
		c, err := d.DealRandomCard(hand)
		require.NoError(t, err)
		assert.False(t, seen[c.ID], "card %d dealt twice", c.ID)
		assert.True(t, c.InPlay)
		assert.False(t, d.InPool(c.ID))
		seen[c.ID] = true
		hand = append(hand, c)
	}
	assert.True(t, d.IsEmpty())
}

func TestDealRandomCardSoftReshufflesEmptyPool(t *testing.T) {
	d := newTestDeck(t)
	all := d.Cards()
	held := heldCards(all[:50])

	// Pool is empty, so the draw recycles everything not in a hand.
	c, err := d.DealRandomCard(held)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, c.ID, 50)
	assert.Equal(t, 1, d.PoolSize())
}

func TestDealRandomCardExhausted(t *testing.T) {
	d := newTestDeck(t)
	held := heldCards(d.Cards())

	c, err := d.DealRandomCard(held)
	assert.Nil(t, c)
	require.Error(t, err)
	assert.ErrorIs(t, err, gameerr.ErrDeckExhausted)
	assert.True(t, d.IsEmpty())
}

func TestDealIsDeterministicForSeed(t *testing.T) {
	draw := func() []int {
		d, err := NewStandard(randutil.New(7))
		require.NoError(t, err)
		d.Reshuffle()
		var ids []int
		for i := 0; i < 10; i++ {
			c, err := d.DealRandomCard(nil)
			require.NoError(t, err)
			ids = append(ids, c.ID)
		}
		return ids
	}
	assert.Equal(t, draw(), draw())
}

func TestRemove(t *testing.T) {
	d := newTestDeck(t)
	d.Reshuffle()

	assert.True(t, d.Remove(10))
	assert.False(t, d.InPool(10))
	assert.Equal(t, 51, d.PoolSize())
	assert.False(t, d.Remove(10), "already removed")
}
