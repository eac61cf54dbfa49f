package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/blackjack/internal/deck"
)

// hand builds face-down cards of the given ranks; suits cycle so ids differ
func hand(ranks ...deck.Rank) []*deck.Card {
	cards := make([]*deck.Card, len(ranks))
	for i, r := range ranks {
		suit := deck.Suit(i % deck.SuitCount)
		cards[i] = deck.NewCard(int(suit)*deck.RankCount+int(r)-1, suit, r)
	}
	return cards
}

func TestScore(t *testing.T) {
	tests := []struct {
		name  string
		hand  []*deck.Card
		score int
		bust  bool
	}{
		{"empty", hand(), 0, false},
		{"ace nine", hand(deck.Ace, deck.Nine), 20, false},
		{"ace king", hand(deck.Ace, deck.King), 21, false},
		{"two aces and nine promote one ace", hand(deck.Ace, deck.Ace, deck.Nine), 21, false},
		{"ten nine five busts", hand(deck.Ten, deck.Nine, deck.Five), 24, true},
		{"faces count ten", hand(deck.Jack, deck.Queen), 20, false},
		{"ace stays low when promotion would bust", hand(deck.Ace, deck.Six, deck.King), 17, false},
		{"four aces", hand(deck.Ace, deck.Ace, deck.Ace, deck.Ace), 14, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.score, Score(tt.hand))
			assert.Equal(t, tt.bust, IsBust(tt.hand))
		})
	}
}

func TestCanHitAndStatus(t *testing.T) {
	assert.True(t, CanHit(hand(deck.Ten, deck.Ten)))
	assert.Equal(t, Open, Status(hand(deck.Ten, deck.Ten)))

	assert.False(t, CanHit(hand(deck.Ace, deck.King)))
	assert.Equal(t, TwentyOne, Status(hand(deck.Ace, deck.King)))

	assert.False(t, CanHit(hand(deck.King, deck.Queen, deck.Two)))
	assert.Equal(t, Bust, Status(hand(deck.King, deck.Queen, deck.Two)))
}

func TestVisibleScore(t *testing.T) {
	h := hand(deck.Ace, deck.King)
	assert.Equal(t, 0, VisibleScore(h))

	h[0].Reveal()
	assert.Equal(t, 11, VisibleScore(h))

	h[1].Reveal()
	assert.Equal(t, 21, VisibleScore(h))
}

func TestWinner(t *testing.T) {
	tests := []struct {
		name  string
		hands [][]*deck.Card
		seat  int
		ok    bool
	}{
		{
			name:  "highest wins",
			hands: [][]*deck.Card{hand(deck.Ten, deck.Seven), hand(deck.Ten, deck.Nine)},
			seat:  1,
			ok:    true,
		},
		{
			name:  "tie favours earlier seat",
			hands: [][]*deck.Card{hand(deck.Ten, deck.Eight), hand(deck.Nine, deck.Nine), hand(deck.Ten, deck.Eight)},
			seat:  0,
			ok:    true,
		},
		{
			name:  "bust hands are skipped",
			hands: [][]*deck.Card{hand(deck.King, deck.Queen, deck.Five), hand(deck.Two, deck.Three)},
			seat:  1,
			ok:    true,
		},
		{
			name:  "everyone bust",
			hands: [][]*deck.Card{hand(deck.King, deck.Queen, deck.Five), hand(deck.Ten, deck.Nine, deck.Five)},
			seat:  -1,
			ok:    false,
		},
		{
			name:  "empty hands never win",
			hands: [][]*deck.Card{hand(), hand()},
			seat:  -1,
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seat, ok := Winner(tt.hands)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.seat, seat)
		})
	}
}

func TestScoreboard(t *testing.T) {
	sb := NewScoreboard()
	sb.SetScore(1, 18)
	sb.SetScore(2, 23)

	assert.Equal(t, 18, sb.Score(1))
	assert.False(t, sb.IsBust(1))
	assert.True(t, sb.IsBust(2))
	assert.Zero(t, sb.Score(3))

	sb.AddWin(1)
	sb.AddWin(1)
	sb.ResetRound()
	assert.Zero(t, sb.Score(1))
	assert.False(t, sb.IsBust(2))
	assert.Equal(t, 2, sb.Wins(1), "wins survive a round reset")

	sb.SetWins(2, 5)
	entries := sb.Entries()
	assert.Equal(t, []ScoreEntry{{PlayerID: 1, Wins: 2}, {PlayerID: 2, Wins: 5}}, entries)
}
