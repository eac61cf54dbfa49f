package game

import (
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/gameerr"
)

// DefaultStartingCardCount is the number of cards dealt to each seat when
// no count is configured
const DefaultStartingCardCount = 5

// Table holds the seating order, the active turn and the dealer flag
type Table struct {
	players           []*Player
	playerTurn        int
	startingCardCount int
}

type tableOptions struct {
	playerTurn        int
	startingCardCount int
}

// TableOption configures a Table at construction
type TableOption func(*tableOptions)

// WithPlayerTurn sets the initial active seat
func WithPlayerTurn(index int) TableOption {
	return func(o *tableOptions) { o.playerTurn = index }
}

// WithStartingCardCount sets how many cards each seat is dealt per round
func WithStartingCardCount(n int) TableOption {
	return func(o *tableOptions) { o.startingCardCount = n }
}

// NewTable seats players in the given order
func NewTable(players []*Player, opts ...TableOption) (*Table, error) {
	o := tableOptions{startingCardCount: DefaultStartingCardCount}
	for _, opt := range opts {
		opt(&o)
	}

	if len(players) == 0 {
		return nil, gameerr.NewConfigError("players", 0, "at least one player is required")
	}
	if o.playerTurn < 0 || o.playerTurn >= len(players) {
		return nil, gameerr.NewConfigError("playerTurn", o.playerTurn, "out of range")
	}
	if o.startingCardCount < 0 {
		return nil, gameerr.NewConfigError("startingCardCount", o.startingCardCount, "must not be negative")
	}

	seen := make(map[int]bool, len(players))
	for i, p := range players {
		if p == nil {
			return nil, gameerr.NewConfigError("players", i, "nil player")
		}
		if seen[p.ID] {
			return nil, gameerr.NewConfigError("players", p.ID, "duplicate player id")
		}
		seen[p.ID] = true
	}

	seated := make([]*Player, len(players))
	copy(seated, players)
	return &Table{
		players:           seated,
		playerTurn:        o.playerTurn,
		startingCardCount: o.startingCardCount,
	}, nil
}

// Players returns the seated players in seating order
func (t *Table) Players() []*Player {
	out := make([]*Player, len(t.players))
	copy(out, t.players)
	return out
}

// Len returns the number of seats
func (t *Table) Len() int {
	return len(t.players)
}

// PlayerTurn returns the active seat index
func (t *Table) PlayerTurn() int {
	return t.playerTurn
}

// StartingCardCount returns the cards dealt to each seat per round
func (t *Table) StartingCardCount() int {
	return t.startingCardCount
}

// CardsRequired returns the number of cards a full deal consumes
func (t *Table) CardsRequired() int {
	return len(t.players) * t.startingCardCount
}

// GetPlayer returns the player at index, wrapping around the table
func (t *Table) GetPlayer(index int) *Player {
	n := len(t.players)
	return t.players[((index%n)+n)%n]
}

// CurrentPlayer returns the player whose turn it is
func (t *Table) CurrentPlayer() *Player {
	return t.players[t.playerTurn]
}

// SetPlayerTurn moves the turn marker without touching IsMyTurn flags
func (t *Table) SetPlayerTurn(index int) error {
	if index < 0 || index >= len(t.players) {
		return gameerr.NewConfigError("playerTurn", index, "out of range")
	}
	t.playerTurn = index
	return nil
}

// NextPlayerTurn deactivates the current player, advances the turn by one
// seat and activates the new current player, which it returns
func (t *Table) NextPlayerTurn() *Player {
	t.RestPlayer(t.players[t.playerTurn])
	t.playerTurn = (t.playerTurn + 1) % len(t.players)
	next := t.players[t.playerTurn]
	t.WakePlayer(next)
	return next
}

// WakePlayer marks p as the one to act
func (t *Table) WakePlayer(p *Player) {
	p.IsMyTurn = true
}

// RestPlayer clears p's turn flag
func (t *Table) RestPlayer(p *Player) {
	p.IsMyTurn = false
}

// GetDealer returns the seat of the first player flagged as dealer. If no
// player holds the flag, seat 0 is made dealer.
func (t *Table) GetDealer() int {
	for i, p := range t.players {
		if p.IsDealer {
			return i
		}
	}
	t.players[0].IsDealer = true
	return 0
}

// SetDealer makes p the only dealer at the table
func (t *Table) SetDealer(p *Player) error {
	if _, ok := t.SeatOf(p.ID); !ok {
		return gameerr.Unregistered("player", p.ID)
	}
	for _, other := range t.players {
		other.IsDealer = false
	}
	p.IsDealer = true
	return nil
}

// SwapDealer moves the dealer flag from previous to current
func (t *Table) SwapDealer(previous, current *Player) error {
	if _, ok := t.SeatOf(previous.ID); !ok {
		return gameerr.Unregistered("player", previous.ID)
	}
	return t.SetDealer(current)
}

// RotateDealer passes the dealer flag to the next seat and returns its index
func (t *Table) RotateDealer() int {
	next := (t.GetDealer() + 1) % len(t.players)
	_ = t.SetDealer(t.players[next])
	return next
}

// SeatOf returns the seat index of the player with the given id
func (t *Table) SeatOf(id int) (int, bool) {
	for i, p := range t.players {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}

// PlayerByID looks a seated player up by id
func (t *Table) PlayerByID(id int) (*Player, error) {
	if i, ok := t.SeatOf(id); ok {
		return t.players[i], nil
	}
	return nil, gameerr.Unregistered("player", id)
}

// HeldCards returns every card currently in a hand. It satisfies
// deck.HandSource.
func (t *Table) HeldCards() []*deck.Card {
	var held []*deck.Card
	for _, p := range t.players {
		held = append(held, p.hand...)
	}
	return held
}

// ClearHands empties every hand and returns the cards removed
func (t *Table) ClearHands() []*deck.Card {
	var cleared []*deck.Card
	for _, p := range t.players {
		cleared = append(cleared, p.ClearHand()...)
	}
	return cleared
}

// RevealAll turns every held card face up
func (t *Table) RevealAll() {
	for _, p := range t.players {
		p.RevealHand()
	}
}

var _ deck.HandSource = (*Table)(nil)
