package deck

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/blackjack/internal/gameerr"
)

// HandSource reports every card currently held in a hand. The table
// implements it so the deck never hands out a card somebody is holding.
type HandSource interface {
	HeldCards() []*Card
}

// Deck owns the full card set and the pool of cards eligible to be drawn
type Deck struct {
	cards []*Card // every card, ordered by id; never reordered
	pool  []*Card
	rng   *rand.Rand

	suitCount int
	rankCount int
}

// New builds a deck of suitCount*rankCount cards. Card ids follow the
// suit*rankCount + rank ordering so they are stable for the process lifetime.
// The pool starts empty; call Reshuffle before drawing.
func New(rng *rand.Rand, suitCount, rankCount int) (*Deck, error) {
	if rng == nil {
		return nil, gameerr.NewConfigError("rng", nil, "a random source is required")
	}
	if suitCount <= 0 {
		return nil, gameerr.NewConfigError("suitCount", suitCount, "must be positive")
	}
	if rankCount <= 0 {
		return nil, gameerr.NewConfigError("rankCount", rankCount, "must be positive")
	}

	d := &Deck{
		cards:     make([]*Card, 0, suitCount*rankCount),
		pool:      make([]*Card, 0, suitCount*rankCount),
		rng:       rng,
		suitCount: suitCount,
		rankCount: rankCount,
	}
	for suit := 0; suit < suitCount; suit++ {
		for rank := 1; rank <= rankCount; rank++ {
			id := suit*rankCount + rank - 1
			d.cards = append(d.cards, NewCard(id, Suit(suit), Rank(rank)))
		}
	}
	return d, nil
}

// NewStandard builds a standard 52-card deck
func NewStandard(rng *rand.Rand) (*Deck, error) {
	return New(rng, SuitCount, RankCount)
}

// Size returns the number of cards in the full set
func (d *Deck) Size() int {
	return len(d.cards)
}

// Cards returns the full card set in id order. The slice is a copy but the
// cards are shared.
func (d *Deck) Cards() []*Card {
	out := make([]*Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// Card looks a card up by id
func (d *Deck) Card(id int) (*Card, error) {
	if id < 0 || id >= len(d.cards) {
		return nil, gameerr.Unregistered("card", id)
	}
	return d.cards[id], nil
}

// PoolSize returns the number of drawable cards
func (d *Deck) PoolSize() int {
	return len(d.pool)
}

// InPool reports whether the card with the given id can currently be drawn
func (d *Deck) InPool(id int) bool {
	for _, c := range d.pool {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Reshuffle refills the pool with every card regardless of hand
// membership. Callers must clear hands before or right after calling it.
func (d *Deck) Reshuffle() {
	d.pool = d.pool[:0]
	d.pool = append(d.pool, d.cards...)
}

// SoftReshuffle refills the pool with every card that is not held in a
// hand. Cards in hands stay where they are.
func (d *Deck) SoftReshuffle(src HandSource) {
	held := make(map[int]bool)
	if src != nil {
		for _, c := range src.HeldCards() {
			held[c.ID] = true
		}
	}

	d.pool = d.pool[:0]
	for _, c := range d.cards {
		if !held[c.ID] {
			d.pool = append(d.pool, c)
		}
	}
}

// DealRandomCard removes a uniformly random card from the pool and marks it
// in play. An empty pool is soft reshuffled once first; if that still leaves
// nothing to draw, ErrDeckExhausted is returned.
func (d *Deck) DealRandomCard(src HandSource) (*Card, error) {
	if d.IsEmpty() {
		d.SoftReshuffle(src)
		if d.IsEmpty() {
			return nil, fmt.Errorf("deal from %d-card deck: %w", len(d.cards), gameerr.ErrDeckExhausted)
		}
	}

	i := d.rng.IntN(len(d.pool))
	card := d.pool[i]
	last := len(d.pool) - 1
	d.pool[i] = d.pool[last]
	d.pool[last] = nil
	d.pool = d.pool[:last]

	card.InPlay = true
	return card, nil
}

// Remove takes a specific card out of the pool. It reports whether the card
// was present.
func (d *Deck) Remove(id int) bool {
	for i, c := range d.pool {
		if c.ID == id {
			d.pool = append(d.pool[:i], d.pool[i+1:]...)
			return true
		}
	}
	return false
}

// IsEmpty returns true if no cards remain in the pool
func (d *Deck) IsEmpty() bool {
	return len(d.pool) == 0
}

// NotEnoughCards returns true if fewer than required cards can be drawn
// without reshuffling
func (d *Deck) NotEnoughCards(required int) bool {
	return len(d.pool) < required
}
