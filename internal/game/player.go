package game

import (
	"errors"
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// ErrDuplicateCard is returned when a card is added to a hand that already holds it
var ErrDuplicateCard = errors.New("card already in hand")

// Player represents a participant at the table
type Player struct {
	ID       int
	Name     string
	IsMyTurn bool
	IsDealer bool

	hand []*deck.Card
}

// NewPlayer creates a player with an empty hand
func NewPlayer(id int, name string) *Player {
	return &Player{ID: id, Name: name}
}

// Hand returns the cards held, in the order they were dealt
func (p *Player) Hand() []*deck.Card {
	out := make([]*deck.Card, len(p.hand))
	copy(out, p.hand)
	return out
}

// HandSize returns the number of cards held
func (p *Player) HandSize() int {
	return len(p.hand)
}

// HasCard reports whether the hand contains the card with the given id
func (p *Player) HasCard(id int) bool {
	for _, c := range p.hand {
		if c.ID == id {
			return true
		}
	}
	return false
}

// AddCard appends a card to the hand
func (p *Player) AddCard(c *deck.Card) error {
	if c == nil {
		return fmt.Errorf("add nil card to %s", p.Name)
	}
	if p.HasCard(c.ID) {
		return fmt.Errorf("%s holds %s: %w", p.Name, c, ErrDuplicateCard)
	}
	c.InPlay = true
	p.hand = append(p.hand, c)
	return nil
}

// ClearHand empties the hand and returns the cards that were in it, turned
// face down and out of play
func (p *Player) ClearHand() []*deck.Card {
	cleared := p.hand
	for _, c := range cleared {
		c.InPlay = false
		c.FaceUp = false
	}
	p.hand = nil
	return cleared
}

// RevealHand turns every card in the hand face up
func (p *Player) RevealHand() {
	for _, c := range p.hand {
		c.Reveal()
	}
}

// String returns the player name
func (p *Player) String() string {
	return p.Name
}

// IDSequence hands out monotonically increasing player ids. Ids supplied
// explicitly are observed so later generated ids never collide with them.
type IDSequence struct {
	next int
}

// NewIDSequence returns a sequence whose first id is 1
func NewIDSequence() *IDSequence {
	return &IDSequence{next: 1}
}

// Next returns a fresh id
func (s *IDSequence) Next() int {
	id := s.next
	s.next++
	return id
}

// Observe records an externally chosen id
func (s *IDSequence) Observe(id int) {
	if id >= s.next {
		s.next = id + 1
	}
}

// Peek returns the id Next would return without consuming it
func (s *IDSequence) Peek() int {
	return s.next
}
