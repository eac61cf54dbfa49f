package game

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// DealPlan hands out a round's starting cards one at a time. Seats are
// visited in order beginning with the seat after the dealer, so every seat
// receives one card before any seat receives a second.
type DealPlan struct {
	table *Table
	start int
	dealt int
	total int
}

// NewDealPlan prepares a deal of the table's starting card count
func NewDealPlan(t *Table) *DealPlan {
	return &DealPlan{
		table: t,
		start: t.GetDealer() + 1,
		total: t.CardsRequired(),
	}
}

// Next draws one card from d into the next seat's hand
func (p *DealPlan) Next(d *deck.Deck) (*Player, *deck.Card, error) {
	if p.Done() {
		return nil, nil, fmt.Errorf("deal plan finished after %d cards", p.total)
	}

	player := p.table.GetPlayer(p.start + p.dealt)
	card, err := d.DealRandomCard(p.table)
	if err != nil {
		return player, nil, err
	}
	if err := player.AddCard(card); err != nil {
		return player, nil, err
	}
	p.dealt++
	return player, card, nil
}

// Done reports whether every card has been dealt
func (p *DealPlan) Done() bool { return p.dealt >= p.total }

// Dealt returns the number of cards dealt so far
func (p *DealPlan) Dealt() int { return p.dealt }

// Total returns the number of cards the plan deals
func (p *DealPlan) Total() int { return p.total }
