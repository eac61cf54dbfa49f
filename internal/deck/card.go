package deck

import "fmt"

// Suit represents a card suit
type Suit int

const (
	Spade Suit = iota
	Heart
	Diamond
	Club
)

// SuitCount is the number of suits in a standard deck
const SuitCount = 4

// String returns the symbol for the suit
func (s Suit) String() string {
	switch s {
	case Spade:
		return "♠"
	case Heart:
		return "♥"
	case Diamond:
		return "♦"
	case Club:
		return "♣"
	default:
		return "?"
	}
}

// Name returns the long name of the suit
func (s Suit) Name() string {
	switch s {
	case Spade:
		return "Spade"
	case Heart:
		return "Heart"
	case Diamond:
		return "Diamond"
	case Club:
		return "Club"
	default:
		return "Unknown"
	}
}

// IsRed returns true for hearts and diamonds
func (s Suit) IsRed() bool {
	return s == Heart || s == Diamond
}

// Rank represents a card rank, ace low
type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// RankCount is the number of ranks in a standard deck
const RankCount = 13

// String returns the short label for the rank
func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Ten:
		return "10"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	if r >= Two && r <= Nine {
		return fmt.Sprintf("%d", int(r))
	}
	return "?"
}

// IsFace returns true for jacks, queens and kings
func (r Rank) IsFace() bool {
	return r >= Jack && r <= King
}

// Card is a single playing card. ID, Suit and Rank never change after the
// deck is built; InPlay and FaceUp track the card on the table.
type Card struct {
	ID     int
	Suit   Suit
	Rank   Rank
	InPlay bool
	FaceUp bool
}

// NewCard creates a face-down card that is not in play
func NewCard(id int, suit Suit, rank Rank) *Card {
	return &Card{ID: id, Suit: suit, Rank: rank}
}

// Reveal turns the card face up
func (c *Card) Reveal() { c.FaceUp = true }

// Hide turns the card face down
func (c *Card) Hide() { c.FaceUp = false }

// Name returns the card in "Suit-Rank" form, e.g. "Spade-A"
func (c *Card) Name() string {
	return fmt.Sprintf("%s-%s", c.Suit.Name(), c.Rank)
}

// String returns the compact form of the card (e.g., "A♠")
func (c *Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// IsRed returns true if the card is red
func (c *Card) IsRed() bool {
	return c.Suit.IsRed()
}
