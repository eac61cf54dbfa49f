package blackjack

import "github.com/lox/blackjack/internal/deck"

// Blackjack is the best possible score
const Blackjack = 21

// acePromotion is the extra value an ace is worth when counted as 11
const acePromotion = 10

// CardValue returns the blackjack value of a rank with aces counted as 1
func CardValue(r deck.Rank) int {
	switch {
	case r >= deck.Ten:
		return 10
	case r >= deck.Ace:
		return int(r)
	default:
		return 0
	}
}

// Score returns the value of a hand. At most one ace is promoted to 11, and
// only when doing so keeps the total at or under 21.
func Score(hand []*deck.Card) int {
	sum, aces := 0, false
	for _, c := range hand {
		sum += CardValue(c.Rank)
		if c.Rank == deck.Ace {
			aces = true
		}
	}
	if aces && sum+acePromotion <= Blackjack {
		sum += acePromotion
	}
	return sum
}

// VisibleScore scores only the face-up cards of a hand
func VisibleScore(hand []*deck.Card) int {
	visible := make([]*deck.Card, 0, len(hand))
	for _, c := range hand {
		if c.FaceUp {
			visible = append(visible, c)
		}
	}
	return Score(visible)
}

// IsBust reports whether a hand is over 21
func IsBust(hand []*deck.Card) bool {
	return Score(hand) > Blackjack
}

// CanHit reports whether a hand may take another card
func CanHit(hand []*deck.Card) bool {
	return Score(hand) < Blackjack
}

// HandStatus classifies a hand for turn control
type HandStatus int

const (
	Open HandStatus = iota
	TwentyOne
	Bust
)

func (s HandStatus) String() string {
	switch s {
	case Open:
		return "open"
	case TwentyOne:
		return "twenty-one"
	case Bust:
		return "bust"
	default:
		return "unknown"
	}
}

// Status returns whether the hand can still draw, sits on 21, or has busted
func Status(hand []*deck.Card) HandStatus {
	switch s := Score(hand); {
	case s > Blackjack:
		return Bust
	case s == Blackjack:
		return TwentyOne
	default:
		return Open
	}
}

// Winner returns the seat with the highest score at or under 21. Seats are
// scanned in order with a strict comparison, so ties go to the earlier seat.
// ok is false when no hand qualifies.
func Winner(hands [][]*deck.Card) (seat int, ok bool) {
	seat, highest := -1, 0
	for i, h := range hands {
		s := Score(h)
		if s <= Blackjack && s > highest {
			seat, highest = i, s
		}
	}
	return seat, seat >= 0
}
