package blackjack

import "github.com/lox/blackjack/internal/deck"

// SeatState is a copy of one seat for presentation
type SeatState struct {
	PlayerID     int
	Name         string
	Seat         int
	Cards        []deck.Card
	Score        int
	VisibleScore int
	Bust         bool
	Wins         int
	IsMyTurn     bool
	IsDealer     bool
	IsAgent      bool
}

// State is a point-in-time copy of the engine, safe to read without locks
type State struct {
	SessionID   string
	Started     bool
	Paused      bool
	Phase       Phase
	Round       int
	PlayerTurn  int
	Seats       []SeatState
	PoolSize    int
	DeckSize    int
	AwaitingAck bool

	// CanAct is true when an external Hit or Stay would be accepted
	CanAct bool
	CanHit bool

	HasWinner  bool
	WinnerName string
	LastError  error

	MinPlayers int
	Registered int
}

// Active returns the seat whose turn it is, if the game has started
func (s State) Active() (SeatState, bool) {
	if !s.Started || s.PlayerTurn < 0 || s.PlayerTurn >= len(s.Seats) {
		return SeatState{}, false
	}
	return s.Seats[s.PlayerTurn], true
}
