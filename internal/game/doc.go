// Package game holds the table-side model of a card session: players and
// their hands, seating order, turn rotation and dealer assignment.
//
// A Table is not safe for concurrent use. The blackjack engine owns one and
// serialises every mutation behind its own lock.
//
// # Seating
//
// Seats are fixed for the session. GetPlayer wraps around rather than
// failing, and NextPlayerTurn is the only primitive that moves the turn:
//
//	t, _ := game.NewTable(players, game.WithStartingCardCount(2))
//	dealer := t.GetDealer()   // assigns seat 0 if nobody holds the flag
//	next := t.NextPlayerTurn() // clears IsMyTurn on the old seat, sets it on the new one
//
// # Dealing
//
// DealPlan walks the seats starting after the dealer, one card at a time, so a
// caller can either drain it in a loop or hand out cards as the presentation
// layer acknowledges each one.
//
// # Events
//
// EventBus delivers typed GameEvents to subscribers. Subscribing the same
// subscriber twice is a no-op, as is unsubscribing one that is not present.
package game
