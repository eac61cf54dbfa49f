// Package snapshot converts a running table to plain data and back.
//
// Everything is keyed by stable integer id. Restoring never matches players
// or cards by name or by position.
package snapshot

import (
	"fmt"
	"time"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/gameerr"
)

// Version is the current snapshot format version
const Version = 1

// CardData is the play state of one card
type CardData struct {
	ID     int       `json:"id"`
	Suit   deck.Suit `json:"suit"`
	Rank   deck.Rank `json:"rank"`
	InPlay bool      `json:"inPlay"`
	FaceUp bool      `json:"faceUp"`
}

// PlayerData is one seat and the ids of the cards in its hand
type PlayerData struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	CardIDs  []int  `json:"cardIds"`
	IsMyTurn bool   `json:"isMyTurn"`
	IsDealer bool   `json:"isDealer"`
}

// PlayerScore is a player's current score and win tally
type PlayerScore struct {
	PlayerID int `json:"playerId"`
	Score    int `json:"score"`
	Wins     int `json:"wins"`
}

// Stats are session-wide counters
type Stats struct {
	RoundsPlayed int `json:"roundsPlayed"`
}

// GameSnapshot is the persisted form of a session
type GameSnapshot struct {
	Version           int           `json:"version"`
	SessionID         string        `json:"sessionId"`
	SavedAt           time.Time     `json:"savedAt"`
	Players           []PlayerData  `json:"players"`
	// Cards holds held cards only; every other card is in the pool on restore
	Cards             []CardData    `json:"cards"`
	PlayerTurn        int           `json:"playerTurn"`
	StartingCardCount int           `json:"startingCardCount"`
	InRound           bool          `json:"inRound"`
	Scores            []PlayerScore `json:"scores"`
	Stats             Stats         `json:"stats"`
}

// Capture copies the table and deck into a snapshot. Only cards that are in
// a hand are recorded; everything else is back in the pool on restore.
func Capture(t *game.Table, d *deck.Deck, scores []PlayerScore, stats Stats) GameSnapshot {
	snap := GameSnapshot{
		Version:           Version,
		PlayerTurn:        t.PlayerTurn(),
		StartingCardCount: t.StartingCardCount(),
		Scores:            append([]PlayerScore(nil), scores...),
		Stats:             stats,
	}

	for _, p := range t.Players() {
		pd := PlayerData{
			ID:       p.ID,
			Name:     p.Name,
			CardIDs:  []int{},
			IsMyTurn: p.IsMyTurn,
			IsDealer: p.IsDealer,
		}
		for _, c := range p.Hand() {
			pd.CardIDs = append(pd.CardIDs, c.ID)
			snap.Cards = append(snap.Cards, CardData{
				ID:     c.ID,
				Suit:   c.Suit,
				Rank:   c.Rank,
				InPlay: c.InPlay,
				FaceUp: c.FaceUp,
			})
		}
		snap.Players = append(snap.Players, pd)
	}
	return snap
}

// Restored summarises what Restore applied
type Restored struct {
	Players    int
	Cards      int
	PlayerTurn int
	Scores     []PlayerScore
	Stats      Stats
}

// Restore re-links a snapshot onto a live table and deck. Hands are cleared
// first, then rebuilt from card ids; the pool is soft reshuffled around them.
//
// References to players or cards that do not exist are skipped and returned
// as errors. The restore itself never fails outright.
func Restore(t *game.Table, d *deck.Deck, snap *GameSnapshot) (Restored, []error) {
	var (
		out  = Restored{PlayerTurn: t.PlayerTurn(), Stats: snap.Stats}
		errs []error
	)

	t.ClearHands()

	cardState := make(map[int]CardData, len(snap.Cards))
	for _, cd := range snap.Cards {
		cardState[cd.ID] = cd
	}

	placed := make(map[int]int)
	var dealer *game.Player
	for _, pd := range snap.Players {
		p, err := t.PlayerByID(pd.ID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out.Players++
		p.IsMyTurn = pd.IsMyTurn
		if pd.IsDealer && dealer == nil {
			dealer = p
		}

		for _, id := range pd.CardIDs {
			c, err := d.Card(id)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			cd, known := cardState[id]
			if known && (cd.Suit != c.Suit || cd.Rank != c.Rank) {
				errs = append(errs, fmt.Errorf("card %d was %s-%s when saved but is %s: %w",
					id, cd.Suit.Name(), cd.Rank, c.Name(), gameerr.Unregistered("card", id)))
				continue
			}
			if owner, ok := placed[id]; ok {
				errs = append(errs, fmt.Errorf("card %d already restored to player %d: %w", id, owner, game.ErrDuplicateCard))
				continue
			}
			if err := p.AddCard(c); err != nil {
				errs = append(errs, err)
				continue
			}
			placed[id] = p.ID
			if known {
				c.FaceUp = cd.FaceUp
			}
			out.Cards++
		}
	}

	if dealer != nil {
		_ = t.SetDealer(dealer)
	}

	// the saved turn is a seat index; follow the player who held it
	turn := snap.PlayerTurn
	if turn >= 0 && turn < len(snap.Players) {
		if seat, ok := t.SeatOf(snap.Players[turn].ID); ok {
			turn = seat
		}
	}
	if err := t.SetPlayerTurn(turn); err != nil {
		errs = append(errs, err)
	} else {
		out.PlayerTurn = turn
	}

	for _, s := range snap.Scores {
		if _, err := t.PlayerByID(s.PlayerID); err != nil {
			errs = append(errs, err)
			continue
		}
		out.Scores = append(out.Scores, s)
	}

	d.SoftReshuffle(t)
	return out, errs
}
