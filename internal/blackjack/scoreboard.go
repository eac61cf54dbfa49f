package blackjack

import "sort"

// ScoreEntry is one player's running record
type ScoreEntry struct {
	PlayerID int
	Score    int
	Wins     int
	Bust     bool
}

// Scoreboard tracks the current score and win tally per player id
type Scoreboard struct {
	entries map[int]*ScoreEntry
}

// NewScoreboard creates an empty scoreboard
func NewScoreboard() *Scoreboard {
	return &Scoreboard{entries: make(map[int]*ScoreEntry)}
}

func (s *Scoreboard) entry(id int) *ScoreEntry {
	e, ok := s.entries[id]
	if !ok {
		e = &ScoreEntry{PlayerID: id}
		s.entries[id] = e
	}
	return e
}

// SetScore records a player's score. Anything over 21 raises the bust flag.
func (s *Scoreboard) SetScore(id, score int) {
	e := s.entry(id)
	e.Score = score
	e.Bust = score > Blackjack
}

// Score returns the last recorded score for a player
func (s *Scoreboard) Score(id int) int {
	if e, ok := s.entries[id]; ok {
		return e.Score
	}
	return 0
}

// IsBust reports the player's bust flag
func (s *Scoreboard) IsBust(id int) bool {
	if e, ok := s.entries[id]; ok {
		return e.Bust
	}
	return false
}

// AddWin increments a player's win tally
func (s *Scoreboard) AddWin(id int) {
	s.entry(id).Wins++
}

// SetWins overwrites a player's win tally
func (s *Scoreboard) SetWins(id, wins int) {
	s.entry(id).Wins = wins
}

// Wins returns a player's win tally
func (s *Scoreboard) Wins(id int) int {
	if e, ok := s.entries[id]; ok {
		return e.Wins
	}
	return 0
}

// ResetRound clears scores and bust flags but keeps win tallies
func (s *Scoreboard) ResetRound() {
	for _, e := range s.entries {
		e.Score = 0
		e.Bust = false
	}
}

// Entries returns a copy of every entry ordered by player id
func (s *Scoreboard) Entries() []ScoreEntry {
	out := make([]ScoreEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}
