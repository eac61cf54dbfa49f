package simulator

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Results aggregates finished rounds across sessions. Seat 0 is the dealer.
type Results struct {
	Sessions    int
	Rounds      int
	NoWinner    int // rounds where every hand busted
	Aborted     int // rounds abandoned because the deck ran out
	WinsBySeat  []int
	BustsBySeat []int
	Seed        int64
	Duration    time.Duration
}

func newResults(seats int) *Results {
	return &Results{
		WinsBySeat:  make([]int, seats),
		BustsBySeat: make([]int, seats),
	}
}

func (r *Results) merge(other *Results) {
	r.Sessions += other.Sessions
	r.Rounds += other.Rounds
	r.NoWinner += other.NoWinner
	r.Aborted += other.Aborted
	for i := range r.WinsBySeat {
		r.WinsBySeat[i] += other.WinsBySeat[i]
		r.BustsBySeat[i] += other.BustsBySeat[i]
	}
}

// WinRate returns the fraction of rounds the seat won
func (r *Results) WinRate(seat int) float64 {
	if r.Rounds == 0 || seat < 0 || seat >= len(r.WinsBySeat) {
		return 0
	}
	return float64(r.WinsBySeat[seat]) / float64(r.Rounds)
}

// BustRate returns the fraction of rounds the seat busted
func (r *Results) BustRate(seat int) float64 {
	if r.Rounds == 0 || seat < 0 || seat >= len(r.BustsBySeat) {
		return 0
	}
	return float64(r.BustsBySeat[seat]) / float64(r.Rounds)
}

// StdError returns the standard error of the seat's win rate
func (r *Results) StdError(seat int) float64 {
	if r.Rounds == 0 {
		return 0
	}
	p := r.WinRate(seat)
	return math.Sqrt(p * (1 - p) / float64(r.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the seat's
// win rate
func (r *Results) ConfidenceInterval95(seat int) (float64, float64) {
	p := r.WinRate(seat)
	margin := 1.96 * r.StdError(seat)
	return math.Max(0, p-margin), math.Min(1, p+margin)
}

// Summary formats the results for the terminal
func (r *Results) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n=== SIMULATION RESULTS ===\n")
	fmt.Fprintf(&b, "Sessions: %d, rounds: %d, seed: %d\n", r.Sessions, r.Rounds, r.Seed)
	if r.Duration > 0 {
		fmt.Fprintf(&b, "Elapsed: %s\n", r.Duration.Round(time.Millisecond))
	}

	fmt.Fprintf(&b, "\n=== SEATS ===\n")
	for seat := range r.WinsBySeat {
		name := fmt.Sprintf("Bot %d", seat)
		if seat == 0 {
			name = "Dealer"
		}
		low, high := r.ConfidenceInterval95(seat)
		fmt.Fprintf(&b, "%-8s wins %6d (%5.1f%%, 95%% CI [%.1f%%, %.1f%%])  busts %5.1f%%\n",
			name, r.WinsBySeat[seat], r.WinRate(seat)*100, low*100, high*100, r.BustRate(seat)*100)
	}

	if r.Rounds > 0 {
		fmt.Fprintf(&b, "\nNo winner: %d rounds (%.1f%%)\n", r.NoWinner, float64(r.NoWinner)/float64(r.Rounds)*100)
	}
	if r.Aborted > 0 {
		fmt.Fprintf(&b, "Aborted:   %d rounds (deck exhausted)\n", r.Aborted)
	}
	return b.String()
}
