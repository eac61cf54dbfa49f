package blackjack

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// Action is what a player does on their turn
type Action int

const (
	Stay Action = iota
	Hit
)

func (a Action) String() string {
	if a == Hit {
		return "hit"
	}
	return "stay"
}

// Decision represents an agent's choice with reasoning
type Decision struct {
	Action    Action
	Reasoning string
}

// SeatView is the read-only view of another seat
type SeatView struct {
	PlayerID int
	Name     string
	Score    int
	IsDealer bool
}

// TurnView is the read-only state handed to an agent on its turn
type TurnView struct {
	PlayerID int
	Hand     []deck.Card
	Score    int
	CanHit   bool
	IsDealer bool
	Others   []SeatView
}

// Agent plays a seat without external commands. Agents receive immutable
// state and return decisions; the engine applies them after ThinkTime.
type Agent interface {
	Decide(view TurnView) Decision
	ThinkTime() time.Duration
}

// DealerAgent stays as soon as no other seat holds a better non-busted
// score, and hits otherwise
type DealerAgent struct {
	Think time.Duration
}

// NewDealerAgent creates a dealer agent with the given thinking time
func NewDealerAgent(think time.Duration) *DealerAgent {
	return &DealerAgent{Think: think}
}

func (a *DealerAgent) ThinkTime() time.Duration { return a.Think }

func (a *DealerAgent) Decide(view TurnView) Decision {
	if !view.CanHit {
		return Decision{Action: Stay, Reasoning: "hand is closed"}
	}
	for _, other := range view.Others {
		if other.Score > view.Score && other.Score <= Blackjack {
			return Decision{Action: Hit, Reasoning: other.Name + " is ahead"}
		}
	}
	return Decision{Action: Stay, Reasoning: "holding the best hand"}
}

// ThresholdAgent hits until its score reaches StandOn
type ThresholdAgent struct {
	StandOn int
	Think   time.Duration
}

// NewThresholdAgent creates an agent that stands on standOn or better
func NewThresholdAgent(standOn int, think time.Duration) *ThresholdAgent {
	return &ThresholdAgent{StandOn: standOn, Think: think}
}

func (a *ThresholdAgent) ThinkTime() time.Duration { return a.Think }

func (a *ThresholdAgent) Decide(view TurnView) Decision {
	if view.CanHit && view.Score < a.StandOn {
		return Decision{Action: Hit, Reasoning: "below threshold"}
	}
	return Decision{Action: Stay, Reasoning: "at threshold"}
}
