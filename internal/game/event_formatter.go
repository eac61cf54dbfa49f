package game

import (
	"fmt"
	"strings"
)

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	ShowPhases  bool   // Include phase_complete transitions
	Perspective string // Player name rendered as "You"
}

// EventFormatter turns game events into single log lines
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format returns a human-readable line for the event, or "" when the event
// is not worth showing under the current options
func (ef *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case GameLoadedEvent:
		verb := "Started"
		if e.Resumed {
			verb = "Resumed"
		}
		return fmt.Sprintf("%s session with %s", verb, strings.Join(e.Players, ", "))
	case ResetEvent:
		return "Cards returned to the box"
	case ShuffleEvent:
		if e.Hard {
			return fmt.Sprintf("Fresh deck shuffled (%d cards)", e.PoolSize)
		}
		return fmt.Sprintf("Discards shuffled back (%d cards)", e.PoolSize)
	case CardDealtEvent:
		return fmt.Sprintf("Dealt card %d/%d to %s", e.Dealt, e.Total, ef.name(e.PlayerName))
	case DealEvent:
		return fmt.Sprintf("Deal complete, %d cards left", e.PoolSize)
	case TurnEvent:
		return fmt.Sprintf("%s to act (%d)", ef.name(e.PlayerName), e.Score)
	case HitEvent:
		line := fmt.Sprintf("%s hits: %s for %d", ef.name(e.PlayerName), e.Card.String(), e.Score)
		if e.Bust {
			line += " BUST"
		}
		return line
	case StayEvent:
		return fmt.Sprintf("%s stays on %d", ef.name(e.PlayerName), e.Score)
	case RoundEndEvent:
		return ef.formatRoundEnd(e)
	case RoundAbortedEvent:
		return fmt.Sprintf("Round %d aborted: %v", e.Round, e.Err)
	case PauseEvent:
		if e.Paused {
			return "Paused"
		}
		return "Resumed"
	case PhaseCompleteEvent:
		if !ef.opts.ShowPhases {
			return ""
		}
		return fmt.Sprintf("%s -> %s", e.From, e.To)
	default:
		return ""
	}
}

func (ef *EventFormatter) formatRoundEnd(e RoundEndEvent) string {
	if !e.HasWinner {
		return fmt.Sprintf("Round %d: no winner", e.Round)
	}
	score := 0
	for _, r := range e.Results {
		if r.PlayerID == e.WinnerID {
			score = r.Score
		}
	}
	return fmt.Sprintf("Round %d: %s wins with %d", e.Round, ef.name(e.WinnerName), score)
}

func (ef *EventFormatter) name(player string) string {
	if ef.opts.Perspective != "" && player == ef.opts.Perspective {
		return "You"
	}
	return player
}
