package blackjack

import "errors"

// Command rejections. None of them change engine state.
var (
	ErrNotStarted     = errors.New("game not started")
	ErrAlreadyStarted = errors.New("game already started")
	ErrPaused         = errors.New("game is paused")
	ErrWrongPhase     = errors.New("not allowed in this phase")
	ErrCannotHit      = errors.New("hand cannot take another card")
	ErrAgentSeat      = errors.New("active seat is played by an agent")
	ErrNoDealPending  = errors.New("no dealt card awaiting acknowledgement")
	ErrRoundAborted   = errors.New("round aborted")
)
