package blackjack

// Phase is one stage of the round lifecycle
type Phase int

const (
	PhaseReset Phase = iota
	PhaseDeal
	PhasePlayerTurn
	PhaseRoundEnd
	PhaseClear
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case PhaseReset:
		return "Reset"
	case PhaseDeal:
		return "Deal"
	case PhasePlayerTurn:
		return "PlayerTurn"
	case PhaseRoundEnd:
		return "RoundEnd"
	case PhaseClear:
		return "Clear"
	default:
		return "Unknown"
	}
}
