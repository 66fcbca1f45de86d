package game

// Phase is the derived room phase. Transitions are driven entirely by
// inbound snapshots; the client never self-transitions.
type Phase int

const (
	PhaseLobby Phase = iota
	PhaseWordChoice
	PhaseDrawing
	PhaseRoundEnd
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseWordChoice:
		return "word_choice"
	case PhaseDrawing:
		return "drawing"
	case PhaseRoundEnd:
		return "round_end"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}
