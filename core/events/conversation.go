package events

import "github.com/omnifolio/assistant-core/core/assistant"

const (
	// KindTurnAppended identifies turns appended to the conversation log.
	KindTurnAppended Kind = "conversation.turn_appended"
)

// TurnAppended carries a turn that was appended to the conversation log.
type TurnAppended struct {
	Base
	Turn assistant.Turn
}

// NewTurnAppended creates a turn appended event.
func NewTurnAppended(turn assistant.Turn) TurnAppended {
	return TurnAppended{Base: NewBase(KindTurnAppended), Turn: turn}
}
