package events

import "github.com/omnifolio/assistant-core/core/assistant"

const (
	// KindActionProposed identifies assistant-proposed actions awaiting confirmation.
	KindActionProposed Kind = "action.proposed"
	// KindActionConfirmed identifies confirmed and executed actions.
	KindActionConfirmed Kind = "action.confirmed"
	// KindActionCancelled identifies actions dismissed without execution.
	KindActionCancelled Kind = "action.cancelled"
)

// ActionProposed carries an action awaiting explicit user confirmation.
type ActionProposed struct {
	Base
	Action assistant.ProposedAction
}

// NewActionProposed creates an action proposed event.
func NewActionProposed(action assistant.ProposedAction) ActionProposed {
	return ActionProposed{Base: NewBase(KindActionProposed), Action: action}
}

// ActionConfirmed carries the outcome of a confirmed, executed action.
type ActionConfirmed struct {
	Base
	Action  assistant.ProposedAction
	Success bool
	Message string
}

// NewActionConfirmed creates an action confirmed event.
func NewActionConfirmed(action assistant.ProposedAction, success bool, message string) ActionConfirmed {
	return ActionConfirmed{Base: NewBase(KindActionConfirmed), Action: action, Success: success, Message: message}
}

// ActionCancelled carries an action that was dismissed without execution.
type ActionCancelled struct {
	Base
	Action assistant.ProposedAction
}

// NewActionCancelled creates an action cancelled event.
func NewActionCancelled(action assistant.ProposedAction) ActionCancelled {
	return ActionCancelled{Base: NewBase(KindActionCancelled), Action: action}
}
