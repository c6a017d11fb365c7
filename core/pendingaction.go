package orchestration

import (
	"sync"

	"github.com/omnifolio/assistant-core/core/assistant"
)

// pendingAction holds the at-most-one action awaiting user confirmation.
// Proposing a new action while one is held fails; the caller must resolve the
// held action first.
type pendingAction struct {
	mu     sync.Mutex
	action *assistant.ProposedAction
}

func newPendingAction() *pendingAction {
	return &pendingAction{}
}

func (p *pendingAction) propose(action assistant.ProposedAction) bool {
	if p == nil {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.action != nil {
		return false
	}

	p.action = &action
	return true
}

// take removes and returns the held action. The holder is empty afterwards
// regardless of what the caller does with the action.
func (p *pendingAction) take() (assistant.ProposedAction, bool) {
	if p == nil {
		return assistant.ProposedAction{}, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.action == nil {
		return assistant.ProposedAction{}, false
	}

	action := *p.action
	p.action = nil
	return action, true
}

// Current returns a copy of the held action, if any.
func (p *pendingAction) Current() *assistant.ProposedAction {
	if p == nil {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.action == nil {
		return nil
	}

	action := *p.action
	return &action
}

func (p *pendingAction) isHeld() bool {
	return p.Current() != nil
}
