package orchestration

import (
	"sync"

	"github.com/omnifolio/assistant-core/core/events"
)

// SessionState names the single externally visible state of a voice session.
type SessionState string

const (
	StateIdle                 SessionState = "idle"
	StateRequestingPermission SessionState = "requesting-permission"
	StateListening            SessionState = "listening"
	StateSpeaking             SessionState = "speaking"
)

// sessionState serializes state transitions and emits a change event for
// every transition that actually happens. Only the transitions in the allowed
// table go through; everything else is silently dropped so a late callback
// from a capture or playback handle can never corrupt the session.
type sessionState struct {
	mu      sync.Mutex
	current SessionState

	emitEvent eventEmitter
}

// Listening and Speaking never connect directly: the orchestrator ends one
// activity and passes through Idle before starting the other.
var allowedTransitions = map[SessionState][]SessionState{
	StateIdle:                 {StateRequestingPermission, StateListening, StateSpeaking},
	StateRequestingPermission: {StateListening, StateIdle},
	StateListening:            {StateIdle},
	StateSpeaking:             {StateIdle},
}

func newSessionState() *sessionState {
	return &sessionState{
		current:   StateIdle,
		emitEvent: noopEventEmitter,
	}
}

func (s *sessionState) setEventEmitter(emitEvent eventEmitter) {
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if emitEvent != nil {
		s.emitEvent = emitEvent
	} else {
		s.emitEvent = noopEventEmitter
	}
}

func (s *sessionState) Current() SessionState {
	if s == nil {
		return StateIdle
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// transitionTo moves the session to the target state if the transition is
// allowed, reporting whether it happened.
func (s *sessionState) transitionTo(target SessionState) bool {
	if s == nil {
		return false
	}

	s.mu.Lock()
	if s.current == target {
		s.mu.Unlock()
		return true
	}

	allowed := false
	for _, candidate := range allowedTransitions[s.current] {
		if candidate == target {
			allowed = true
			break
		}
	}
	if !allowed {
		s.mu.Unlock()
		return false
	}

	previous := s.current
	s.current = target
	emitEvent := s.emitEvent
	s.mu.Unlock()

	emitEvent(events.NewSessionStateChanged(string(previous), string(target)))
	return true
}
