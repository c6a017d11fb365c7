package events

const (
	// KindSessionStateChanged identifies voice session state transitions.
	KindSessionStateChanged Kind = "session.state_changed"
)

// SessionStateChanged carries a voice session state transition.
type SessionStateChanged struct {
	Base
	Previous string
	Current  string
}

// NewSessionStateChanged creates a session state changed event.
func NewSessionStateChanged(previous, current string) SessionStateChanged {
	return SessionStateChanged{Base: NewBase(KindSessionStateChanged), Previous: previous, Current: current}
}
