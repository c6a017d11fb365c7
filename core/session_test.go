package orchestration

import (
	"testing"

	"github.com/omnifolio/assistant-core/core/events"
)

func TestSessionStateTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    SessionState
		to      SessionState
		allowed bool
	}{
		{"idle to requesting permission", StateIdle, StateRequestingPermission, true},
		{"requesting permission to listening", StateRequestingPermission, StateListening, true},
		{"requesting permission back to idle", StateRequestingPermission, StateIdle, true},
		{"listening to idle", StateListening, StateIdle, true},
		{"speaking to idle", StateSpeaking, StateIdle, true},
		{"listening cannot go straight to speaking", StateListening, StateSpeaking, false},
		{"speaking cannot go straight to listening", StateSpeaking, StateListening, false},
		{"speaking cannot request permission", StateSpeaking, StateRequestingPermission, false},
		{"listening cannot request permission", StateListening, StateRequestingPermission, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			session := newSessionState()
			session.current = c.from

			if got := session.transitionTo(c.to); got != c.allowed {
				t.Fatalf("expected transition allowed=%t, got %t", c.allowed, got)
			}

			want := c.to
			if !c.allowed {
				want = c.from
			}
			if got := session.Current(); got != want {
				t.Fatalf("expected state %s, got %s", want, got)
			}
		})
	}
}

func TestSessionStateEmitsChangeEvents(t *testing.T) {
	session := newSessionState()

	var emitted []events.Event
	session.setEventEmitter(func(event events.Event) {
		emitted = append(emitted, event)
	})

	session.transitionTo(StateRequestingPermission)
	session.transitionTo(StateRequestingPermission) // same state, no event
	session.transitionTo(StateListening)

	if len(emitted) != 2 {
		t.Fatalf("expected two state change events, got %d", len(emitted))
	}

	change, ok := emitted[1].(events.SessionStateChanged)
	if !ok {
		t.Fatalf("expected a session state change event, got %T", emitted[1])
	}
	if change.Previous != string(StateRequestingPermission) || change.Current != string(StateListening) {
		t.Fatalf("expected requesting-permission to listening, got %s to %s", change.Previous, change.Current)
	}
}
