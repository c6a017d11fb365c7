package events

import (
	"testing"

	"github.com/omnifolio/assistant-core/core/assistant"
)

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	action := assistant.ProposedAction{Type: "buy", Payload: map[string]any{"symbol": "BTC"}}

	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "user capture started", event: NewUserCaptureStarted(), expected: KindUserCaptureStarted},
		{name: "user transcript interim updated", event: NewUserTranscriptInterimUpdated("text"), expected: KindUserTranscriptInterimUpdated},
		{name: "user transcript final", event: NewUserTranscriptFinal("text"), expected: KindUserTranscriptFinal},
		{name: "user capture ended", event: NewUserCaptureEnded(), expected: KindUserCaptureEnded},
		{name: "turn appended", event: NewTurnAppended(assistant.Turn{Role: assistant.TurnRoleUser}), expected: KindTurnAppended},
		{name: "action proposed", event: NewActionProposed(action), expected: KindActionProposed},
		{name: "action confirmed", event: NewActionConfirmed(action, true, "done"), expected: KindActionConfirmed},
		{name: "action cancelled", event: NewActionCancelled(action), expected: KindActionCancelled},
		{name: "assistant playback started", event: NewAssistantPlaybackStarted("premium"), expected: KindAssistantPlaybackStarted},
		{name: "assistant playback ended", event: NewAssistantPlaybackEnded("text"), expected: KindAssistantPlaybackEnded},
		{name: "capability denied", event: NewCapabilityDenied("permanent", "enable the microphone"), expected: KindCapabilityDenied},
		{name: "session state changed", event: NewSessionStateChanged("idle", "listening"), expected: KindSessionStateChanged},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestCaptureStartedAndEndedKindsAreDistinct(t *testing.T) {
	started := NewUserCaptureStarted()
	ended := NewUserCaptureEnded()

	if started.Kind() == ended.Kind() {
		t.Fatalf("expected capture started and capture ended kinds to differ, both were %q", started.Kind())
	}
}
