package events

const (
	// KindAssistantPlaybackStarted identifies the start of speech playback.
	KindAssistantPlaybackStarted Kind = "assistant_playback.started"
	// KindAssistantPlaybackEnded identifies the end of speech playback.
	KindAssistantPlaybackEnded Kind = "assistant_playback.ended"
)

// AssistantPlaybackStarted marks when playback of synthesized speech begins.
// Tier names the synthesis tier that produced the audio.
type AssistantPlaybackStarted struct {
	Base
	Tier string
}

// NewAssistantPlaybackStarted creates a playback started event.
func NewAssistantPlaybackStarted(tier string) AssistantPlaybackStarted {
	return AssistantPlaybackStarted{Base: NewBase(KindAssistantPlaybackStarted), Tier: tier}
}

// AssistantPlaybackEnded marks when playback finishes or is stopped. The
// transcript is the normalized text that was being spoken.
type AssistantPlaybackEnded struct {
	Base
	Transcript string
}

// NewAssistantPlaybackEnded creates a playback ended event.
func NewAssistantPlaybackEnded(transcript string) AssistantPlaybackEnded {
	return AssistantPlaybackEnded{Base: NewBase(KindAssistantPlaybackEnded), Transcript: transcript}
}
