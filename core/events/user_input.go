package events

const (
	// KindUserCaptureStarted identifies the start of a recognition session.
	KindUserCaptureStarted Kind = "user_input.capture_started"
	// KindUserTranscriptInterimUpdated identifies running transcript updates.
	KindUserTranscriptInterimUpdated Kind = "user_input.transcript_interim_updated"
	// KindUserTranscriptFinal identifies the final transcript for the utterance.
	KindUserTranscriptFinal Kind = "user_input.transcript_final"
	// KindUserCaptureEnded identifies the end of a recognition session.
	KindUserCaptureEnded Kind = "user_input.capture_ended"
)

// UserCaptureStarted marks when a recognition session starts delivering results.
type UserCaptureStarted struct{ Base }

// NewUserCaptureStarted creates a capture started event.
func NewUserCaptureStarted() UserCaptureStarted {
	return UserCaptureStarted{Base: NewBase(KindUserCaptureStarted)}
}

// UserTranscriptInterimUpdated carries the running transcript snapshot:
// all finalized segments so far joined with the latest interim tail.
type UserTranscriptInterimUpdated struct {
	Base
	Transcript string
}

// NewUserTranscriptInterimUpdated creates a running transcript update event.
func NewUserTranscriptInterimUpdated(transcript string) UserTranscriptInterimUpdated {
	return UserTranscriptInterimUpdated{Base: NewBase(KindUserTranscriptInterimUpdated), Transcript: transcript}
}

// UserTranscriptFinal carries the final transcript for the utterance.
type UserTranscriptFinal struct {
	Base
	Transcript string
}

// NewUserTranscriptFinal creates a final transcript event.
func NewUserTranscriptFinal(transcript string) UserTranscriptFinal {
	return UserTranscriptFinal{Base: NewBase(KindUserTranscriptFinal), Transcript: transcript}
}

// UserCaptureEnded marks when a recognition session ends.
type UserCaptureEnded struct{ Base }

// NewUserCaptureEnded creates a capture ended event.
func NewUserCaptureEnded() UserCaptureEnded {
	return UserCaptureEnded{Base: NewBase(KindUserCaptureEnded)}
}
