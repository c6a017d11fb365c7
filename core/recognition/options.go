// Package recognition defines the speech recognition engine contract consumed
// by the orchestration core: callback-configured sessions delivering interim
// and final transcript segments, reason-coded errors, and an end-of-session
// signal.
package recognition

import "github.com/omnifolio/assistant-core/core/audio"

// Result is one recognition result event. Alternatives are ordered by engine
// confidence; Transcript is the first alternative. IsFinal marks segments the
// engine will not revise again.
type Result struct {
	Transcript   string
	Alternatives []string
	IsFinal      bool
}

// ErrorReason codes engine errors so callers can separate recoverable noise
// from fatal capture failures.
type ErrorReason string

const (
	// ReasonNoSpeech reports that nothing intelligible was heard.
	ReasonNoSpeech ErrorReason = "no-speech"
	// ReasonAborted reports a deliberately aborted session.
	ReasonAborted ErrorReason = "aborted"
	// ReasonNetwork reports a transient transport failure.
	ReasonNetwork ErrorReason = "network"
	// ReasonNotAllowed reports missing or revoked microphone permission.
	ReasonNotAllowed ErrorReason = "not-allowed"
	// ReasonAudioCapture reports a failure of the capture device itself.
	ReasonAudioCapture ErrorReason = "audio-capture"
)

// Recoverable reports whether a session may silently continue after this
// error. Non-recoverable reasons end the session.
func (r ErrorReason) Recoverable() bool {
	switch r {
	case ReasonNoSpeech, ReasonAborted, ReasonNetwork:
		return true
	}
	return false
}

// EngineError pairs a reason code with the underlying engine error.
type EngineError struct {
	Reason ErrorReason
	Err    error
}

func (e EngineError) Error() string {
	if e.Err == nil {
		return string(e.Reason)
	}
	return string(e.Reason) + ": " + e.Err.Error()
}

func (e EngineError) Unwrap() error { return e.Err }

// Session is one live recognition session. A session delivers results through
// the callbacks configured at start and ends at most once.
type Session interface {
	// SendAudio feeds raw capture audio into the session.
	SendAudio(audio []byte) error
	// Stop gracefully ends the session; pending results are still delivered
	// and the end callback fires.
	Stop() error
	// Abort tears the session down without waiting for pending results. The
	// end callback still fires exactly once.
	Abort() error
}

type SessionOptions struct {
	ResultCallback  func(Result)
	ErrorCallback   func(EngineError)
	StartedCallback func()
	EndedCallback   func()

	EncodingInfo audio.EncodingInfo
}

type SessionOption func(*SessionOptions)

func WithResultCallback(callback func(Result)) SessionOption {
	return func(o *SessionOptions) {
		o.ResultCallback = callback
	}
}

func WithErrorCallback(callback func(EngineError)) SessionOption {
	return func(o *SessionOptions) {
		o.ErrorCallback = callback
	}
}

func WithStartedCallback(callback func()) SessionOption {
	return func(o *SessionOptions) {
		o.StartedCallback = callback
	}
}

func WithEndedCallback(callback func()) SessionOption {
	return func(o *SessionOptions) {
		o.EndedCallback = callback
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) SessionOption {
	return func(o *SessionOptions) {
		o.EncodingInfo = encodingInfo
	}
}
