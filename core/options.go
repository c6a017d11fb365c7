package orchestration

import (
	"context"
	"time"

	"github.com/omnifolio/assistant-core/core/assistant"
	"github.com/omnifolio/assistant-core/core/audio"
	"github.com/omnifolio/assistant-core/core/capability"
	"github.com/omnifolio/assistant-core/core/recognition"
	"github.com/omnifolio/assistant-core/core/synthesis"
)

type OrchestratorOption func(*Orchestrator)

// AssistantBackend interprets user text and returns a reply, optionally
// proposing an action that needs explicit confirmation before execution.
type AssistantBackend interface {
	ProcessMessage(ctx context.Context, text string, attachments ...assistant.Attachment) (*assistant.Response, error)
	ExecuteAction(ctx context.Context, action assistant.ProposedAction) (*assistant.ActionResult, error)
}

func WithBackend(client AssistantBackend) OrchestratorOption {
	return func(o *Orchestrator) {
		o.backend.set(client)
	}
}

// RecognitionEngine opens live transcription sessions.
type RecognitionEngine interface {
	Listen(ctx context.Context, opts ...recognition.SessionOption) (recognition.Session, error)
}

func WithRecognitionEngine(engine RecognitionEngine) OrchestratorOption {
	return func(o *Orchestrator) {
		o.capture.setEngine(engine)
	}
}

func WithMediaDevice(device capability.MediaDevice) OrchestratorOption {
	return func(o *Orchestrator) {
		o.capabilities.set(capability.NewManager(device))
	}
}

// AudioInput streams microphone audio into the active recognition session.
type AudioInput interface {
	EncodingInfo() audio.EncodingInfo
	StartCapture(ctx context.Context, onAudio func(audio []byte)) error
	StopCapture() error
}

func WithAudioInput(client AudioInput) OrchestratorOption {
	return func(o *Orchestrator) {
		o.capture.setInput(client)
	}
}

// Synthesizer renders text into a complete audio buffer; the pipeline owns
// playback.
type Synthesizer interface {
	Synthesize(ctx context.Context, req synthesis.Request) ([]byte, error)
}

func WithPremiumSynthesizer(client Synthesizer) OrchestratorOption {
	return func(o *Orchestrator) {
		o.speechOutput.setPremium(client)
	}
}

// UtteranceEngine is the local synthesis tier. It plays the utterance itself
// and reports progress through the utterance callbacks.
type UtteranceEngine interface {
	Speak(ctx context.Context, utterance synthesis.Utterance) error
}

func WithLocalSynthesizer(engine UtteranceEngine) OrchestratorOption {
	return func(o *Orchestrator) {
		o.speechOutput.setLocal(engine)
	}
}

type AudioOutput interface {
	EncodingInfo() audio.EncodingInfo
	SendAudio(audio []byte) error
	ClearBuffer()
}

// AudioOutputWithMarks additionally confirms playback progress through marks,
// letting the pipeline detect completion exactly instead of estimating it
// from the buffer duration.
type AudioOutputWithMarks interface {
	AudioOutput
	Mark(id string, onReached func(string)) error
}

func WithAudioOutput(client AudioOutput) OrchestratorOption {
	return func(o *Orchestrator) {
		o.speechOutput.playback.set(client)
	}
}

func WithVoice(voice string) OrchestratorOption {
	return func(o *Orchestrator) {
		o.speechOutput.voice = voice
	}
}

// WithTierPreference pins synthesis to one tier, overriding the selection
// heuristic.
func WithTierPreference(tier synthesis.Tier) OrchestratorOption {
	return func(o *Orchestrator) {
		o.speechOutput.tierPreference = tier
	}
}

func WithVoiceEnabled(enabled bool) OrchestratorOption {
	return func(o *Orchestrator) {
		o.speechOutput.voiceEnabled.Store(enabled)
	}
}

// WithVoiceGate installs an external predicate consulted in addition to the
// voice-enabled flag before any speech output. Subscription checks plug in
// here; the predicate must be cheap and non-blocking.
func WithVoiceGate(allowed func() bool) OrchestratorOption {
	return func(o *Orchestrator) {
		o.speechOutput.gate = allowed
	}
}

// WithVoiceGateBypass ignores any installed voice gate.
func WithVoiceGateBypass() OrchestratorOption {
	return func(o *Orchestrator) {
		o.speechOutput.gateBypassed = true
	}
}

func WithAttachmentPolicy(policy AttachmentPolicy) OrchestratorOption {
	return func(o *Orchestrator) {
		o.attachments = policy
	}
}

// WithActionSchemas registers the action types the orchestrator is willing to
// hold for confirmation. Proposed actions failing validation never become
// pending.
func WithActionSchemas(schemas *assistant.SchemaRegistry) OrchestratorOption {
	return func(o *Orchestrator) {
		o.schemas = schemas
	}
}

// WithContextRefreshInterval sets how often the orchestrator re-sends its
// context to the backend while running. Zero disables the refresh ticker.
func WithContextRefreshInterval(interval time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.contextRefreshInterval = interval
	}
}

type OrchestrateOptions struct {
	onTranscription        func(transcript string)
	onInterimTranscription func(transcript string)
	onTurnAppended         func(turn assistant.Turn)
	onStateChanged         func(state SessionState)
	onActionProposed       func(action assistant.ProposedAction)
	onActionResolved       func(action assistant.ProposedAction, executed bool)
	onPlaybackStarted      func(tier synthesis.Tier)
	onPlaybackEnded        func(transcript string)
	onCapabilityDenied     func(class capability.DenialClass, guidance string)
}

type OrchestrateOption func(*OrchestrateOptions)

// WithTranscriptionCallback registers a callback for final transcriptions
// produced by the configured recognition engine.
func WithTranscriptionCallback(callback func(transcript string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onTranscription = callback
	}
}

// WithInterimTranscriptionCallback registers a callback for the running
// transcript: every finalized segment so far plus the latest interim one.
func WithInterimTranscriptionCallback(callback func(transcript string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onInterimTranscription = callback
	}
}

func WithTurnAppendedCallback(callback func(turn assistant.Turn)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onTurnAppended = callback
	}
}

func WithStateChangedCallback(callback func(state SessionState)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onStateChanged = callback
	}
}

func WithActionProposedCallback(callback func(action assistant.ProposedAction)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onActionProposed = callback
	}
}

// WithActionResolvedCallback registers a callback invoked when a pending
// action leaves the holder, whether it was executed or cancelled.
func WithActionResolvedCallback(callback func(action assistant.ProposedAction, executed bool)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onActionResolved = callback
	}
}

func WithPlaybackStartedCallback(callback func(tier synthesis.Tier)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onPlaybackStarted = callback
	}
}

func WithPlaybackEndedCallback(callback func(transcript string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onPlaybackEnded = callback
	}
}

// WithCapabilityDeniedCallback registers a callback for microphone permission
// denials, carrying the denial class and user-facing guidance.
func WithCapabilityDeniedCallback(callback func(class capability.DenialClass, guidance string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onCapabilityDenied = callback
	}
}
