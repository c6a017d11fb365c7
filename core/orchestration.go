package orchestration

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/omnifolio/assistant-core/core/assistant"
	"github.com/omnifolio/assistant-core/core/capability"
	"github.com/omnifolio/assistant-core/core/events"
	"github.com/omnifolio/assistant-core/core/synthesis"
)

const (
	apologyTurnText       = "Sorry, I ran into a problem handling that. Please try again."
	actionFailureTurnText = "Sorry, I couldn't complete that action."
	actionCancelTurnText  = "Okay, I won't do that."
	attachmentAckTurnText = "Got it, I'll keep that in mind for this conversation."
)

// Orchestrator coordinates one voice session: capture, permissions, turn
// submission, pending-action confirmation, and speech output. Conflicting
// operations are rejected at its boundary; failures surface as conversation
// turns or events, never as panics.
type Orchestrator struct {
	conversation *conversationLog
	pending      *pendingAction
	session      *sessionState
	runtime      *submissionRuntime

	// backend is the facade used to handle optional backend wiring.
	backend *assistantBackend
	// capture owns the recognition session and microphone stream.
	capture      *captureController
	speechOutput *speechOutput
	capabilities *capabilityFacade

	attachments AttachmentPolicy
	schemas     *assistant.SchemaRegistry

	contextRefreshInterval time.Duration

	orchestrateOptions OrchestrateOptions
	emitEvent          eventEmitter
	baseContext        context.Context

	closeOnce sync.Once
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		conversation: newConversationLog(),
		pending:      newPendingAction(),
		session:      newSessionState(),
		runtime:      newSubmissionRuntime(),
		backend:      newAssistantBackend(),
		capture:      newCaptureController(),
		speechOutput: newSpeechOutput(),
		capabilities: newCapabilityFacade(),
		attachments:  defaultAttachmentPolicy(),
		emitEvent:    noopEventEmitter,
		baseContext:  context.Background(),
	}

	o.capture.configure(captureCallbacks{
		onFinalTranscript: func(transcript string) {
			if err := o.Submit(transcript); err != nil {
				log.Printf("Dropped transcribed submission: %v", err)
			}
		},
		onStopped: func() {
			if o.session.Current() == StateListening {
				o.session.transitionTo(StateIdle)
			}
		},
		onFatal: func(capability.DenialClass) {
			o.session.transitionTo(StateIdle)
		},
	})

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Orchestrate binds the orchestrator to a context and registers run-time
// observation callbacks. Call it at most once per instance, before any
// submission.
func (o *Orchestrator) Orchestrate(ctx context.Context, opts ...OrchestrateOption) {
	if o.runtime.isClosed() {
		log.Println("Warning: orchestrator already closed, skipping Orchestrate")
		return
	}

	o.orchestrateOptions = OrchestrateOptions{}
	for _, opt := range opts {
		opt(&o.orchestrateOptions)
	}

	o.baseContext = ctx
	o.runtime.configure(ctx)

	o.emitEvent = newCallbackEventEmitter(o.orchestrateOptions)
	o.session.setEventEmitter(o.emitEvent)
	o.conversation.setEventEmitter(o.emitEvent)
	o.capture.setEventEmitter(o.emitEvent)
	o.speechOutput.setEventEmitter(o.emitEvent)
	o.capabilities.setEventEmitter(o.emitEvent)

	withContextCancelHook(ctx, o.Close)

	if err := o.backend.LoadContext(ctx); err != nil {
		log.Printf("Failed to load backend context: %v", err)
	}
	if o.contextRefreshInterval > 0 {
		go o.refreshContextLoop(ctx)
	}
}

func (o *Orchestrator) refreshContextLoop(ctx context.Context) {
	ticker := time.NewTicker(o.contextRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-o.runtime.closeCh:
			return
		case <-ticker.C:
			if err := o.backend.LoadContext(ctx); err != nil {
				log.Printf("Failed to refresh backend context: %v", err)
			}
		}
	}
}

// Submit sends one user turn for processing. It returns immediately; the
// assistant's reply arrives as an appended turn. A submit while another is in
// flight or while an action awaits confirmation is rejected, not queued.
func (o *Orchestrator) Submit(text string, attachments ...assistant.Attachment) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" && len(attachments) == 0 {
		return fmt.Errorf("nothing to submit")
	}

	if o.pending.isHeld() {
		return ErrActionPending
	}

	if err := o.attachments.validate(attachments); err != nil {
		return fmt.Errorf("rejected submission: %w", err)
	}

	if err := o.runtime.begin(); err != nil {
		return err
	}

	o.conversation.append(assistant.Turn{
		Role:        assistant.TurnRoleUser,
		Text:        trimmed,
		Attachments: attachments,
	})

	if trimmed == "" {
		// Attachment-only submissions are acknowledged locally; the backend
		// sees the attachments with the next textual turn.
		o.appendAssistantTurn(assistant.Turn{Role: assistant.TurnRoleAssistant, Text: attachmentAckTurnText})
		o.runtime.finish()
		return nil
	}

	run := panicSafeNamedWorker("submission", func(ctx context.Context) error {
		return o.processSubmission(ctx, trimmed, attachments)
	})
	go func() {
		defer o.runtime.finish()
		if err := run(o.baseContext); err != nil {
			log.Printf("Failed to process submission: %v", err)
		}
	}()

	return nil
}

func (o *Orchestrator) processSubmission(ctx context.Context, text string, attachments []assistant.Attachment) error {
	ctx, span := tracer.Start(ctx, "process submission")
	defer span.End()

	response, err := o.backend.ProcessMessage(ctx, text, attachments...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.appendAssistantTurn(assistant.Turn{Role: assistant.TurnRoleAssistant, Text: apologyTurnText})
		return nil
	}
	if response == nil {
		return nil
	}

	turn := assistant.Turn{Role: assistant.TurnRoleAssistant, Text: response.Text}

	if response.Action != nil {
		action := *response.Action
		if o.schemas != nil {
			if err := o.schemas.Validate(action); err != nil {
				span.RecordError(err)
				o.appendAssistantTurn(assistant.Turn{Role: assistant.TurnRoleAssistant, Text: apologyTurnText})
				return nil
			}
		}

		turn.ProposedAction = &action

		switch {
		case !response.NeedsConfirmation:
			// Informational action: it rides on the turn for display but
			// awaits nothing, so further submits stay open.
		case o.pending.propose(action):
			o.emitEvent(events.NewActionProposed(action))
		default:
			// Cannot happen while submits are blocked by a held action; kept
			// as a guard so a duplicate proposal never silently vanishes.
			turn.ProposedAction = nil
			span.RecordError(fmt.Errorf("dropped proposed action %q: another action is pending", action.Type))
		}
	}

	o.appendAssistantTurn(turn)
	return nil
}

// appendAssistantTurn appends the turn and feeds its text to the speech
// output pipeline. Any open capture session is ended first: listening and
// speaking never overlap.
func (o *Orchestrator) appendAssistantTurn(turn assistant.Turn) {
	firstAssistantTurn := o.conversation.assistantTurnCount() == 0
	o.conversation.append(turn)

	if turn.Text == "" || o.runtime.isClosed() {
		return
	}

	if o.capture.isCapturing() {
		o.capture.stop()
		o.session.transitionTo(StateIdle)
	}

	o.speechOutput.speak(o.baseContext, turn.Text, firstAssistantTurn, speechCallbacks{
		onStarted: func(synthesis.Tier) {
			o.session.transitionTo(StateSpeaking)
		},
		onEnded: func(string) {
			if o.session.Current() == StateSpeaking {
				o.session.transitionTo(StateIdle)
			}
		},
	})
}

// ConfirmPendingAction executes the held action. The holder is cleared no
// matter how execution goes; a failed execution surfaces as a conversation
// turn. Without a held action this is a no-op.
func (o *Orchestrator) ConfirmPendingAction() error {
	if err := o.runtime.begin(); err != nil {
		return err
	}

	action, ok := o.pending.take()
	if !ok {
		o.runtime.finish()
		return nil
	}

	run := panicSafeNamedWorker("action execution", func(ctx context.Context) error {
		return o.executeAction(ctx, action)
	})
	go func() {
		defer o.runtime.finish()
		if err := run(o.baseContext); err != nil {
			log.Printf("Failed to execute confirmed action: %v", err)
		}
	}()

	return nil
}

func (o *Orchestrator) executeAction(ctx context.Context, action assistant.ProposedAction) error {
	ctx, span := tracer.Start(ctx, "execute confirmed action")
	defer span.End()

	result, err := o.backend.ExecuteAction(ctx, action)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.emitEvent(events.NewActionConfirmed(action, false, err.Error()))
		o.appendAssistantTurn(assistant.Turn{Role: assistant.TurnRoleAssistant, Text: actionFailureTurnText})
		return nil
	}

	message := "Done."
	success := true
	if result != nil {
		success = result.Success
		if result.Message != "" {
			message = result.Message
		} else if !success {
			message = actionFailureTurnText
		}
	}

	o.emitEvent(events.NewActionConfirmed(action, success, message))
	o.appendAssistantTurn(assistant.Turn{Role: assistant.TurnRoleAssistant, Text: message})

	if success {
		// Executed actions mutate portfolio data; refresh the backend context
		// so the next turn sees the result.
		if err := o.backend.LoadContext(ctx); err != nil {
			log.Printf("Failed to refresh backend context after action: %v", err)
		}
	}

	return nil
}

// CancelPendingAction discards the held action with a local acknowledgment
// turn; the backend is not contacted. Without a held action this is a no-op.
func (o *Orchestrator) CancelPendingAction() {
	action, ok := o.pending.take()
	if !ok {
		return
	}

	o.emitEvent(events.NewActionCancelled(action))
	o.appendAssistantTurn(assistant.Turn{Role: assistant.TurnRoleAssistant, Text: actionCancelTurnText})
}

// StartListening runs the permission flow and opens a capture session. It
// must be called in direct response to a user action; permission prompts
// cannot be triggered in the background.
func (o *Orchestrator) StartListening(ctx context.Context) error {
	if o.runtime.isClosed() {
		return ErrClosed
	}
	if o.capture.isCapturing() {
		return nil
	}

	// Speech output ends before the microphone opens: speaking and listening
	// never overlap.
	o.speechOutput.stop()
	if o.session.Current() == StateSpeaking {
		o.session.transitionTo(StateIdle)
	}

	o.session.transitionTo(StateRequestingPermission)

	decision := o.capabilities.requestAccess(ctx)
	if !decision.Granted {
		o.session.transitionTo(StateIdle)
		if decision.Err != nil {
			return fmt.Errorf("microphone access not granted: %w", decision.Err)
		}
		return fmt.Errorf("microphone access not granted")
	}

	if err := o.capture.start(ctx); err != nil {
		o.session.transitionTo(StateIdle)
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	o.session.transitionTo(StateListening)
	return nil
}

// StopListening gracefully ends capture; buffered audio still produces a
// final transcript, which is submitted like typed text.
func (o *Orchestrator) StopListening() {
	o.capture.stop()
}

func (o *Orchestrator) SetVoiceEnabled(enabled bool) {
	o.speechOutput.setVoiceEnabled(enabled)
	if !enabled && o.session.Current() == StateSpeaking {
		o.session.transitionTo(StateIdle)
	}
}

func (o *Orchestrator) VoiceEnabled() bool { return o.speechOutput.isVoiceEnabled() }

func (o *Orchestrator) State() SessionState { return o.session.Current() }

// Conversation returns a point-in-time snapshot of the transcript.
func (o *Orchestrator) Conversation() []assistant.Turn { return o.conversation.Snapshot() }

// PendingAction returns a copy of the action awaiting confirmation, if any.
func (o *Orchestrator) PendingAction() *assistant.ProposedAction { return o.pending.Current() }

// ClearConversation drops the transcript and any held action, and clears the
// backend's conversational context.
func (o *Orchestrator) ClearConversation(ctx context.Context) error {
	o.conversation.Clear()
	o.pending.take()

	if err := o.backend.ClearContext(ctx); err != nil {
		return err
	}
	return nil
}

// Close stops capture and playback and rejects further submissions. An
// in-flight backend call is left to complete; its result is still appended to
// the transcript, but nothing is spoken after Close.
func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		o.runtime.end()
		o.capture.abort()
		o.speechOutput.stop()
		o.session.transitionTo(StateIdle)
	})
}
