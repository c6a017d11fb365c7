package orchestration

import (
	"github.com/omnifolio/assistant-core/core/capability"
	"github.com/omnifolio/assistant-core/core/events"
	"github.com/omnifolio/assistant-core/core/synthesis"
)

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

func newCallbackEventEmitter(opts OrchestrateOptions) eventEmitter {
	return func(event events.Event) {
		switch typedEvent := event.(type) {
		case events.UserTranscriptInterimUpdated:
			if opts.onInterimTranscription != nil {
				opts.onInterimTranscription(typedEvent.Transcript)
			}
		case events.UserTranscriptFinal:
			if opts.onTranscription != nil {
				opts.onTranscription(typedEvent.Transcript)
			}
		case events.TurnAppended:
			if opts.onTurnAppended != nil {
				opts.onTurnAppended(typedEvent.Turn)
			}
		case events.SessionStateChanged:
			if opts.onStateChanged != nil {
				opts.onStateChanged(SessionState(typedEvent.Current))
			}
		case events.ActionProposed:
			if opts.onActionProposed != nil {
				opts.onActionProposed(typedEvent.Action)
			}
		case events.ActionConfirmed:
			if opts.onActionResolved != nil {
				opts.onActionResolved(typedEvent.Action, true)
			}
		case events.ActionCancelled:
			if opts.onActionResolved != nil {
				opts.onActionResolved(typedEvent.Action, false)
			}
		case events.AssistantPlaybackStarted:
			if opts.onPlaybackStarted != nil {
				opts.onPlaybackStarted(synthesis.Tier(typedEvent.Tier))
			}
		case events.AssistantPlaybackEnded:
			if opts.onPlaybackEnded != nil {
				opts.onPlaybackEnded(typedEvent.Transcript)
			}
		case events.CapabilityDenied:
			if opts.onCapabilityDenied != nil {
				opts.onCapabilityDenied(capability.DenialClass(typedEvent.Class), typedEvent.Guidance)
			}
		}
	}
}
