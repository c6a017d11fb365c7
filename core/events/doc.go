// Package events defines the typed event contract emitted by the voice
// assistant orchestration core.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - user_input.*
//   - conversation.*
//   - action.*
//   - assistant_playback.*
//   - capability.*
//   - session.*
//
// Semantics used across the package:
//
//   - Interim: mutable point-in-time snapshot that can change over time.
//   - Final: terminal immutable text/state for the current utterance or turn.
//   - Ended: lifecycle boundary indicating completion.
//
// user_input events
//
//   - UserCaptureStarted (user_input.capture_started): a recognition session
//     began delivering results.
//   - UserTranscriptInterimUpdated (user_input.transcript_interim_updated):
//     running transcript snapshot combining finalized segments with the
//     latest interim tail.
//   - UserTranscriptFinal (user_input.transcript_final): terminal transcript
//     for the utterance; the orchestrator treats it as an implicit submit.
//   - UserCaptureEnded (user_input.capture_ended): the recognition session
//     ended, with or without a final transcript.
//
// conversation events
//
//   - TurnAppended (conversation.turn_appended): a turn was appended to the
//     conversation log. Turns are appended strictly in resolution order.
//
// action events
//
//   - ActionProposed (action.proposed): an assistant turn carries an action
//     awaiting explicit confirmation.
//   - ActionConfirmed (action.confirmed): the pending action was confirmed
//     and executed; carries the backend's outcome message.
//   - ActionCancelled (action.cancelled): the pending action was dismissed
//     without a backend call.
//
// assistant_playback events
//
//   - AssistantPlaybackStarted (assistant_playback.started): synthesized
//     speech playback began for an assistant turn.
//   - AssistantPlaybackEnded (assistant_playback.ended): playback finished or
//     was stopped; resources are released by this point.
//
// capability events
//
//   - CapabilityDenied (capability.denied): microphone access was denied;
//     carries the denial class and actionable guidance text.
//
// session events
//
//   - SessionStateChanged (session.state_changed): the voice session moved
//     between idle, requesting-permission, listening and speaking.
package events
