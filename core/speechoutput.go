package orchestration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/omnifolio/assistant-core/core/events"
	"github.com/omnifolio/assistant-core/core/synthesis"
)

// speechOutput is the synthesis pipeline facade: gate, normalize, select a
// tier, synthesize, play. The voice-enabled gate is checked at the entry of
// every public method because turns reach the pipeline from several call
// sites; when the gate is closed no provider is contacted at all.
type speechOutput struct {
	voiceEnabled atomic.Bool
	// gate is an optional external predicate (subscription checks and the
	// like) consulted on top of the voice-enabled flag.
	gate         func() bool
	gateBypassed bool

	voice          string
	tierPreference synthesis.Tier

	premium Synthesizer
	local   UtteranceEngine

	playback *audioPlayback

	emitEvent eventEmitter
}

type speechCallbacks struct {
	onStarted func(tier synthesis.Tier)
	onEnded   func(transcript string)
}

func newSpeechOutput() *speechOutput {
	s := &speechOutput{
		playback:  newAudioPlayback(),
		emitEvent: noopEventEmitter,
	}
	s.voiceEnabled.Store(true)
	return s
}

func (s *speechOutput) setPremium(client Synthesizer) {
	if s != nil {
		s.premium = client
	}
}

func (s *speechOutput) setLocal(engine UtteranceEngine) {
	if s != nil {
		s.local = engine
	}
}

func (s *speechOutput) setEventEmitter(emitEvent eventEmitter) {
	if s == nil {
		return
	}

	if emitEvent != nil {
		s.emitEvent = emitEvent
	} else {
		s.emitEvent = noopEventEmitter
	}
}

func (s *speechOutput) setVoiceEnabled(enabled bool) {
	if s == nil {
		return
	}

	s.voiceEnabled.Store(enabled)
	if !enabled {
		s.playback.stop()
	}
}

func (s *speechOutput) isVoiceEnabled() bool {
	return s != nil && s.voiceEnabled.Load()
}

func (s *speechOutput) allowed() bool {
	if s == nil || !s.voiceEnabled.Load() {
		return false
	}
	if s.gateBypassed || s.gate == nil {
		return true
	}
	return s.gate()
}

// speak runs the pipeline for one assistant utterance. It reports whether
// the utterance was accepted; synthesis and playback then proceed in the
// background with progress delivered through the callbacks. A closed gate or
// an utterance that normalizes to nothing is not an error, just a no-op.
func (s *speechOutput) speak(ctx context.Context, text string, firstAssistantTurn bool, callbacks speechCallbacks) bool {
	if !s.allowed() {
		return false
	}

	normalized := synthesis.Normalize(text)
	if normalized == "" {
		return false
	}

	tier := synthesis.SelectTier(synthesis.SelectionInputs{
		Preference:         s.tierPreference,
		FirstAssistantTurn: firstAssistantTurn,
		Text:               normalized,
	})

	run := panicSafeNamedWorker("speech output", func(ctx context.Context) error {
		return s.run(ctx, normalized, tier, callbacks)
	})
	go func() {
		if err := run(ctx); err != nil {
			log.Printf("Failed to speak assistant turn: %v", err)
		}
	}()

	return true
}

func (s *speechOutput) run(ctx context.Context, text string, tier synthesis.Tier, callbacks speechCallbacks) error {
	if tier == synthesis.TierPremium {
		premiumErr := s.speakPremium(ctx, text, callbacks)
		if premiumErr == nil {
			return nil
		}
		if errors.Is(premiumErr, synthesis.ErrPlaybackBlocked) {
			// A fallback tier would hit the same playback policy; abort
			// silently.
			return nil
		}

		if fallbackErr := s.speakLocal(ctx, text, callbacks); fallbackErr != nil {
			if errors.Is(fallbackErr, synthesis.ErrPlaybackBlocked) {
				return nil
			}
			return errors.Join(premiumErr, fallbackErr)
		}
		return nil
	}

	if err := s.speakLocal(ctx, text, callbacks); err != nil {
		if errors.Is(err, synthesis.ErrPlaybackBlocked) {
			return nil
		}
		return err
	}
	return nil
}

func (s *speechOutput) speakPremium(ctx context.Context, text string, callbacks speechCallbacks) error {
	if s.premium == nil {
		return fmt.Errorf("no premium synthesizer configured")
	}

	audioData, err := s.premium.Synthesize(ctx, synthesis.Request{Text: text, Voice: s.voice})
	if err != nil {
		return fmt.Errorf("premium synthesis failed: %w", err)
	}

	if err := s.playback.play(audioData, func() {
		s.emitEvent(events.NewAssistantPlaybackEnded(text))
		if callbacks.onEnded != nil {
			callbacks.onEnded(text)
		}
	}); err != nil {
		return err
	}

	s.emitEvent(events.NewAssistantPlaybackStarted(string(synthesis.TierPremium)))
	if callbacks.onStarted != nil {
		callbacks.onStarted(synthesis.TierPremium)
	}
	return nil
}

func (s *speechOutput) speakLocal(ctx context.Context, text string, callbacks speechCallbacks) error {
	if s.local == nil {
		return fmt.Errorf("no local synthesizer configured")
	}

	utterance := synthesis.Utterance{
		Text:  text,
		Voice: s.voice,
		Rate:  1,
		Pitch: 1,
		OnStarted: func() {
			s.emitEvent(events.NewAssistantPlaybackStarted(string(synthesis.TierLocal)))
			if callbacks.onStarted != nil {
				callbacks.onStarted(synthesis.TierLocal)
			}
		},
		OnEnded: func() {
			s.emitEvent(events.NewAssistantPlaybackEnded(text))
			if callbacks.onEnded != nil {
				callbacks.onEnded(text)
			}
		},
		OnError: func(err error) {
			log.Printf("Local synthesis failed: %v", err)
			s.emitEvent(events.NewAssistantPlaybackEnded(text))
			if callbacks.onEnded != nil {
				callbacks.onEnded(text)
			}
		},
	}

	if err := s.local.Speak(ctx, utterance); err != nil {
		return fmt.Errorf("local synthesis failed: %w", err)
	}
	return nil
}

// stop aborts any in-flight playback and releases its handle.
func (s *speechOutput) stop() {
	if s == nil {
		return
	}

	s.playback.stop()
}
