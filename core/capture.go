package orchestration

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/omnifolio/assistant-core/core/capability"
	"github.com/omnifolio/assistant-core/core/events"
	"github.com/omnifolio/assistant-core/core/recognition"
)

// captureController owns the single recognition session and the microphone
// stream feeding it. Nothing outside this controller touches the session;
// conflicting operations are rejected rather than queued.
type captureController struct {
	mu sync.Mutex

	engine RecognitionEngine
	input  AudioInput

	session recognition.Session

	// finalSegments plus interim form the running transcript exposed while
	// listening.
	finalSegments []string
	interim       string

	callbacks captureCallbacks
	emitEvent eventEmitter
}

type captureCallbacks struct {
	// onFinalTranscript receives the full utterance once capture ends.
	onFinalTranscript func(transcript string)
	// onStopped runs after the session has fully ended, however it ended.
	onStopped func()
	// onFatal receives non-recoverable engine failures with their denial
	// classification.
	onFatal func(class capability.DenialClass)
}

func newCaptureController() *captureController {
	return &captureController{
		emitEvent: noopEventEmitter,
	}
}

func (c *captureController) setEngine(engine RecognitionEngine) {
	if c != nil {
		c.engine = engine
	}
}

func (c *captureController) setInput(input AudioInput) {
	if c != nil {
		c.input = input
	}
}

func (c *captureController) setEventEmitter(emitEvent eventEmitter) {
	if c == nil {
		return
	}

	if emitEvent != nil {
		c.emitEvent = emitEvent
	} else {
		c.emitEvent = noopEventEmitter
	}
}

func (c *captureController) configure(callbacks captureCallbacks) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks = callbacks
}

func (c *captureController) isConfigured() bool {
	return c != nil && c.engine != nil
}

func (c *captureController) isCapturing() bool {
	if c == nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// start opens a recognition session and begins streaming microphone audio
// into it. Starting while already capturing is a no-op, not an error.
func (c *captureController) start(ctx context.Context) error {
	if c == nil || c.engine == nil {
		return fmt.Errorf("no recognition engine configured")
	}

	c.mu.Lock()
	if c.session != nil {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	opts := []recognition.SessionOption{
		recognition.WithResultCallback(c.handleResult),
		recognition.WithErrorCallback(c.handleError),
		recognition.WithEndedCallback(c.handleEnded),
	}
	if c.input != nil {
		opts = append(opts, recognition.WithEncodingInfo(c.input.EncodingInfo()))
	}

	session, err := c.engine.Listen(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to open recognition session: %w", err)
	}

	c.mu.Lock()
	if c.session != nil {
		// Lost the race against a concurrent start; keep the winner.
		c.mu.Unlock()
		_ = session.Abort()
		return nil
	}
	c.session = session
	c.finalSegments = nil
	c.interim = ""
	c.mu.Unlock()

	c.emitEvent(events.NewUserCaptureStarted())

	if c.input != nil {
		if err := c.input.StartCapture(ctx, func(audio []byte) {
			if err := session.SendAudio(audio); err != nil {
				log.Printf("Failed to forward capture audio: %v", err)
			}
		}); err != nil {
			c.stop()
			return fmt.Errorf("failed to start audio capture: %w", err)
		}
	}

	return nil
}

// stop gracefully ends the session; buffered audio is still transcribed and
// the final transcript is delivered through the ended path.
func (c *captureController) stop() {
	if c == nil {
		return
	}

	c.mu.Lock()
	session := c.session
	input := c.input
	c.mu.Unlock()

	if input != nil {
		if err := input.StopCapture(); err != nil {
			log.Printf("Failed to stop audio capture: %v", err)
		}
	}
	if session != nil {
		if err := session.Stop(); err != nil {
			log.Printf("Failed to stop recognition session: %v", err)
		}
	}
}

// abort tears the session down without waiting for a final transcript.
func (c *captureController) abort() {
	if c == nil {
		return
	}

	c.mu.Lock()
	session := c.session
	c.session = nil
	input := c.input
	c.mu.Unlock()

	if input != nil {
		_ = input.StopCapture()
	}
	if session != nil {
		_ = session.Abort()
	}
}

func (c *captureController) handleResult(result recognition.Result) {
	c.mu.Lock()
	if result.IsFinal {
		if result.Transcript != "" {
			c.finalSegments = append(c.finalSegments, result.Transcript)
		}
		c.interim = ""
	} else {
		c.interim = result.Transcript
	}
	running := c.runningTranscriptLocked()
	c.mu.Unlock()

	c.emitEvent(events.NewUserTranscriptInterimUpdated(running))
}

func (c *captureController) handleError(engineErr recognition.EngineError) {
	if engineErr.Reason.Recoverable() {
		logger.Warn("recognition error, staying in session", "reason", string(engineErr.Reason))
		return
	}

	class := capability.DenialTransient
	switch engineErr.Reason {
	case recognition.ReasonNotAllowed:
		class = capability.DenialPermanent
	case recognition.ReasonAudioCapture:
		class = capability.DenialDeviceNotFound
	}
	c.emitEvent(events.NewCapabilityDenied(string(class), capability.GuidanceFor(class)))

	c.mu.Lock()
	onFatal := c.callbacks.onFatal
	c.mu.Unlock()

	c.abort()
	if onFatal != nil {
		onFatal(class)
	}
}

func (c *captureController) handleEnded() {
	c.mu.Lock()
	if c.session == nil {
		// Already aborted; nothing left to finalize.
		c.mu.Unlock()
		return
	}
	c.session = nil
	transcript := c.runningTranscriptLocked()
	c.finalSegments = nil
	c.interim = ""
	callbacks := c.callbacks
	input := c.input
	c.mu.Unlock()

	if input != nil {
		_ = input.StopCapture()
	}

	c.emitEvent(events.NewUserTranscriptInterimUpdated(""))
	if transcript != "" {
		c.emitEvent(events.NewUserTranscriptFinal(transcript))
	}
	c.emitEvent(events.NewUserCaptureEnded())

	if transcript != "" && callbacks.onFinalTranscript != nil {
		callbacks.onFinalTranscript(transcript)
	}
	if callbacks.onStopped != nil {
		callbacks.onStopped()
	}
}

func (c *captureController) runningTranscriptLocked() string {
	parts := make([]string, 0, len(c.finalSegments)+1)
	parts = append(parts, c.finalSegments...)
	if c.interim != "" {
		parts = append(parts, c.interim)
	}
	return strings.Join(parts, " ")
}
