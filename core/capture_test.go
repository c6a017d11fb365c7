package orchestration

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/omnifolio/assistant-core/core/capability"
	"github.com/omnifolio/assistant-core/core/events"
	"github.com/omnifolio/assistant-core/core/recognition"
)

type sessionStub struct {
	sent      [][]byte
	stopped   atomic.Int32
	aborted   atomic.Int32
	callbacks recognition.SessionOptions
}

func (s *sessionStub) SendAudio(audio []byte) error {
	s.sent = append(s.sent, audio)
	return nil
}

func (s *sessionStub) Stop() error {
	s.stopped.Add(1)
	if s.callbacks.EndedCallback != nil {
		s.callbacks.EndedCallback()
	}
	return nil
}

func (s *sessionStub) Abort() error {
	s.aborted.Add(1)
	return nil
}

type engineStub struct {
	listenCalls atomic.Int32
	session     *sessionStub
}

func (e *engineStub) Listen(_ context.Context, opts ...recognition.SessionOption) (recognition.Session, error) {
	e.listenCalls.Add(1)
	session := &sessionStub{}
	for _, opt := range opts {
		opt(&session.callbacks)
	}
	e.session = session
	return session, nil
}

func newTestCapture(engine *engineStub) (*captureController, *[]events.Event) {
	capture := newCaptureController()
	capture.setEngine(engine)

	emitted := &[]events.Event{}
	capture.setEventEmitter(func(event events.Event) {
		*emitted = append(*emitted, event)
	})
	return capture, emitted
}

func TestCaptureDuplicateStartIsNoop(t *testing.T) {
	engine := &engineStub{}
	capture, _ := newTestCapture(engine)

	if err := capture.start(context.Background()); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}
	if err := capture.start(context.Background()); err != nil {
		t.Fatalf("expected duplicate start to be a no-op, got %v", err)
	}

	if got := engine.listenCalls.Load(); got != 1 {
		t.Fatalf("expected one recognition session, got %d", got)
	}
}

func TestCaptureRunningTranscriptMergesFinalsAndInterim(t *testing.T) {
	engine := &engineStub{}
	capture, emitted := newTestCapture(engine)

	if err := capture.start(context.Background()); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	engine.session.callbacks.ResultCallback(recognition.Result{Transcript: "show me", IsFinal: true})
	engine.session.callbacks.ResultCallback(recognition.Result{Transcript: "my port", IsFinal: false})

	var lastInterim string
	for _, event := range *emitted {
		if interim, ok := event.(events.UserTranscriptInterimUpdated); ok {
			lastInterim = interim.Transcript
		}
	}
	if lastInterim != "show me my port" {
		t.Fatalf("expected running transcript to merge segments, got %q", lastInterim)
	}
}

func TestCaptureStopDeliversFinalTranscript(t *testing.T) {
	engine := &engineStub{}
	capture, emitted := newTestCapture(engine)

	var finalTranscript string
	stopped := false
	capture.configure(captureCallbacks{
		onFinalTranscript: func(transcript string) { finalTranscript = transcript },
		onStopped:         func() { stopped = true },
	})

	if err := capture.start(context.Background()); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	engine.session.callbacks.ResultCallback(recognition.Result{Transcript: "show me my portfolio", IsFinal: true})
	capture.stop()

	if finalTranscript != "show me my portfolio" {
		t.Fatalf("expected final transcript, got %q", finalTranscript)
	}
	if !stopped {
		t.Fatal("expected the stopped callback to run")
	}
	if capture.isCapturing() {
		t.Fatal("expected capture to be over")
	}

	sawFinal, sawEnded := false, false
	for _, event := range *emitted {
		switch event.(type) {
		case events.UserTranscriptFinal:
			sawFinal = true
		case events.UserCaptureEnded:
			sawEnded = true
		}
	}
	if !sawFinal || !sawEnded {
		t.Fatalf("expected final transcript and capture ended events, got final=%t ended=%t", sawFinal, sawEnded)
	}
}

func TestCaptureRecoverableErrorKeepsSession(t *testing.T) {
	engine := &engineStub{}
	capture, _ := newTestCapture(engine)

	if err := capture.start(context.Background()); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	engine.session.callbacks.ErrorCallback(recognition.EngineError{Reason: recognition.ReasonNetwork})

	if !capture.isCapturing() {
		t.Fatal("expected session to survive a recoverable error")
	}
}

func TestCaptureFatalErrorAbortsAndClassifies(t *testing.T) {
	engine := &engineStub{}
	capture, emitted := newTestCapture(engine)

	var fatalClass string
	capture.configure(captureCallbacks{
		onFatal: func(class capability.DenialClass) { fatalClass = string(class) },
	})

	if err := capture.start(context.Background()); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	engine.session.callbacks.ErrorCallback(recognition.EngineError{Reason: recognition.ReasonNotAllowed})

	if capture.isCapturing() {
		t.Fatal("expected session to be aborted on fatal error")
	}
	if fatalClass != "permanent" {
		t.Fatalf("expected permanent denial classification, got %q", fatalClass)
	}

	sawDenied := false
	for _, event := range *emitted {
		if denied, ok := event.(events.CapabilityDenied); ok {
			sawDenied = true
			if denied.Guidance == "" {
				t.Error("expected denial guidance text")
			}
		}
	}
	if !sawDenied {
		t.Fatal("expected a capability denied event")
	}
}
