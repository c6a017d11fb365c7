package capability

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type mediaDeviceStub struct {
	acquireErr   error
	acquireCalls int
	releaseCalls int
	reprompts    bool
}

func (stub *mediaDeviceStub) AcquireCapture(context.Context) (func(), error) {
	stub.acquireCalls++
	if stub.acquireErr != nil {
		return nil, stub.acquireErr
	}
	return func() { stub.releaseCalls++ }, nil
}

func (stub *mediaDeviceStub) RepromptsEachSession() bool { return stub.reprompts }

func TestRequestAccessReleasesDeviceImmediately(t *testing.T) {
	device := &mediaDeviceStub{}
	manager := NewManager(device)

	decision := manager.RequestAccess(context.Background())

	if !decision.Granted {
		t.Fatalf("expected access to be granted, got %+v", decision)
	}
	if device.acquireCalls != 1 {
		t.Fatalf("expected one acquire call, got %d", device.acquireCalls)
	}
	if device.releaseCalls != 1 {
		t.Fatalf("expected the acquired device to be released immediately, got %d releases", device.releaseCalls)
	}
}

func TestRequestAccessIsIdempotentAfterGrant(t *testing.T) {
	device := &mediaDeviceStub{}
	manager := NewManager(device)

	manager.RequestAccess(context.Background())
	manager.RequestAccess(context.Background())
	decision := manager.RequestAccess(context.Background())

	if !decision.Granted {
		t.Fatalf("expected repeated request to stay granted, got %+v", decision)
	}
	if device.acquireCalls != 1 {
		t.Fatalf("expected repeated requests to short-circuit without re-prompting, got %d acquire calls", device.acquireCalls)
	}
}

func TestRequestAccessRepromptsWhenDeviceRequiresIt(t *testing.T) {
	device := &mediaDeviceStub{reprompts: true}
	manager := NewManager(device)

	manager.RequestAccess(context.Background())
	manager.RequestAccess(context.Background())

	if device.acquireCalls != 2 {
		t.Fatalf("expected reprompting device to be acquired every request, got %d acquire calls", device.acquireCalls)
	}
}

func TestRequestAccessClassifiesDenials(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected DenialClass
	}{
		{name: "sentinel permission denied", err: ErrPermissionDenied, expected: DenialPermanent},
		{name: "sentinel device not found", err: ErrDeviceNotFound, expected: DenialDeviceNotFound},
		{name: "wrapped permission denied", err: fmt.Errorf("open stream: %w", ErrPermissionDenied), expected: DenialPermanent},
		{name: "backend access denied message", err: errors.New("miniaudio: Access Denied"), expected: DenialPermanent},
		{name: "backend no device message", err: errors.New("portaudio: no device available"), expected: DenialDeviceNotFound},
		{name: "anything else is transient", err: errors.New("device busy"), expected: DenialTransient},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			device := &mediaDeviceStub{acquireErr: testCase.err}
			manager := NewManager(device)

			decision := manager.RequestAccess(context.Background())

			if decision.Granted {
				t.Fatalf("expected denial, got grant")
			}
			if decision.Class != testCase.expected {
				t.Fatalf("expected class %q, got %q", testCase.expected, decision.Class)
			}
			if decision.Guidance == "" {
				t.Fatalf("expected actionable guidance for class %q", decision.Class)
			}
		})
	}
}

func TestRequestAccessWithoutDeviceReportsDeviceNotFound(t *testing.T) {
	manager := NewManager(nil)

	decision := manager.RequestAccess(context.Background())

	if decision.Granted {
		t.Fatalf("expected denial without a configured device")
	}
	if decision.Class != DenialDeviceNotFound {
		t.Fatalf("expected device-not-found class, got %q", decision.Class)
	}
}
