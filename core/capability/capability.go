// Package capability manages microphone access: it requests the device on an
// explicit user action, classifies denials, and produces actionable guidance.
package capability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// Denial classes. Permanent denials need a settings change by the user,
// device-not-found means no microphone is present, transient denials may be
// retried silently.
type DenialClass string

const (
	DenialPermanent      DenialClass = "permanent"
	DenialDeviceNotFound DenialClass = "device-not-found"
	DenialTransient      DenialClass = "transient"
)

var (
	// ErrPermissionDenied marks a denial the user has to resolve in their
	// system or browser settings.
	ErrPermissionDenied = errors.New("microphone access denied")
	// ErrDeviceNotFound marks the absence of any capture device.
	ErrDeviceNotFound = errors.New("no capture device found")
)

// Decision is the outcome of a microphone access request.
type Decision struct {
	Granted  bool
	Class    DenialClass
	Guidance string
	Err      error
}

// MediaDevice acquires the capture device and hands back a release. The
// acquire-then-release round trip exists to trigger the permission prompt,
// not to hold the device open.
type MediaDevice interface {
	AcquireCapture(ctx context.Context) (release func(), err error)
}

// RepromptingDevice is implemented by devices whose host re-prompts for
// microphone access every session, so a past grant cannot be cached.
type RepromptingDevice interface {
	RepromptsEachSession() bool
}

// Manager requests microphone access through a MediaDevice. Requests must
// only be issued in direct response to a user action; the manager never
// probes the device on its own.
type Manager struct {
	mu     sync.Mutex
	device MediaDevice

	granted atomic.Bool
}

func NewManager(device MediaDevice) *Manager {
	return &Manager{device: device}
}

// RequestAccess acquires and immediately releases the capture device,
// classifying any failure. Repeated calls after a grant short-circuit unless
// the device reports that its host re-prompts every session.
func (m *Manager) RequestAccess(ctx context.Context) Decision {
	if m == nil || m.device == nil {
		return Decision{
			Granted:  false,
			Class:    DenialDeviceNotFound,
			Guidance: GuidanceFor(DenialDeviceNotFound),
			Err:      ErrDeviceNotFound,
		}
	}

	if m.granted.Load() && !m.repromptsEachSession() {
		return Decision{Granted: true}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	release, err := m.device.AcquireCapture(ctx)
	if err != nil {
		class := Classify(err)
		return Decision{
			Granted:  false,
			Class:    class,
			Guidance: GuidanceFor(class),
			Err:      fmt.Errorf("failed to acquire capture device: %w", err),
		}
	}

	if release != nil {
		release()
	}

	m.granted.Store(true)
	return Decision{Granted: true}
}

// IsGranted reports whether a past request succeeded. It never triggers a
// prompt.
func (m *Manager) IsGranted() bool {
	return m != nil && m.granted.Load()
}

func (m *Manager) repromptsEachSession() bool {
	if reprompting, ok := m.device.(RepromptingDevice); ok {
		return reprompting.RepromptsEachSession()
	}
	return false
}

// Classify maps an acquisition error to a denial class. Sentinel errors win;
// otherwise common audio-backend messages are matched, and anything
// unrecognized is treated as transient so a later user action may retry.
func Classify(err error) DenialClass {
	if errors.Is(err, ErrDeviceNotFound) {
		return DenialDeviceNotFound
	}
	if errors.Is(err, ErrPermissionDenied) {
		return DenialPermanent
	}

	message := strings.ToLower(err.Error())
	switch {
	case strings.Contains(message, "no device"),
		strings.Contains(message, "no such device"),
		strings.Contains(message, "device unavailable"):
		return DenialDeviceNotFound
	case strings.Contains(message, "access denied"),
		strings.Contains(message, "permission denied"),
		strings.Contains(message, "not permitted"):
		return DenialPermanent
	}

	return DenialTransient
}

// GuidanceFor returns the user-facing guidance text for a denial class.
func GuidanceFor(class DenialClass) string {
	switch class {
	case DenialPermanent:
		return "Microphone access is blocked. Allow microphone access for this app in your browser or system privacy settings, then try again."
	case DenialDeviceNotFound:
		return "No microphone was found. Connect a microphone and try again."
	case DenialTransient:
		return "The microphone could not be started. Please try again."
	}

	return ""
}
