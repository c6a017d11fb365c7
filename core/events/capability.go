package events

const (
	// KindCapabilityDenied identifies denied microphone access requests.
	KindCapabilityDenied Kind = "capability.denied"
)

// CapabilityDenied carries a microphone denial with actionable guidance.
// Class is the denial classification (permanent, device-not-found, transient).
type CapabilityDenied struct {
	Base
	Class    string
	Guidance string
}

// NewCapabilityDenied creates a capability denied event.
func NewCapabilityDenied(class string, guidance string) CapabilityDenied {
	return CapabilityDenied{Base: NewBase(KindCapabilityDenied), Class: class, Guidance: guidance}
}
