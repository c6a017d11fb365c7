package orchestration

import (
	"context"

	"github.com/omnifolio/assistant-core/core/capability"
	"github.com/omnifolio/assistant-core/core/events"
)

// capabilityFacade normalizes optional permission wiring. Without a media
// device, access is treated as granted so the orchestrator can run in
// environments where capture is handled elsewhere.
type capabilityFacade struct {
	manager *capability.Manager

	emitEvent eventEmitter
}

func newCapabilityFacade() *capabilityFacade {
	return &capabilityFacade{
		emitEvent: noopEventEmitter,
	}
}

func (c *capabilityFacade) set(manager *capability.Manager) {
	if c != nil {
		c.manager = manager
	}
}

func (c *capabilityFacade) setEventEmitter(emitEvent eventEmitter) {
	if c == nil {
		return
	}

	if emitEvent != nil {
		c.emitEvent = emitEvent
	} else {
		c.emitEvent = noopEventEmitter
	}
}

func (c *capabilityFacade) isConfigured() bool {
	return c != nil && c.manager != nil
}

// requestAccess runs the permission flow and emits a denial event with
// guidance when access is not granted.
func (c *capabilityFacade) requestAccess(ctx context.Context) capability.Decision {
	if !c.isConfigured() {
		return capability.Decision{Granted: true}
	}

	decision := c.manager.RequestAccess(ctx)
	if !decision.Granted {
		c.emitEvent(events.NewCapabilityDenied(string(decision.Class), decision.Guidance))
	}

	return decision
}
