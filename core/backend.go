package orchestration

import (
	"context"
	"fmt"

	"github.com/omnifolio/assistant-core/core/assistant"
)

// assistantBackend is the facade that normalizes optional backend wiring. An
// unconfigured backend turns every call into a no-op so the orchestrator can
// run text-only or be driven entirely from tests.
type assistantBackend struct {
	// client stores the configured backend implementation.
	client AssistantBackend
}

func newAssistantBackend() *assistantBackend {
	return &assistantBackend{}
}

func (b *assistantBackend) set(client AssistantBackend) {
	if b != nil {
		b.client = client
	}
}

func (b *assistantBackend) isConfigured() bool {
	return b != nil && b.client != nil
}

func (b *assistantBackend) ProcessMessage(ctx context.Context, text string, attachments ...assistant.Attachment) (*assistant.Response, error) {
	if !b.isConfigured() {
		return nil, nil
	}

	response, err := b.client.ProcessMessage(ctx, text, attachments...)
	if err != nil {
		return nil, fmt.Errorf("failed to process message: %w", err)
	}

	return response, nil
}

func (b *assistantBackend) ExecuteAction(ctx context.Context, action assistant.ProposedAction) (*assistant.ActionResult, error) {
	if !b.isConfigured() {
		return nil, fmt.Errorf("no backend configured")
	}

	result, err := b.client.ExecuteAction(ctx, action)
	if err != nil {
		return nil, fmt.Errorf("failed to execute action: %w", err)
	}

	return result, nil
}

// LoadContext and ClearContext are optional backend capabilities; clients
// without them are accepted and these become no-ops.
func (b *assistantBackend) LoadContext(ctx context.Context) error {
	if !b.isConfigured() {
		return nil
	}

	if client, ok := b.client.(interface{ LoadContext(context.Context) error }); ok {
		if err := client.LoadContext(ctx); err != nil {
			return fmt.Errorf("failed to load backend context: %w", err)
		}
	}

	return nil
}

func (b *assistantBackend) ClearContext(ctx context.Context) error {
	if !b.isConfigured() {
		return nil
	}

	if client, ok := b.client.(interface{ ClearContext(context.Context) error }); ok {
		if err := client.ClearContext(ctx); err != nil {
			return fmt.Errorf("failed to clear backend context: %w", err)
		}
	}

	return nil
}
