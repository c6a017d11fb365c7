//go:build !darwin

package say

import (
	"context"
	"fmt"

	"github.com/omnifolio/assistant-core/core/synthesis"
)

type Engine struct{}

type EngineOption func(*Engine)

func WithVoice(string) EngineOption {
	return func(*Engine) {}
}

func NewEngine(...EngineOption) (*Engine, error) {
	return nil, fmt.Errorf("say engine only available on darwin")
}

func (e *Engine) Speak(context.Context, synthesis.Utterance) error {
	return fmt.Errorf("say engine only available on darwin")
}
