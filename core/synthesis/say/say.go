//go:build darwin

// Package say binds the local synthesis tier to the macOS `say` command, the
// closest thing to an on-device voice that needs no credentials or network.
package say

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/omnifolio/assistant-core/core/synthesis"
)

const defaultWordsPerMinute = 175

type Engine struct {
	voice string
}

type EngineOption func(*Engine)

func WithVoice(voice string) EngineOption {
	return func(e *Engine) { e.voice = voice }
}

func NewEngine(opts ...EngineOption) (*Engine, error) {
	if _, err := exec.LookPath("say"); err != nil {
		return nil, fmt.Errorf("say binary not available: %w", err)
	}

	engine := &Engine{}
	for _, opt := range opts {
		opt(engine)
	}
	return engine, nil
}

// Speak plays the utterance through the OS voice. It returns once the
// utterance is accepted; completion is reported through the callbacks.
func (e *Engine) Speak(ctx context.Context, utterance synthesis.Utterance) error {
	args := []string{}
	if e.voice != "" {
		args = append(args, "-v", e.voice)
	}
	rate := defaultWordsPerMinute
	if utterance.Rate > 0 {
		rate = int(float64(rate) * utterance.Rate)
	}
	args = append(args, "-r", strconv.Itoa(rate), utterance.Text)

	cmd := exec.CommandContext(ctx, "say", args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start say: %w", err)
	}

	if utterance.OnStarted != nil {
		utterance.OnStarted()
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			if utterance.OnError != nil {
				utterance.OnError(fmt.Errorf("say failed: %w", err))
			}
			return
		}
		if utterance.OnEnded != nil {
			utterance.OnEnded()
		}
	}()

	return nil
}
