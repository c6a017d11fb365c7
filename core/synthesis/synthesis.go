// Package synthesis defines the speech synthesis contract: the request and
// tier types shared by providers, the error taxonomy the output pipeline
// routes on, and the pure text-preparation helpers (normalization and tier
// selection).
package synthesis

import (
	"errors"
	"fmt"
)

// Tier names a synthesis provider class.
type Tier string

const (
	// TierPremium is the remote, paid synthesis provider.
	TierPremium Tier = "premium"
	// TierLocal is the on-device fallback engine.
	TierLocal Tier = "local"
)

// Request is an ephemeral synthesis request; it is never persisted.
type Request struct {
	Text  string
	Voice string
}

// ErrPlaybackBlocked reports that playback was rejected by a user-gesture or
// autoplay policy. Falling back to another provider is pointless: its audio
// would be blocked by the same policy, so callers abort silently instead.
var ErrPlaybackBlocked = errors.New("playback blocked by autoplay policy")

// ProviderError reports a synthesis provider failure; the pipeline recovers
// from it by falling back to the local tier once.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("synthesis provider failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("synthesis provider failed with status %d: %s", e.StatusCode, e.Message)
}

// Utterance is a local-tier synthesis job. The engine plays it itself and
// reports progress through the callbacks.
type Utterance struct {
	Text  string
	Voice string
	Rate  float64
	Pitch float64

	OnStarted func()
	OnEnded   func()
	OnError   func(error)
}
