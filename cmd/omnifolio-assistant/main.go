// Command omnifolio-assistant is an interactive terminal client for the voice
// assistant core: type a message or toggle the microphone, confirm or cancel
// proposed portfolio actions, and watch the conversation unfold.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	orchestration "github.com/omnifolio/assistant-core/core"
	"github.com/omnifolio/assistant-core/core/assistant"
	"github.com/omnifolio/assistant-core/core/assistant/omnifolio"
	"github.com/omnifolio/assistant-core/core/audio/miniaudio"
	"github.com/omnifolio/assistant-core/core/capability"
	recognitiondg "github.com/omnifolio/assistant-core/core/recognition/deepgram"
	"github.com/omnifolio/assistant-core/core/synthesis"
	synthesisdg "github.com/omnifolio/assistant-core/core/synthesis/deepgram"
	"github.com/omnifolio/assistant-core/core/synthesis/say"
)

type addTransactionPayload struct {
	Symbol string  `json:"symbol" jsonschema:"required"`
	Amount float64 `json:"amount" jsonschema:"required"`
	Side   string  `json:"side,omitempty"`
}

type deleteHoldingPayload struct {
	Symbol string `json:"symbol" jsonschema:"required"`
}

type setAlertPayload struct {
	Symbol    string  `json:"symbol" jsonschema:"required"`
	Threshold float64 `json:"threshold" jsonschema:"required"`
}

func main() {
	schemas := assistant.NewSchemaRegistry()
	schemas.Register("add_transaction", addTransactionPayload{})
	schemas.Register("delete_holding", deleteHoldingPayload{})
	schemas.Register("set_alert", setAlertPayload{})

	opts := []orchestration.OrchestratorOption{
		orchestration.WithBackend(omnifolio.NewClient(omnifolio.WithSchemaRegistry(schemas))),
		orchestration.WithActionSchemas(schemas),
	}

	if audioClient, err := miniaudio.NewClient(); err != nil {
		log.Printf("Audio devices unavailable, continuing text-only: %v", err)
	} else {
		defer audioClient.Close()
		opts = append(opts,
			orchestration.WithMediaDevice(audioClient),
			orchestration.WithAudioInput(audioClient),
			orchestration.WithAudioOutput(audioClient),
		)
	}

	if _, ok := os.LookupEnv("DEEPGRAM_API_KEY"); ok {
		opts = append(opts, orchestration.WithRecognitionEngine(recognitiondg.NewRecognizer()))

		if premium, err := synthesisdg.NewClient(synthesisdg.VoiceAuraAsteria); err != nil {
			log.Printf("Premium synthesis unavailable: %v", err)
		} else {
			opts = append(opts, orchestration.WithPremiumSynthesizer(premium))
		}
	}

	var local orchestration.UtteranceEngine
	if engine, err := say.NewEngine(); err == nil {
		local = engine
	} else {
		local = consoleSpeaker{}
	}
	opts = append(opts, orchestration.WithLocalSynthesizer(local))

	o := orchestration.NewOrchestrator(opts...)
	defer o.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	program := tea.NewProgram(newModel(ctx, o), tea.WithAltScreen())

	o.Orchestrate(ctx,
		orchestration.WithTurnAppendedCallback(func(turn assistant.Turn) {
			program.Send(turnAppendedMsg{turn: turn})
		}),
		orchestration.WithInterimTranscriptionCallback(func(transcript string) {
			program.Send(interimTranscriptMsg{transcript: transcript})
		}),
		orchestration.WithStateChangedCallback(func(state orchestration.SessionState) {
			program.Send(sessionStateMsg{state: state})
		}),
		orchestration.WithActionProposedCallback(func(action assistant.ProposedAction) {
			program.Send(actionProposedMsg{action: action})
		}),
		orchestration.WithActionResolvedCallback(func(action assistant.ProposedAction, executed bool) {
			program.Send(actionResolvedMsg{executed: executed})
		}),
		orchestration.WithCapabilityDeniedCallback(func(_ capability.DenialClass, guidance string) {
			program.Send(capabilityDeniedMsg{guidance: guidance})
		}),
	)

	if _, err := program.Run(); err != nil {
		log.Fatalf("Failed to run assistant UI: %v", err)
	}
}

// consoleSpeaker is the local tier of last resort: it renders speech as text.
type consoleSpeaker struct{}

func (consoleSpeaker) Speak(_ context.Context, utterance synthesis.Utterance) error {
	if utterance.OnStarted != nil {
		utterance.OnStarted()
	}
	fmt.Fprintf(os.Stderr, "[voice] %s\n", utterance.Text)
	if utterance.OnEnded != nil {
		utterance.OnEnded()
	}
	return nil
}
