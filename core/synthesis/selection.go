package synthesis

import "strings"

// SelectionInputs is everything tier selection is allowed to look at.
type SelectionInputs struct {
	// Preference, when set, overrides every heuristic.
	Preference Tier
	// FirstAssistantTurn marks the opening response of a conversation.
	FirstAssistantTurn bool
	// Text is the normalized utterance to be spoken.
	Text string
}

// importanceMarkers are terms whose presence suggests the utterance carries
// financial substance worth the premium voice.
var importanceMarkers = []string{
	"profit",
	"loss",
	"portfolio",
	"gain",
	"balance",
	"alert",
}

// SelectTier decides which synthesis tier to try first. It is a pure
// function of its inputs: an explicit preference always wins, the opening
// assistant turn and utterances mentioning financial substance get the
// premium voice, everything else stays local.
func SelectTier(in SelectionInputs) Tier {
	if in.Preference == TierPremium || in.Preference == TierLocal {
		return in.Preference
	}
	if in.FirstAssistantTurn {
		return TierPremium
	}
	lowered := strings.ToLower(in.Text)
	for _, marker := range importanceMarkers {
		if strings.Contains(lowered, marker) {
			return TierPremium
		}
	}
	return TierLocal
}
