package assistant

import (
	"encoding/json"
	"time"
)

// TurnRole describes who authored a conversation turn.
type TurnRole string

const (
	TurnRoleUser      TurnRole = "user"
	TurnRoleAssistant TurnRole = "assistant"
	TurnRoleSystem    TurnRole = "system"
)

// Turn is a single appended unit of conversation. Turns are append-only and
// are never reordered once appended.
type Turn struct {
	ID        string
	Role      TurnRole
	Text      string
	Timestamp time.Time

	Attachments []Attachment

	// ProposedAction is set on assistant turns that carry an action. Only an
	// action the backend flagged for confirmation is also tracked through the
	// orchestrator's pending action; an informational one just rides here.
	// Immutable once the turn is appended.
	ProposedAction *ProposedAction
}

// Attachment is a user-supplied file accepted into a turn. Either Data or URL
// is populated, never both.
type Attachment struct {
	ID        string
	Name      string
	MIMEType  string
	SizeBytes int64
	Data      []byte
	URL       string
}

// ProposedAction is an assistant-proposed operation that must be explicitly
// confirmed before execution.
type ProposedAction struct {
	Type        string
	Payload     map[string]any
	Description string
}

// Response is what the backend returns for a processed user message.
type Response struct {
	Text              string          `json:"text"`
	Action            *ProposedAction `json:"action,omitempty"`
	NeedsConfirmation bool            `json:"needsConfirmation,omitempty"`

	// MarketData and Charts are opaque UI payloads passed through untouched.
	MarketData json.RawMessage `json:"marketData,omitempty"`
	Charts     json.RawMessage `json:"charts,omitempty"`
}

// ActionResult is the backend's outcome report for an executed action.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
