package events

import "time"

// Kind is the dot-namespaced identity of an event, e.g.
// "conversation.turn_appended". The full catalog lives in doc.go.
type Kind string

// Event is anything the orchestration core emits to its observer.
type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Base carries the kind and emission time shared by every event in this
// package. Embed it by value; events are immutable once constructed.
type Base struct {
	kind      Kind
	timestamp time.Time
}

// NewBase stamps the event with the current time.
func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}
