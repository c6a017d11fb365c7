package orchestration

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/omnifolio/assistant-core/core/assistant"
	"github.com/omnifolio/assistant-core/core/events"
)

// conversationLog is the append-only transcript of the session. Turns are
// never mutated or removed once appended; Clear swaps in a fresh slice.
type conversationLog struct {
	mu    sync.RWMutex
	turns []assistant.Turn

	emitEvent eventEmitter
}

func newConversationLog() *conversationLog {
	return &conversationLog{
		emitEvent: noopEventEmitter,
	}
}

func (c *conversationLog) setEventEmitter(emitEvent eventEmitter) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if emitEvent != nil {
		c.emitEvent = emitEvent
	} else {
		c.emitEvent = noopEventEmitter
	}
}

// append stamps the turn with an ID and timestamp if the caller left them
// empty and adds it to the transcript.
func (c *conversationLog) append(turn assistant.Turn) assistant.Turn {
	if c == nil {
		return turn
	}

	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}

	c.mu.Lock()
	c.turns = append(c.turns, turn)
	emitEvent := c.emitEvent
	c.mu.Unlock()

	emitEvent(events.NewTurnAppended(turn))
	return turn
}

// Snapshot returns a point-in-time copy of the transcript.
func (c *conversationLog) Snapshot() []assistant.Turn {
	if c == nil {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	turns := make([]assistant.Turn, len(c.turns))
	copy(turns, c.turns)
	return turns
}

func (c *conversationLog) Len() int {
	if c == nil {
		return 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.turns)
}

// assistantTurnCount reports how many assistant turns the transcript holds,
// used to detect the opening response of a conversation.
func (c *conversationLog) assistantTurnCount() int {
	if c == nil {
		return 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	count := 0
	for _, turn := range c.turns {
		if turn.Role == assistant.TurnRoleAssistant {
			count++
		}
	}
	return count
}

func (c *conversationLog) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = nil
}
