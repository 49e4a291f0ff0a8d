// Package chat holds the in-memory conversation and the submission flow that
// drives one message round trip against the backend.
package chat

import (
	"sync"

	"github.com/diogo/gamechat/internal/models"
)

// Conversation is the ordered, append-only list of messages for a session.
// Messages are never removed or reordered.
type Conversation struct {
	mu       sync.RWMutex
	messages []models.Message
	onAppend func(models.Message)
}

// NewConversation returns an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{}
}

// OnAppend registers fn to be called after every append. A later call
// replaces the earlier observer.
func (c *Conversation) OnAppend(fn func(models.Message)) {
	c.mu.Lock()
	c.onAppend = fn
	c.mu.Unlock()
}

// Append adds msg to the end of the conversation.
func (c *Conversation) Append(msg models.Message) {
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	observer := c.onAppend
	c.mu.Unlock()

	if observer != nil {
		observer(msg)
	}
}

// Messages returns a copy of the conversation in chronological order.
func (c *Conversation) Messages() []models.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// Last returns the most recent message, if any.
func (c *Conversation) Last() (models.Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.messages) == 0 {
		return models.Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// LastAssistant returns the most recent assistant reply, if any.
func (c *Conversation) LastAssistant() (models.Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == models.RoleAssistant {
			return c.messages[i], true
		}
	}
	return models.Message{}, false
}
