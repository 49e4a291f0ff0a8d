// Package models defines the conversation and wire types shared by gamechat.
package models

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// FallbackMessage is shown in place of a reply when a round trip fails.
const FallbackMessage = "Sorry, something went wrong while processing your message. Please try again."

// Message is a single entry in a conversation. Values are never mutated once
// appended; ordering is chronological.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewUserMessage returns a user-authored message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage returns an assistant-authored message.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// IsUser reports whether the message was written by the user.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}
