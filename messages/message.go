package messages

import (
	"fmt"
)

// Role identifies the author of a message. Only the three enumerated values
// are valid; providers reject anything else.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one of the enumerated values.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// Message is the canonical role/content pair exchanged with every provider.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// System creates a system message.
func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// User creates a user message.
func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Assistant creates an assistant message.
func Assistant(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// HasAnchor reports whether the conversation opens with a system message.
func HasAnchor(conversation []Message) bool {
	return len(conversation) > 0 && conversation[0].Role == RoleSystem
}

// Validate checks the invariants every outgoing conversation must satisfy:
// it is non-empty and every role is one of the enumerated values.
func Validate(conversation []Message) error {
	if len(conversation) == 0 {
		return fmt.Errorf("conversation must contain at least one message")
	}
	for i, msg := range conversation {
		if !msg.Role.Valid() {
			return fmt.Errorf("message %d has invalid role %q", i, msg.Role)
		}
	}
	return nil
}
