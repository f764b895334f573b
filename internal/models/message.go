package models

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known author roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is one entry of a conversation's append-only log. Messages are
// ordered by ID, which the store assigns in insertion order.
type Message struct {
	ID             int64
	ConversationID int64
	Role           Role
	Text           string
	CreatedAt      time.Time
}

// String renders the message the way the chat view shows it.
func (m Message) String() string {
	return fmt.Sprintf("[%s]: %s", m.Role, m.Text)
}
