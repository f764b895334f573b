package models

import "time"

// Conversation is a titled message log owned by exactly one user.
type Conversation struct {
	ID        int64
	UserID    int64
	Title     string
	CreatedAt time.Time
}

// ConversationSummary is a list row for the conversation menu.
type ConversationSummary struct {
	ID           int64
	Title        string
	CreatedAt    time.Time
	MessageCount int
}
