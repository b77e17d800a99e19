package model

import "time"

// Conversation is the back-office summary of a conversation, maintained
// from turn events. The message log stays authoritative.
type Conversation struct {
	ID             string    `gorm:"primaryKey;size:128" json:"conversationId"`
	MessageCount   int       `gorm:"not null;default:0" json:"messageCount"`
	UnreadCount    int       `gorm:"not null;default:0" json:"unreadCount"`
	LastMessage    string    `gorm:"size:255" json:"lastMessage"`
	LastActivityAt time.Time `gorm:"index" json:"lastActivityAt"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// TurnEvent is published once per completed turn.
type TurnEvent struct {
	ConversationID string    `json:"conversationId"`
	UserMessageID  string    `json:"userMessageId"`
	BotMessageID   string    `json:"botMessageId"`
	UserMessage    string    `json:"userMessage"`
	Stage          string    `json:"stage"`
	OccurredAt     time.Time `json:"occurredAt"`
}
