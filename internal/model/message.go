package model

import "time"

const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// ChatMessage is one entry of a conversation's durable log. Seq only
// breaks ties between records written within the same clock tick.
type ChatMessage struct {
	Seq            uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	ID             string    `gorm:"size:36;not null;uniqueIndex" json:"id"`
	ConversationID string    `gorm:"size:128;not null;index:idx_chat_conversation_time,priority:1" json:"conversationId"`
	Sender         string    `gorm:"size:8;not null" json:"sender"`
	Message        string    `gorm:"type:text;not null" json:"message"`
	Timestamp      time.Time `gorm:"not null;index:idx_chat_conversation_time,priority:2" json:"timestamp"`
	IsRead         bool      `gorm:"not null;default:false" json:"isRead"`
}
