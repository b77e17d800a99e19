package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"storefront-chat/internal/model"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Append(ctx context.Context, message *model.ChatMessage) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("append message failed: %w", err)
	}
	return nil
}

func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("timestamp ASC").
		Order("seq ASC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list messages failed: %w", err)
	}
	return messages, nil
}

// MarkRead flags the bot replies of a conversation as read and reports how
// many rows changed.
func (r *MessageRepository) MarkRead(ctx context.Context, conversationID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Where("conversation_id = ? AND sender = ? AND is_read = ?", conversationID, model.SenderBot, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("mark messages read failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}
