package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront-chat/internal/model"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

const previewLimit = 255

// RecordTurn folds one turn into the conversation summary, creating it on
// first sight.
func (r *ConversationRepository) RecordTurn(ctx context.Context, event model.TurnEvent) error {
	preview := event.UserMessage
	if runes := []rune(preview); len(runes) > previewLimit {
		preview = string(runes[:previewLimit])
	}

	conversation := model.Conversation{
		ID:             event.ConversationID,
		MessageCount:   2,
		UnreadCount:    1,
		LastMessage:    preview,
		LastActivityAt: event.OccurredAt,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"message_count":    gorm.Expr("message_count + ?", 2),
			"unread_count":     gorm.Expr("unread_count + ?", 1),
			"last_message":     preview,
			"last_activity_at": event.OccurredAt,
			"updated_at":       gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&conversation).Error
	if err != nil {
		return fmt.Errorf("record conversation turn failed: %w", err)
	}
	return nil
}

func (r *ConversationRepository) List(ctx context.Context, limit int) ([]model.Conversation, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	var conversations []model.Conversation
	if err := r.db.WithContext(ctx).Order("last_activity_at DESC").Limit(limit).Find(&conversations).Error; err != nil {
		return nil, fmt.Errorf("list conversations failed: %w", err)
	}
	return conversations, nil
}

func (r *ConversationRepository) ResetUnread(ctx context.Context, conversationID string) error {
	if err := r.db.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("id = ?", conversationID).
		Update("unread_count", 0).Error; err != nil {
		return fmt.Errorf("reset unread count failed: %w", err)
	}
	return nil
}
