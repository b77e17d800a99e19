package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storefront-chat/internal/model"
)

// MessageLog is the durable, append-only conversation log.
type MessageLog interface {
	Append(ctx context.Context, message *model.ChatMessage) error
	ListByConversation(ctx context.Context, conversationID string) ([]model.ChatMessage, error)
	MarkRead(ctx context.Context, conversationID string) (int64, error)
}

// Mirror is a bounded write-side cache of recent messages per conversation.
type Mirror interface {
	Append(ctx context.Context, conversationID string, msgs ...model.ChatMessage) error
	Recent(ctx context.Context, conversationID string) ([]model.ChatMessage, error)
}

// ConversationStore writes turns through the durable log and the mirror.
// Reads always come from the log.
type ConversationStore struct {
	log    MessageLog
	mirror Mirror
	logger *zap.Logger
}

func NewConversationStore(log MessageLog, mirror Mirror, logger *zap.Logger) *ConversationStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationStore{log: log, mirror: mirror, logger: logger}
}

// SaveTurn persists the user message, then the bot message, then mirrors
// both in that order. Mirror failures are logged and swallowed.
func (s *ConversationStore) SaveTurn(ctx context.Context, user, bot *model.ChatMessage) error {
	if user.ConversationID != bot.ConversationID {
		return fmt.Errorf("%w: turn spans conversations %q and %q", ErrInvalidInput, user.ConversationID, bot.ConversationID)
	}
	if err := s.log.Append(ctx, user); err != nil {
		return fmt.Errorf("persist user message failed: %w", err)
	}
	if err := s.log.Append(ctx, bot); err != nil {
		return fmt.Errorf("persist bot message failed: %w", err)
	}

	if s.mirror != nil {
		if err := s.mirror.Append(ctx, user.ConversationID, *user, *bot); err != nil {
			s.logger.Warn("mirror append failed",
				zap.String("conversation_id", user.ConversationID),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (s *ConversationStore) History(ctx context.Context, conversationID string) ([]model.ChatMessage, error) {
	return s.log.ListByConversation(ctx, conversationID)
}

func (s *ConversationStore) MarkRead(ctx context.Context, conversationID string) (int64, error) {
	return s.log.MarkRead(ctx, conversationID)
}
