package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront-chat/internal/model"
	"storefront-chat/internal/responder"
)

// Resolution stages, in the order the pipeline tries them.
const (
	StageOrderStatus = "order_status"
	StageOrderPrompt = "order_prompt"
	StageKeyword     = "keyword"
	StageFallback    = "fallback"
)

type TurnPublisher interface {
	Publish(ctx context.Context, event model.TurnEvent) error
}

type ConversationSummaries interface {
	List(ctx context.Context, limit int) ([]model.Conversation, error)
	ResetUnread(ctx context.Context, conversationID string) error
}

type ChatService struct {
	extractor     *responder.Extractor
	orders        *responder.OrderStatusResponder
	keywords      *responder.KeywordMatcher
	fallback      *responder.Fallback
	store         *ConversationStore
	publisher     TurnPublisher
	conversations ConversationSummaries
	defaultConvID string
	logger        *zap.Logger
	now           func() time.Time
}

type ChatServiceDeps struct {
	Extractor     *responder.Extractor
	Orders        *responder.OrderStatusResponder
	Keywords      *responder.KeywordMatcher
	Fallback      *responder.Fallback
	Store         *ConversationStore
	Publisher     TurnPublisher // optional
	Conversations ConversationSummaries
	// DefaultConversationID is used when a message arrives without one.
	DefaultConversationID string
	Logger                *zap.Logger
	Now                   func() time.Time
}

type HandleMessageInput struct {
	Message        string
	ConversationID string
}

type HandleMessageResult struct {
	Response       string   `json:"response"`
	Lines          []string `json:"-"`
	ConversationID string   `json:"conversationId"`
	MessageID      string   `json:"messageId"`
	Stage          string   `json:"-"`
}

func NewChatService(deps ChatServiceDeps) *ChatService {
	if deps.Extractor == nil {
		deps.Extractor = responder.NewExtractor()
	}
	if deps.Fallback == nil {
		deps.Fallback = responder.NewFallback(nil)
	}
	if deps.DefaultConversationID == "" {
		deps.DefaultConversationID = "default"
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &ChatService{
		extractor:     deps.Extractor,
		orders:        deps.Orders,
		keywords:      deps.Keywords,
		fallback:      deps.Fallback,
		store:         deps.Store,
		publisher:     deps.Publisher,
		conversations: deps.Conversations,
		defaultConvID: deps.DefaultConversationID,
		logger:        deps.Logger,
		now:           deps.Now,
	}
}

// HandleMessage runs one turn: resolve a reply, persist user then bot
// message, and announce the turn.
func (s *ChatService) HandleMessage(ctx context.Context, input HandleMessageInput) (*HandleMessageResult, error) {
	content := strings.TrimSpace(input.Message)
	if content == "" {
		return nil, ErrMessageEmpty
	}
	conversationID := s.conversationID(input.ConversationID)

	userMessage := &model.ChatMessage{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Sender:         model.SenderUser,
		Message:        content,
		Timestamp:      s.now(),
	}

	reply, stage := s.resolve(ctx, content)
	s.logger.Debug("chat message resolved",
		zap.String("conversation_id", conversationID),
		zap.String("stage", stage),
	)

	botMessage := &model.ChatMessage{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Sender:         model.SenderBot,
		Message:        reply.Text(),
		Timestamp:      s.now(),
	}
	if err := s.store.SaveTurn(ctx, userMessage, botMessage); err != nil {
		return nil, err
	}

	s.publishTurn(ctx, model.TurnEvent{
		ConversationID: conversationID,
		UserMessageID:  userMessage.ID,
		BotMessageID:   botMessage.ID,
		UserMessage:    userMessage.Message,
		Stage:          stage,
		OccurredAt:     botMessage.Timestamp,
	})

	return &HandleMessageResult{
		Response:       botMessage.Message,
		Lines:          reply.Lines,
		ConversationID: conversationID,
		MessageID:      botMessage.ID,
		Stage:          stage,
	}, nil
}

// resolve tries order id extraction, the order phrase prompt, keyword rules
// and the static fallback, in that order.
func (s *ChatService) resolve(ctx context.Context, content string) (responder.Reply, string) {
	if orderID, ok := s.extractor.Extract(content); ok {
		return s.orders.Respond(ctx, orderID), StageOrderStatus
	}

	text := strings.ToLower(content)
	if s.fallback.IsOrderPhrase(text) {
		return responder.NewReply(responder.OrderPrompt), StageOrderPrompt
	}
	if s.keywords != nil {
		if reply, ok := s.keywords.Match(ctx, text); ok {
			return reply, StageKeyword
		}
	}
	return s.fallback.Respond(text), StageFallback
}

func (s *ChatService) publishTurn(ctx context.Context, event model.TurnEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish turn event failed",
			zap.String("conversation_id", event.ConversationID),
			zap.Error(err),
		)
	}
}

func (s *ChatService) GetHistory(ctx context.Context, conversationID string) ([]model.ChatMessage, string, error) {
	conversationID = s.conversationID(conversationID)
	messages, err := s.store.History(ctx, conversationID)
	if err != nil {
		return nil, conversationID, err
	}
	return messages, conversationID, nil
}

func (s *ChatService) ListConversations(ctx context.Context, limit int) ([]model.Conversation, error) {
	if s.conversations == nil {
		return nil, fmt.Errorf("conversation summaries are not configured")
	}
	return s.conversations.List(ctx, limit)
}

// MarkConversationRead flags the conversation's bot replies as read and
// clears its unread counter.
func (s *ChatService) MarkConversationRead(ctx context.Context, conversationID string) (int64, error) {
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		return 0, ErrInvalidInput
	}
	changed, err := s.store.MarkRead(ctx, conversationID)
	if err != nil {
		return 0, err
	}
	if s.conversations != nil {
		if err := s.conversations.ResetUnread(ctx, conversationID); err != nil {
			return 0, err
		}
	}
	return changed, nil
}

func (s *ChatService) conversationID(raw string) string {
	if id := strings.TrimSpace(raw); id != "" {
		return id
	}
	return s.defaultConvID
}
