package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront-chat/internal/cache"
	"storefront-chat/internal/model"
	"storefront-chat/internal/repository"
	"storefront-chat/internal/responder"
	"storefront-chat/internal/testutil"
)

type recordingPublisher struct {
	events []model.TurnEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event model.TurnEvent) error {
	p.events = append(p.events, event)
	return p.err
}

type chatFixture struct {
	db        *gorm.DB
	service   *ChatService
	mirror    *cache.MemoryMirror
	publisher *recordingPublisher
}

func firstTemplate(int) int { return 0 }

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	mirror := cache.NewMemoryMirror(50, 100)
	publisher := &recordingPublisher{}

	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	service := NewChatService(ChatServiceDeps{
		Orders:        responder.NewOrderStatusResponder(repository.NewOrderRepository(db), time.Second, nil),
		Keywords:      responder.NewKeywordMatcher(repository.NewKeywordRepository(db), time.Second, nil),
		Fallback:      responder.NewFallback(firstTemplate),
		Store:         NewConversationStore(repository.NewMessageRepository(db), mirror, nil),
		Publisher:     publisher,
		Conversations: repository.NewConversationRepository(db),
		Now: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
	})
	return &chatFixture{db: db, service: service, mirror: mirror, publisher: publisher}
}

func TestHandleMessage_OrderPhraseWithoutIDPromptsForNumber(t *testing.T) {
	f := newChatFixture(t)

	result, err := f.service.HandleMessage(context.Background(), HandleMessageInput{Message: "check order status", ConversationID: "c1"})

	require.NoError(t, err)
	assert.Equal(t, responder.OrderPrompt, result.Response)
	assert.Equal(t, StageOrderPrompt, result.Stage)
}

func TestHandleMessage_UnknownOrder(t *testing.T) {
	f := newChatFixture(t)

	result, err := f.service.HandleMessage(context.Background(), HandleMessageInput{Message: "order ORD-99999", ConversationID: "c1"})

	require.NoError(t, err)
	assert.Equal(t, `I couldn't find an order with ID "ord-99999". Please check your order number and try again.`, result.Response)
	assert.Equal(t, StageOrderStatus, result.Stage)
}

func TestHandleMessage_KnownOrder(t *testing.T) {
	f := newChatFixture(t)
	require.NoError(t, f.db.Create(&model.Order{
		ID:            "ord-77777",
		Status:        model.OrderStatusShipped,
		PaymentStatus: "paid",
		Total:         decimal.NewFromInt(4200),
		CreatedAt:     time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC),
	}).Error)

	result, err := f.service.HandleMessage(context.Background(), HandleMessageInput{Message: "where is ORD-77777?", ConversationID: "c1"})

	require.NoError(t, err)
	assert.Contains(t, result.Response, "shipped")
	assert.Contains(t, result.Lines, "Total: PKR 4200")
	assert.Contains(t, result.Response, "\n", "lines are newline separated")
}

func TestHandleMessage_GreetingPersistsUserThenBot(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	result, err := f.service.HandleMessage(ctx, HandleMessageInput{Message: "Hi there", ConversationID: "c1"})
	require.NoError(t, err)

	assert.Equal(t, responder.NewFallback(firstTemplate).Respond("hi there").Text(), result.Response)
	assert.Equal(t, StageFallback, result.Stage)

	history, convID, err := f.service.GetHistory(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", convID)
	require.Len(t, history, 2)
	assert.Equal(t, model.SenderUser, history[0].Sender)
	assert.Equal(t, "Hi there", history[0].Message)
	assert.Equal(t, model.SenderBot, history[1].Sender)
	assert.Equal(t, result.MessageID, history[1].ID)
	assert.Equal(t, result.Response, history[1].Message)

	mirrored, err := f.mirror.Recent(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, mirrored, 2)
	assert.Equal(t, history[0].ID, mirrored[0].ID)
	assert.Equal(t, history[1].ID, mirrored[1].ID)
}

func TestHandleMessage_KeywordBeforeFallback(t *testing.T) {
	f := newChatFixture(t)
	require.NoError(t, f.db.Create(&model.KeywordRule{Keyword: "engraving", Response: "low", IsActive: true, Priority: 1}).Error)
	require.NoError(t, f.db.Create(&model.KeywordRule{Keyword: "engrav", Response: "high", IsActive: true, Priority: 5}).Error)

	result, err := f.service.HandleMessage(context.Background(), HandleMessageInput{Message: "Do you offer Engraving on rings?"})

	require.NoError(t, err)
	assert.Equal(t, "high", result.Response)
	assert.Equal(t, StageKeyword, result.Stage)
	assert.Equal(t, "default", result.ConversationID)
}

func TestHandleMessage_OrderPhraseBeatsKeywords(t *testing.T) {
	f := newChatFixture(t)
	require.NoError(t, f.db.Create(&model.KeywordRule{Keyword: "order", Response: "keyword", IsActive: true, Priority: 10}).Error)

	result, err := f.service.HandleMessage(context.Background(), HandleMessageInput{Message: "where is my order"})

	require.NoError(t, err)
	assert.Equal(t, responder.OrderPrompt, result.Response)
}

func TestHandleMessage_RoundTripKeepsInsertionOrder(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	for _, text := range []string{"hello", "price of rings", "refund please"} {
		_, err := f.service.HandleMessage(ctx, HandleMessageInput{Message: text, ConversationID: "c1"})
		require.NoError(t, err)
	}
	_, err := f.service.HandleMessage(ctx, HandleMessageInput{Message: "other", ConversationID: "c2"})
	require.NoError(t, err)

	history, _, err := f.service.GetHistory(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, history, 6)
	assert.Equal(t, "hello", history[0].Message)
	assert.Equal(t, "price of rings", history[2].Message)
	assert.Equal(t, "refund please", history[4].Message)
	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].Timestamp.Before(history[i-1].Timestamp))
	}
}

func TestHandleMessage_Validation(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.service.HandleMessage(context.Background(), HandleMessageInput{Message: "   "})

	assert.ErrorIs(t, err, ErrMessageEmpty)
}

func TestHandleMessage_PublishesTurnEvent(t *testing.T) {
	f := newChatFixture(t)
	f.publisher.err = errors.New("broker down")

	result, err := f.service.HandleMessage(context.Background(), HandleMessageInput{Message: "hey", ConversationID: "c9"})

	require.NoError(t, err, "publish failures do not fail the turn")
	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, "c9", event.ConversationID)
	assert.Equal(t, result.MessageID, event.BotMessageID)
	assert.Equal(t, StageFallback, event.Stage)
}

func TestMarkConversationRead(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	conversations := repository.NewConversationRepository(f.db)

	_, err := f.service.HandleMessage(ctx, HandleMessageInput{Message: "hello", ConversationID: "c1"})
	require.NoError(t, err)
	require.NoError(t, conversations.RecordTurn(ctx, f.publisher.events[0]))

	changed, err := f.service.MarkConversationRead(ctx, "c1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, changed)

	list, err := f.service.ListConversations(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 0, list[0].UnreadCount)

	_, err = f.service.MarkConversationRead(ctx, " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
