package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-chat/internal/model"
	"storefront-chat/internal/repository"
	"storefront-chat/internal/testutil"
)

func TestTurnEventWorker_Handle(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := repository.NewConversationRepository(db)
	w := NewTurnEventWorker(nil, repo, "chat.turn.events", nil)
	ctx := context.Background()

	t.Run("valid event updates summary", func(t *testing.T) {
		body, err := json.Marshal(model.TurnEvent{
			ConversationID: "c1",
			UserMessage:    "hello",
			OccurredAt:     time.Now(),
		})
		require.NoError(t, err)

		require.NoError(t, w.handle(ctx, body))

		list, err := repo.List(ctx, 10)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, 2, list[0].MessageCount)
		assert.Equal(t, "hello", list[0].LastMessage)
	})

	t.Run("malformed payload", func(t *testing.T) {
		err := w.handle(ctx, []byte("{not json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode turn event failed")
	})

	t.Run("missing conversation id", func(t *testing.T) {
		require.Error(t, w.handle(ctx, []byte(`{"userMessage":"hi"}`)))
	})
}
