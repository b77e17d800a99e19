package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"storefront-chat/internal/model"
)

// RedisMirror keeps each conversation's recent messages in a Redis list.
// The key TTL bounds how many conversations stay resident.
type RedisMirror struct {
	client      redisv9.UniversalClient
	maxMessages int
	ttl         time.Duration
}

func NewRedisMirror(client redisv9.UniversalClient, maxMessages int, ttl time.Duration) *RedisMirror {
	if maxMessages <= 0 {
		maxMessages = 50
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisMirror{
		client:      client,
		maxMessages: maxMessages,
		ttl:         ttl,
	}
}

// Append pushes msgs and trims the list in one MULTI/EXEC.
func (c *RedisMirror) Append(ctx context.Context, conversationID string, msgs ...model.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(msgs))
	for _, msg := range msgs {
		payload, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("marshal mirror message failed: %w", err)
		}
		values = append(values, payload)
	}

	key := c.mirrorKey(conversationID)
	_, err := c.client.TxPipelined(ctx, func(pipe redisv9.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		pipe.LTrim(ctx, key, int64(-c.maxMessages), -1)
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis append mirror failed: %w", err)
	}
	return nil
}

func (c *RedisMirror) Recent(ctx context.Context, conversationID string) ([]model.ChatMessage, error) {
	raw, err := c.client.LRange(ctx, c.mirrorKey(conversationID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis read mirror failed: %w", err)
	}

	messages := make([]model.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg model.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("unmarshal mirror message failed: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (c *RedisMirror) mirrorKey(conversationID string) string {
	return fmt.Sprintf("chat:mirror:%s", conversationID)
}
