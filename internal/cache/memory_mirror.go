package cache

import (
	"container/list"
	"context"
	"sync"

	"storefront-chat/internal/model"
)

// MemoryMirror keeps the newest messages of each conversation in process.
// Conversations are evicted least-recently-written first once maxConversations
// is exceeded, and each conversation holds at most maxMessages entries.
type MemoryMirror struct {
	mu               sync.Mutex
	items            map[string]*list.Element
	order            *list.List // most recently written at front
	maxMessages      int
	maxConversations int
}

type mirrorEntry struct {
	conversationID string
	messages       []model.ChatMessage
}

func NewMemoryMirror(maxMessages, maxConversations int) *MemoryMirror {
	if maxMessages <= 0 {
		maxMessages = 50
	}
	if maxConversations <= 0 {
		maxConversations = 1000
	}
	return &MemoryMirror{
		items:            make(map[string]*list.Element),
		order:            list.New(),
		maxMessages:      maxMessages,
		maxConversations: maxConversations,
	}
}

// Append adds msgs in order under one lock, so a turn's two records are
// never split by a concurrent writer.
func (m *MemoryMirror) Append(_ context.Context, conversationID string, msgs ...model.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var entry *mirrorEntry
	if elem, ok := m.items[conversationID]; ok {
		m.order.MoveToFront(elem)
		entry = elem.Value.(*mirrorEntry)
	} else {
		entry = &mirrorEntry{conversationID: conversationID}
		m.items[conversationID] = m.order.PushFront(entry)
		for m.order.Len() > m.maxConversations {
			m.evictOldestLocked()
		}
	}

	for _, msg := range msgs {
		entry.messages = append(entry.messages, msg)
		if overflow := len(entry.messages) - m.maxMessages; overflow > 0 {
			entry.messages = append([]model.ChatMessage(nil), entry.messages[overflow:]...)
		}
	}
	return nil
}

// Recent returns a copy of the mirrored messages, oldest first.
func (m *MemoryMirror) Recent(_ context.Context, conversationID string) ([]model.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[conversationID]
	if !ok {
		return nil, nil
	}
	entry := elem.Value.(*mirrorEntry)
	return append([]model.ChatMessage(nil), entry.messages...), nil
}

// Len is the number of mirrored conversations.
func (m *MemoryMirror) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

func (m *MemoryMirror) evictOldestLocked() {
	back := m.order.Back()
	if back == nil {
		return
	}
	m.order.Remove(back)
	delete(m.items, back.Value.(*mirrorEntry).conversationID)
}
