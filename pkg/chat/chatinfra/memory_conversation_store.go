package chatinfra

import (
	"context"
	"sync"

	"github.com/agentdesk/agentdesk/pkg/chat"
)

// MemoryConversationStore is the in-process store used in development and
// tests. Entries never expire; restart the process to clear them.
type MemoryConversationStore struct {
	mu            sync.RWMutex
	conversations map[string]chat.Conversation
}

// NewMemoryConversationStore creates an in-memory conversation store
func NewMemoryConversationStore() *MemoryConversationStore {
	return &MemoryConversationStore{
		conversations: make(map[string]chat.Conversation),
	}
}

func (s *MemoryConversationStore) Get(ctx context.Context, sessionID string) (chat.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv := s.conversations[sessionID]
	out := make(chat.Conversation, len(conv))
	copy(out, conv)
	return out, nil
}

func (s *MemoryConversationStore) Save(ctx context.Context, sessionID string, conv chat.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make(chat.Conversation, len(conv))
	copy(stored, conv)
	s.conversations[sessionID] = stored
	return nil
}

func (s *MemoryConversationStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.conversations, sessionID)
	return nil
}
