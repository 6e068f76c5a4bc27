package chatinfra

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agentdesk/agentdesk/pkg/chat"
	"github.com/redis/go-redis/v9"
)

// RedisConversationStore keeps session transcripts in Redis with a TTL so
// a reloaded browser tab can pick its conversation back up.
type RedisConversationStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisConversationStore creates a Redis-backed conversation store
func NewRedisConversationStore(client *redis.Client, ttl time.Duration) chat.ConversationStore {
	return &RedisConversationStore{
		client: client,
		ttl:    ttl,
	}
}

func conversationKey(sessionID string) string {
	return fmt.Sprintf("conversation:%s", sessionID)
}

// Get returns the stored transcript for a session. A missing key yields
// an empty conversation, not an error: new sessions start empty.
func (s *RedisConversationStore) Get(ctx context.Context, sessionID string) (chat.Conversation, error) {
	jsonData, err := s.client.Get(ctx, conversationKey(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return chat.Conversation{}, nil
		}
		return nil, fmt.Errorf("failed to get conversation from Redis: %w", err)
	}

	var conv chat.Conversation
	if err := json.Unmarshal([]byte(jsonData), &conv); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}

	return conv, nil
}

// Save stores the transcript and refreshes its TTL.
func (s *RedisConversationStore) Save(ctx context.Context, sessionID string, conv chat.Conversation) error {
	jsonData, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}

	if err := s.client.Set(ctx, conversationKey(sessionID), jsonData, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store conversation in Redis: %w", err)
	}

	return nil
}

// Delete removes the transcript, implementing "clear chat".
func (s *RedisConversationStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, conversationKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete conversation from Redis: %w", err)
	}
	return nil
}
