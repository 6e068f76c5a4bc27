package chat

import "context"

// ConversationStore keeps the live transcript of each session. Entries
// expire on their own; the store is a cache, not the system of record.
type ConversationStore interface {
	Get(ctx context.Context, sessionID string) (Conversation, error)
	Save(ctx context.Context, sessionID string, conv Conversation) error
	Delete(ctx context.Context, sessionID string) error
}
