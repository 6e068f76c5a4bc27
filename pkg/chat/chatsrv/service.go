package chatsrv

import (
	"context"
	"sync"
	"time"

	"github.com/agentdesk/agentdesk/pkg/chat"
	"github.com/agentdesk/agentdesk/pkg/history/historysrv"
	"github.com/agentdesk/agentdesk/pkg/logx"
	"github.com/google/uuid"
)

const historyWriteTimeout = 10 * time.Second

// ChatService orchestrates one chat turn: it owns the transcript, injects
// the persona prompt through the completion client, and hands completed
// turns to the history service on a best-effort basis.
type ChatService struct {
	completions *CompletionClient
	store       chat.ConversationStore
	historySvc  *historysrv.HistoryService

	// One outstanding submission per session. Concurrent submissions are
	// rejected, not queued.
	inFlight sync.Map
}

func NewChatService(
	completions *CompletionClient,
	store chat.ConversationStore,
	historySvc *historysrv.HistoryService,
) *ChatService {
	return &ChatService{
		completions: completions,
		store:       store,
		historySvc:  historySvc,
	}
}

// SubmitInput carries one user submission. History is the client-supplied
// transcript, used when the session has no server-side copy yet.
type SubmitInput struct {
	SessionID string
	Role      chat.Role
	Input     string
	History   chat.Conversation
}

// StartSession allocates a fresh session identifier.
func (s *ChatService) StartSession() string {
	return uuid.NewString()
}

// Submit runs one chat turn and returns the updated conversation.
//
// The returned conversation always contains the appended user message,
// even when the provider call fails; the assistant message is appended
// only on success. A history write failure never affects the result.
func (s *ChatService) Submit(ctx context.Context, in SubmitInput) (chat.Conversation, error) {
	if chat.IsBlank(in.Input) {
		return nil, chat.ErrEmptyInput()
	}
	if !in.Role.IsValid() {
		return nil, chat.ErrRoleRequired()
	}

	if in.SessionID != "" {
		if _, loaded := s.inFlight.LoadOrStore(in.SessionID, struct{}{}); loaded {
			return nil, chat.ErrSubmissionInFlight().WithDetail("session_id", in.SessionID)
		}
		defer s.inFlight.Delete(in.SessionID)
	}

	conv := s.loadConversation(ctx, in)
	conv = conv.Append(chat.NewUserMessage(in.Input))

	reply, err := s.completions.Complete(ctx, in.Role, conv)
	if err != nil {
		// Keep the user message so the UI can render the failed turn and
		// the user can resubmit.
		s.saveConversation(ctx, in.SessionID, conv)
		return conv, err
	}

	conv = conv.Append(chat.NewAssistantMessage(reply))
	s.saveConversation(ctx, in.SessionID, conv)

	// Fire and forget. The write outlives the request context.
	go s.recordTurn(string(in.Role), in.Input, reply)

	return conv, nil
}

// Transcript returns the stored conversation for a session.
func (s *ChatService) Transcript(ctx context.Context, sessionID string) (chat.Conversation, error) {
	return s.store.Get(ctx, sessionID)
}

// Clear resets a session's conversation to empty.
func (s *ChatService) Clear(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

func (s *ChatService) loadConversation(ctx context.Context, in SubmitInput) chat.Conversation {
	if in.SessionID == "" {
		return in.History
	}

	stored, err := s.store.Get(ctx, in.SessionID)
	if err != nil {
		logx.WithFields(logx.Fields{
			"session_id": in.SessionID,
		}).Warnf("conversation store read failed, using client transcript: %v", err)
		return in.History
	}
	if len(stored) == 0 {
		return in.History
	}
	return stored
}

func (s *ChatService) saveConversation(ctx context.Context, sessionID string, conv chat.Conversation) {
	if sessionID == "" {
		return
	}
	if err := s.store.Save(ctx, sessionID, conv); err != nil {
		logx.WithFields(logx.Fields{
			"session_id": sessionID,
		}).Warnf("conversation store write failed: %v", err)
	}
}

func (s *ChatService) recordTurn(role, prompt, response string) {
	ctx, cancel := context.WithTimeout(context.Background(), historyWriteTimeout)
	defer cancel()

	// Failures are already logged by the history service. Nothing to do
	// here; the turn stays visible to the user regardless.
	_ = s.historySvc.Record(ctx, role, prompt, response)
}
