package chatsrv_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/agentdesk/agentdesk/pkg/ai/llm"
	"github.com/agentdesk/agentdesk/pkg/chat"
	"github.com/agentdesk/agentdesk/pkg/chat/chatinfra"
	"github.com/agentdesk/agentdesk/pkg/chat/chatsrv"
	"github.com/agentdesk/agentdesk/pkg/config"
	"github.com/agentdesk/agentdesk/pkg/errx"
	"github.com/agentdesk/agentdesk/pkg/history"
	"github.com/agentdesk/agentdesk/pkg/history/historysrv"
)

type fakeLLM struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   [][]llm.Message
	started chan struct{}
	release chan struct{}
}

func (f *fakeLLM) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (llm.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, messages)
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}

	if f.err != nil {
		return llm.Response{}, f.err
	}
	return llm.Response{Message: llm.NewAssistantMessage(f.reply)}, nil
}

func (f *fakeLLM) lastCall() []llm.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}

type fakeHistoryRepo struct {
	mu       sync.Mutex
	inserted []history.Record
	err      error
	notify   chan struct{}
}

func (r *fakeHistoryRepo) Insert(ctx context.Context, record *history.Record) error {
	r.mu.Lock()
	if r.err == nil {
		r.inserted = append(r.inserted, *record)
	}
	err := r.err
	r.mu.Unlock()

	if r.notify != nil {
		r.notify <- struct{}{}
	}
	return err
}

func (r *fakeHistoryRepo) List(ctx context.Context, limit int) ([]history.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]history.Record(nil), r.inserted...), nil
}

func newService(provider *fakeLLM, repo *fakeHistoryRepo) (*chatsrv.ChatService, *chatinfra.MemoryConversationStore) {
	store := chatinfra.NewMemoryConversationStore()
	completions := chatsrv.NewCompletionClient(
		llm.NewClient(provider),
		&config.OpenAIConfig{Model: "gpt-4o", Temperature: 0.7},
	)
	svc := chatsrv.NewChatService(completions, store, historysrv.NewHistoryService(repo))
	return svc, store
}

func waitForHistory(t *testing.T, notify chan struct{}) {
	t.Helper()
	select {
	case <-notify:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for history write")
	}
}

func TestSubmitHappyPath(t *testing.T) {
	provider := &fakeLLM{reply: "Here is your schedule."}
	repo := &fakeHistoryRepo{notify: make(chan struct{}, 1)}
	svc, _ := newService(provider, repo)

	conv, err := svc.Submit(context.Background(), chatsrv.SubmitInput{
		SessionID: "s1",
		Role:      chat.RoleExecutive,
		Input:     "plan my week",
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if len(conv) != 2 {
		t.Fatalf("conversation length = %d, want 2", len(conv))
	}
	if conv[0].Role != chat.SpeakerUser || conv[0].Content != "plan my week" {
		t.Errorf("first message = %+v, want the user input", conv[0])
	}
	if conv[1].Role != chat.SpeakerAssistant || conv[1].Content != "Here is your schedule." {
		t.Errorf("second message = %+v, want the assistant reply", conv[1])
	}

	waitForHistory(t, repo.notify)
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.inserted) != 1 {
		t.Fatalf("history inserts = %d, want 1", len(repo.inserted))
	}
	rec := repo.inserted[0]
	if rec.Role != "executive" || rec.Prompt != "plan my week" || rec.Response != "Here is your schedule." {
		t.Errorf("history record = %+v", rec)
	}
}

func TestSubmitBuildsSystemPromptFirst(t *testing.T) {
	provider := &fakeLLM{reply: "ok"}
	repo := &fakeHistoryRepo{}
	svc, _ := newService(provider, repo)

	_, err := svc.Submit(context.Background(), chatsrv.SubmitInput{
		SessionID: "s1",
		Role:      chat.RoleExecutive,
		Input:     "schedule a demo",
		History: chat.Conversation{
			chat.NewUserMessage("earlier question"),
			chat.NewAssistantMessage("earlier answer"),
		},
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	messages := provider.lastCall()
	if len(messages) != 4 {
		t.Fatalf("provider received %d messages, want 4", len(messages))
	}
	if messages[0].Role != llm.RoleSystem {
		t.Fatalf("first message role = %q, want system", messages[0].Role)
	}
	if !strings.Contains(messages[0].Content, "User Request: schedule a demo") {
		t.Errorf("system prompt missing latest user request: %q", messages[0].Content)
	}
	// History follows in original order, newest last.
	wantOrder := []string{"earlier question", "earlier answer", "schedule a demo"}
	for i, want := range wantOrder {
		if messages[i+1].Content != want {
			t.Errorf("message %d = %q, want %q", i+1, messages[i+1].Content, want)
		}
	}
}

func TestSubmitRejectsBlankInput(t *testing.T) {
	provider := &fakeLLM{reply: "never"}
	repo := &fakeHistoryRepo{}
	svc, store := newService(provider, repo)

	_, err := svc.Submit(context.Background(), chatsrv.SubmitInput{
		SessionID: "s1",
		Role:      chat.RoleExecutive,
		Input:     "   \n",
	})
	if !errx.IsCode(err, chat.CodeEmptyInput) {
		t.Fatalf("error = %v, want CHAT_EMPTY_INPUT", err)
	}

	if len(provider.calls) != 0 {
		t.Error("provider must not be called for blank input")
	}
	conv, _ := store.Get(context.Background(), "s1")
	if len(conv) != 0 {
		t.Errorf("conversation mutated on rejected input: %+v", conv)
	}
}

func TestSubmitRejectsMissingRole(t *testing.T) {
	provider := &fakeLLM{reply: "never"}
	repo := &fakeHistoryRepo{}
	svc, _ := newService(provider, repo)

	for _, role := range []chat.Role{"", "unknown"} {
		_, err := svc.Submit(context.Background(), chatsrv.SubmitInput{
			SessionID: "s1",
			Role:      role,
			Input:     "hello",
		})
		if !errx.IsCode(err, chat.CodeRoleRequired) {
			t.Errorf("role %q: error = %v, want CHAT_ROLE_REQUIRED", role, err)
		}
	}
	if len(provider.calls) != 0 {
		t.Error("provider must not be called without a valid role")
	}
}

func TestSubmitProviderFailureKeepsUserMessage(t *testing.T) {
	provider := &fakeLLM{err: errors.New("connection refused")}
	repo := &fakeHistoryRepo{}
	svc, store := newService(provider, repo)

	conv, err := svc.Submit(context.Background(), chatsrv.SubmitInput{
		SessionID: "s1",
		Role:      chat.RoleSocial,
		Input:     "write a caption",
	})
	if !errx.IsCode(err, chat.CodeProviderUnavailable) {
		t.Fatalf("error = %v, want CHAT_PROVIDER_UNAVAILABLE", err)
	}

	// The user message stays; no assistant message is appended.
	if len(conv) != 1 || conv[0].Role != chat.SpeakerUser {
		t.Errorf("conversation = %+v, want only the user message", conv)
	}

	stored, _ := store.Get(context.Background(), "s1")
	if len(stored) != 1 {
		t.Errorf("stored conversation = %+v, want only the user message", stored)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.inserted) != 0 {
		t.Error("no history record must be written for a failed turn")
	}
}

func TestSubmitHistoryWriteFailureDoesNotAffectResult(t *testing.T) {
	provider := &fakeLLM{reply: "the reply"}
	repo := &fakeHistoryRepo{err: errors.New("db down"), notify: make(chan struct{}, 1)}
	svc, _ := newService(provider, repo)

	conv, err := svc.Submit(context.Background(), chatsrv.SubmitInput{
		SessionID: "s1",
		Role:      chat.RoleExecutive,
		Input:     "plan my week",
	})
	if err != nil {
		t.Fatalf("Submit returned error despite history failure: %v", err)
	}
	if conv.LatestAssistantContent() != "the reply" {
		t.Errorf("assistant reply missing from conversation: %+v", conv)
	}

	waitForHistory(t, repo.notify)
}

func TestSubmitRejectsConcurrentSubmission(t *testing.T) {
	provider := &fakeLLM{
		reply:   "slow reply",
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	repo := &fakeHistoryRepo{}
	svc, _ := newService(provider, repo)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), chatsrv.SubmitInput{
			SessionID: "s1",
			Role:      chat.RoleExecutive,
			Input:     "first",
		})
		done <- err
	}()

	<-provider.started

	_, err := svc.Submit(context.Background(), chatsrv.SubmitInput{
		SessionID: "s1",
		Role:      chat.RoleExecutive,
		Input:     "second",
	})
	if !errx.IsCode(err, chat.CodeSubmissionInFlight) {
		t.Errorf("error = %v, want CHAT_SUBMISSION_IN_FLIGHT", err)
	}

	close(provider.release)
	if err := <-done; err != nil {
		t.Fatalf("first submission failed: %v", err)
	}

	// A different session is not blocked by s1's guard.
	if _, err := svc.Submit(context.Background(), chatsrv.SubmitInput{
		SessionID: "s2",
		Role:      chat.RoleExecutive,
		Input:     "other session",
	}); err != nil {
		t.Errorf("unrelated session rejected: %v", err)
	}
}

func TestSubmitUsesStoredTranscript(t *testing.T) {
	provider := &fakeLLM{reply: "second answer"}
	repo := &fakeHistoryRepo{}
	svc, store := newService(provider, repo)

	seed := chat.Conversation{
		chat.NewUserMessage("first question"),
		chat.NewAssistantMessage("first answer"),
	}
	if err := store.Save(context.Background(), "s1", seed); err != nil {
		t.Fatal(err)
	}

	conv, err := svc.Submit(context.Background(), chatsrv.SubmitInput{
		SessionID: "s1",
		Role:      chat.RoleExecutive,
		Input:     "second question",
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if len(conv) != 4 {
		t.Fatalf("conversation length = %d, want 4", len(conv))
	}
	if conv[0].Content != "first question" || conv[3].Content != "second answer" {
		t.Errorf("stored transcript not used: %+v", conv)
	}
}

func TestClearResetsTranscript(t *testing.T) {
	provider := &fakeLLM{reply: "hello"}
	repo := &fakeHistoryRepo{}
	svc, store := newService(provider, repo)

	if err := store.Save(context.Background(), "s1", chat.Conversation{chat.NewUserMessage("hi")}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Clear(context.Background(), "s1"); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}

	conv, err := svc.Transcript(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Transcript returned error: %v", err)
	}
	if len(conv) != 0 {
		t.Errorf("transcript after clear = %+v, want empty", conv)
	}
}
