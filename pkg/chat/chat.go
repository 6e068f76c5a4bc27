package chat

import (
	"net/http"
	"strings"

	"github.com/agentdesk/agentdesk/pkg/errx"
)

// ============================================================================
// Roles
// ============================================================================

// Role selects which assistant persona answers a conversation.
type Role string

const (
	RoleExecutive Role = "executive"
	RoleSocial    Role = "social"
)

// IsValid reports whether the role is one of the supported personas.
func (r Role) IsValid() bool {
	switch r {
	case RoleExecutive, RoleSocial:
		return true
	}
	return false
}

const fallbackPrompt = "You are a helpful AI agent."

// SystemPrompt returns the persona prompt injected ahead of every
// completion call. The executive persona embeds the latest user request.
// Unknown roles fall back to a generic agent prompt.
func SystemPrompt(role Role, latestUserRequest string) string {
	switch role {
	case RoleExecutive:
		return "You are a highly skilled and professional executive assistant. " +
			"When asked to schedule or plan, structure your response clearly with dates, times, and titles. " +
			"Optionally format the output as a text-based schedule or provide a downloadable calendar (.ics) format when possible." +
			"\n\nUser Request: " + latestUserRequest
	case RoleSocial:
		return "You are a social media manager for a brand. " +
			"Write engaging posts or captions, create a content calendar, or respond to follower questions. " +
			"Keep the tone friendly and aligned with Gen Z marketing."
	default:
		return fallbackPrompt
	}
}

// ============================================================================
// Conversation
// ============================================================================

// Speaker values for Message.Role.
const (
	SpeakerUser      = "user"
	SpeakerAssistant = "assistant"
)

// Message is one utterance in a conversation. Immutable once created.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is the ordered, append-only transcript of one session.
type Conversation []Message

// Append returns the conversation extended with msg. The receiver is not
// mutated beyond what append allows, matching the append-only contract.
func (c Conversation) Append(msg Message) Conversation {
	return append(c, msg)
}

// LatestUserContent returns the content of the most recent user message
// without disturbing the transcript order.
func (c Conversation) LatestUserContent() string {
	for i := len(c) - 1; i >= 0; i-- {
		if c[i].Role == SpeakerUser {
			return c[i].Content
		}
	}
	return ""
}

// LatestAssistantContent returns the content of the most recent assistant
// message without disturbing the transcript order.
func (c Conversation) LatestAssistantContent() string {
	for i := len(c) - 1; i >= 0; i-- {
		if c[i].Role == SpeakerAssistant {
			return c[i].Content
		}
	}
	return ""
}

// NewUserMessage builds a user message with surrounding whitespace kept,
// since the transcript renders exactly what the user typed.
func NewUserMessage(content string) Message {
	return Message{Role: SpeakerUser, Content: content}
}

// NewAssistantMessage builds an assistant message.
func NewAssistantMessage(content string) Message {
	return Message{Role: SpeakerAssistant, Content: content}
}

// IsBlank reports whether the input carries no submittable text.
func IsBlank(input string) bool {
	return strings.TrimSpace(input) == ""
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("CHAT")

var (
	CodeEmptyInput          = ErrRegistry.Register("EMPTY_INPUT", errx.TypeValidation, http.StatusBadRequest, "Message input is empty")
	CodeRoleRequired        = ErrRegistry.Register("ROLE_REQUIRED", errx.TypeValidation, http.StatusBadRequest, "A role must be selected before chatting")
	CodeProviderUnavailable = ErrRegistry.Register("PROVIDER_UNAVAILABLE", errx.TypeUnavailable, http.StatusBadGateway, "The language model provider is unavailable")
	CodeSubmissionInFlight  = ErrRegistry.Register("SUBMISSION_IN_FLIGHT", errx.TypeConflict, http.StatusConflict, "A submission is already in progress for this session")
	CodeSessionNotFound     = ErrRegistry.Register("SESSION_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Session not found")
)

func ErrEmptyInput() *errx.Error {
	return ErrRegistry.New(CodeEmptyInput)
}

func ErrRoleRequired() *errx.Error {
	return ErrRegistry.New(CodeRoleRequired)
}

func ErrProviderUnavailable() *errx.Error {
	return ErrRegistry.New(CodeProviderUnavailable)
}

func ErrSubmissionInFlight() *errx.Error {
	return ErrRegistry.New(CodeSubmissionInFlight)
}

func ErrSessionNotFound() *errx.Error {
	return ErrRegistry.New(CodeSessionNotFound)
}
