package chatsrv

import (
	"context"

	"github.com/agentdesk/agentdesk/pkg/ai/llm"
	"github.com/agentdesk/agentdesk/pkg/chat"
	"github.com/agentdesk/agentdesk/pkg/config"
)

// CompletionClient turns a role plus conversation into one assistant reply.
// It owns the system-prompt injection and the fixed sampling parameters.
// There are no retries: every provider call costs money, and the caller
// cannot assume a repeated call is side-effect free.
type CompletionClient struct {
	client      *llm.Client
	model       string
	temperature float32
}

func NewCompletionClient(client *llm.Client, cfg *config.OpenAIConfig) *CompletionClient {
	return &CompletionClient{
		client:      client,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
	}
}

// Complete sends [system prompt] + the conversation in original order and
// returns the assistant's reply text unmodified. Any transport failure or
// malformed provider response maps to PROVIDER_UNAVAILABLE.
func (c *CompletionClient) Complete(ctx context.Context, role chat.Role, conv chat.Conversation) (string, error) {
	messages := make([]llm.Message, 0, len(conv)+1)
	messages = append(messages, llm.NewSystemMessage(chat.SystemPrompt(role, conv.LatestUserContent())))
	for _, msg := range conv {
		messages = append(messages, llm.Message{Role: msg.Role, Content: msg.Content})
	}

	response, err := c.client.Chat(ctx, messages,
		llm.WithModel(c.model),
		llm.WithTemperature(c.temperature),
	)
	if err != nil {
		return "", chat.ErrProviderUnavailable().WithCause(err)
	}

	return response.Message.Content, nil
}
