package notifyinfra

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/agentdesk/agentdesk/pkg/config"
	"github.com/agentdesk/agentdesk/pkg/errx"
	"github.com/agentdesk/agentdesk/pkg/notify"
)

// WebhookNotifier posts {subject, body} as JSON to a fixed webhook URL.
// The response body is treated as opaque text; the webhook's status code
// is not interpreted, matching the automation service's contract.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier creates a webhook-backed notifier
func NewWebhookNotifier(cfg *config.WebhookConfig) notify.Notifier {
	return &WebhookNotifier{
		url: cfg.URL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type webhookPayload struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Send forwards subject and body verbatim and returns the raw response.
func (n *WebhookNotifier) Send(ctx context.Context, subject, body string) (string, error) {
	payload, err := json.Marshal(webhookPayload{Subject: subject, Body: body})
	if err != nil {
		return "", errx.Wrap(err, "failed to marshal webhook payload", errx.TypeInternal)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return "", errx.Wrap(err, "failed to build webhook request", errx.TypeInternal)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return "", notify.ErrUnreachable().WithCause(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", notify.ErrUnreachable().WithCause(err)
	}

	return string(raw), nil
}
