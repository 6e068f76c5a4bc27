package config

import "time"

// WebhookConfig points at the outbound email-automation webhook.
type WebhookConfig struct {
	URL     string
	Timeout time.Duration
}

func loadWebhookConfig() WebhookConfig {
	return WebhookConfig{
		URL:     getEnv("EMAIL_WEBHOOK_URL", ""),
		Timeout: getEnvDuration("EMAIL_WEBHOOK_TIMEOUT", 15*time.Second),
	}
}
