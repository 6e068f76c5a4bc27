package notifyinfra

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agentdesk/agentdesk/pkg/config"
	"github.com/agentdesk/agentdesk/pkg/errx"
	"github.com/agentdesk/agentdesk/pkg/notify"
)

func TestSendForwardsPayloadAndReturnsRawResponse(t *testing.T) {
	var received map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		w.Write([]byte("Accepted"))
	}))
	defer srv.Close()

	notifier := NewWebhookNotifier(&config.WebhookConfig{URL: srv.URL, Timeout: 5 * time.Second})

	result, err := notifier.Send(context.Background(), "Weekly Update", "Here are the highlights.")
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if result != "Accepted" {
		t.Errorf("result = %q, want raw response text", result)
	}
	if received["subject"] != "Weekly Update" || received["body"] != "Here are the highlights." {
		t.Errorf("payload = %v, want subject/body verbatim", received)
	}
}

func TestSendReturnsRawResponseOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("nope"))
	}))
	defer srv.Close()

	notifier := NewWebhookNotifier(&config.WebhookConfig{URL: srv.URL, Timeout: 5 * time.Second})

	// The webhook's status code is opaque to us; only transport failures
	// count as errors.
	result, err := notifier.Send(context.Background(), "s", "b")
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if result != "nope" {
		t.Errorf("result = %q, want %q", result, "nope")
	}
}

func TestSendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	notifier := NewWebhookNotifier(&config.WebhookConfig{URL: url, Timeout: time.Second})

	_, err := notifier.Send(context.Background(), "s", "b")
	if err == nil {
		t.Fatal("expected error for unreachable webhook")
	}
	if !errx.IsCode(err, notify.CodeUnreachable) {
		t.Errorf("error = %v, want NOTIFY_UNREACHABLE", err)
	}
}
