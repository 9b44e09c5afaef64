package notifications_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"streamsched/internal/config"
	"streamsched/internal/notifications"
)

func TestNewServiceReturnsNoopWhenWebhookMissing(t *testing.T) {
	cfg := config.Default()
	svc := notifications.NewService(&cfg)
	if svc.Enabled() {
		t.Fatal("expected noop service without webhook")
	}
	if err := svc.PostAnnouncement(context.Background(), "Title", "Body"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestPostAnnouncementSendsWebhookPayload(t *testing.T) {
	var captured struct {
		contentType string
		agent       string
		body        map[string]string
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		captured.contentType = r.Header.Get("Content-Type")
		captured.agent = r.Header.Get("User-Agent")
		if err := json.NewDecoder(r.Body).Decode(&captured.body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Announce.WebhookURL = server.URL
	svc := notifications.NewService(&cfg)
	if !svc.Enabled() {
		t.Fatal("expected webhook service")
	}

	body := "• **9:30 AM - 12:30 PM** - Morning Warmup: Coffee"
	if err := svc.PostAnnouncement(context.Background(), "Schedule Update", body); err != nil {
		t.Fatalf("PostAnnouncement: %v", err)
	}
	if captured.contentType != "application/json" {
		t.Fatalf("content type = %q", captured.contentType)
	}
	if !strings.HasPrefix(captured.agent, "streamsched/") {
		t.Fatalf("user agent = %q", captured.agent)
	}
	want := "**Schedule Update**\n\n" + body
	if captured.body["content"] != want {
		t.Fatalf("content = %q, want %q", captured.body["content"], want)
	}
	if captured.body["username"] == "" {
		t.Fatal("expected username")
	}
}

func TestPostAnnouncementReportsDiscordErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Unknown Webhook"}`, http.StatusNotFound)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Announce.WebhookURL = server.URL
	err := notifications.NewService(&cfg).PostAnnouncement(context.Background(), "", "hello")
	if err == nil || !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "Unknown Webhook") {
		t.Fatalf("err = %v, want 404 with body", err)
	}
}

func TestPostAnnouncementRejectsOversizedMessages(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Announce.WebhookURL = server.URL
	body := strings.Repeat("x", notifications.MaxContentLength+1)
	err := notifications.NewService(&cfg).PostAnnouncement(context.Background(), "", body)
	if !errors.Is(err, notifications.ErrTooLong) {
		t.Fatalf("err = %v, want ErrTooLong", err)
	}
	if calls != 0 {
		t.Fatalf("oversized message reached the server %d times", calls)
	}
}
