package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"streamsched/internal/config"
)

const (
	userAgent = "streamsched/0.1.0"
	username  = "Stream Schedule"

	// MaxContentLength is Discord's limit for a webhook message body.
	MaxContentLength = 2000
)

// ErrTooLong reports an announcement Discord would reject.
var ErrTooLong = errors.New("announcement exceeds Discord message limit")

// Service defines the announcement surface exposed to the CLI.
type Service interface {
	Enabled() bool
	PostAnnouncement(ctx context.Context, title, body string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a webhook-backed service when a webhook URL is
// configured and a noop implementation otherwise.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	endpoint := strings.TrimSpace(cfg.Announce.WebhookURL)
	if endpoint == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Announce.WebhookTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &webhookService{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	Content  string `json:"content"`
	Username string `json:"username,omitempty"`
}

type webhookService struct {
	endpoint string
	client   *http.Client
}

func (w *webhookService) Enabled() bool { return true }

// PostAnnouncement sends the title in bold and the body as one message
// separated by a blank line, the same layout "announce" prints.
func (w *webhookService) PostAnnouncement(ctx context.Context, title, body string) error {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	content := body
	if title != "" {
		content = "**" + title + "**\n\n" + body
	}
	if strings.TrimSpace(content) == "" {
		return errors.New("announcement is empty")
	}
	return w.send(ctx, payload{Content: content, Username: username})
}

func (w *webhookService) TestNotification(ctx context.Context) error {
	return w.send(ctx, payload{Content: "Webhook test from streamsched", Username: username})
}

func (w *webhookService) send(ctx context.Context, data payload) error {
	if w == nil || w.client == nil {
		return nil
	}
	if n := utf8.RuneCountInString(data.Content); n > MaxContentLength {
		return fmt.Errorf("%w: %d characters, limit %d", ErrTooLong, n, MaxContentLength)
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Enabled() bool                                          { return false }
func (noopService) PostAnnouncement(context.Context, string, string) error { return nil }
func (noopService) TestNotification(context.Context) error                 { return nil }
