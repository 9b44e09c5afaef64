package ipc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"streamsched/internal/announce"
	"streamsched/internal/api"
	"streamsched/internal/schedule"
)

// ErrUnavailable reports that no daemon answered.
var ErrUnavailable = errors.New("daemon unavailable")

// StatusError is a non-2xx API response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("daemon returned %d: %s", e.Code, e.Message)
}

// Is maps API status codes back onto store sentinels.
func (e *StatusError) Is(target error) bool {
	switch target {
	case schedule.ErrLastSlot:
		return e.Code == http.StatusConflict
	case schedule.ErrDeleteDeclined:
		return e.Code == http.StatusPreconditionRequired
	case schedule.ErrSlotNotFound:
		return e.Code == http.StatusNotFound
	}
	return false
}

// Client talks to the daemon HTTP API.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// Dial returns a client for the daemon listening on bind (host:port or URL)
// after confirming it answers the health endpoint.
func Dial(ctx context.Context, bind, token string) (*Client, error) {
	c := NewClient(BaseURL(bind), token)
	if _, err := c.Health(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// NewClient builds a client without probing the daemon.
func NewClient(baseURL, token string) *Client {
	return &Client{
		base:  strings.TrimRight(baseURL, "/"),
		token: strings.TrimSpace(token),
		http:  &http.Client{Timeout: 5 * time.Second},
	}
}

// BaseURL converts a bind address into an http URL. Wildcard hosts are
// replaced with loopback.
func BaseURL(bind string) string {
	bind = strings.TrimSpace(bind)
	if strings.HasPrefix(bind, "http://") || strings.HasPrefix(bind, "https://") {
		return bind
	}
	host, port, err := net.SplitHostPort(bind)
	if err != nil {
		return "http://" + bind
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// Health probes /api/health.
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Slots lists every collection.
func (c *Client) Slots(ctx context.Context) (*api.SlotsResponse, error) {
	var resp api.SlotsResponse
	if err := c.do(ctx, http.MethodGet, "/api/slots", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddSlot appends a slot to key.
func (c *Client) AddSlot(ctx context.Context, key schedule.Key) (*api.SlotResponse, error) {
	var resp api.SlotResponse
	if err := c.do(ctx, http.MethodPost, "/api/slots/"+url.PathEscape(string(key)), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateField sets one field of slot id.
func (c *Client) UpdateField(ctx context.Context, key schedule.Key, id string, field schedule.Field, value string) (*api.SlotResponse, error) {
	var resp api.SlotResponse
	body := api.FieldUpdateRequest{Field: string(field), Value: value}
	if err := c.do(ctx, http.MethodPatch, slotPath(key, id), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteSlot removes slot id. The caller has already confirmed.
func (c *Client) DeleteSlot(ctx context.Context, key schedule.Key, id string) error {
	return c.do(ctx, http.MethodDelete, slotPath(key, id)+"?confirm=true", nil, nil)
}

// Config fetches the configuration document exactly as stored.
func (c *Client) Config(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/config", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Announce renders an announcement. template < 0 uses the current template.
func (c *Client) Announce(ctx context.Context, template int, timestamps *bool) (*announce.Message, error) {
	query := url.Values{}
	if template >= 0 {
		query.Set("template", strconv.Itoa(template))
	}
	if timestamps != nil {
		query.Set("timestamps", strconv.FormatBool(*timestamps))
	}
	path := "/api/announce"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var msg announce.Message
	if err := c.do(ctx, http.MethodGet, path, nil, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func slotPath(key schedule.Key, id string) string {
	return "/api/slots/" + url.PathEscape(string(key)) + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return &StatusError{Code: resp.StatusCode, Message: payload.Error}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
