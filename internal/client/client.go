package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"

	"article-agent/backend/internal/model"
	"article-agent/backend/internal/service"
)

// Client talks to the agent server over HTTP. The session cookie issued on
// the first request is kept, so the provider/model selection sticks.
type Client struct {
	baseURL    string
	httpClient *http.Client
	consumer   *Consumer

	mu     sync.Mutex
	cancel context.CancelFunc
}

type Option func(*Client)

// WithHTTPClient replaces the default client. It should carry a cookie jar.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, view View, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Jar: jar},
		consumer:   NewConsumer(view),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send submits message to the agent and renders the answer as it streams.
// It blocks until the turn ends and returns ErrBusy while another turn is
// running. Blank messages are ignored.
func (c *Client) Send(ctx context.Context, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil
	}
	history, err := c.consumer.Begin(message)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.cancel = nil
		c.mu.Unlock()
		cancel()
	}()

	err = c.stream(ctx, service.ChatRequest{Message: message, History: history})
	switch {
	case err == nil:
		return nil
	case errors.Is(ctx.Err(), context.Canceled):
		c.consumer.Abort()
		return nil
	default:
		c.consumer.Fail(err)
		return err
	}
}

func (c *Client) stream(ctx context.Context, chat service.ChatRequest) error {
	payload, err := json.Marshal(chat)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/agent/chat", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Debug("Failed to close stream body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		err := statusError(resp)
		return err
	}
	return c.consumer.Consume(resp.Body)
}

// Stop cancels the running turn on this side of the connection only.
func (c *Client) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Client) History() []model.Turn {
	return c.consumer.History()
}

func (c *Client) State() State {
	return c.consumer.State()
}

// Settings returns the session's selection and the selectable models.
func (c *Client) Settings(ctx context.Context) (*service.SettingsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ai/settings", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}
	var settings service.SettingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&settings); err != nil {
		return nil, fmt.Errorf("could not decode settings: %w", err)
	}
	return &settings, nil
}

// SaveSettings changes the session's provider and model.
func (c *Client) SaveSettings(ctx context.Context, sel model.Selection) error {
	payload, err := json.Marshal(sel)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ai/settings", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

// statusError builds an error from a non-200 reply, preferring the server's
// own message.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		return fmt.Errorf("HTTP error! status: %d: %s", resp.StatusCode, payload.Error)
	}
	return fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
}
