package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("article-agent/backend/internal/llm")

// Client talks to an OpenAI-compatible /chat/completions endpoint. OpenAI and
// OpenRouter share the wire format and differ only in base URL, key, and the
// attribution headers OpenRouter asks for.
type Client struct {
	name    string
	baseURL string
	apiKey  string
	headers map[string]string
	client  *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHeader adds a header to every upstream request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// NewClient creates a client for the provider called name. No client-wide
// timeout is set since streams may legitimately run for minutes; callers bound
// calls with their context.
func NewClient(name, baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		headers: make(map[string]string),
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewOpenAI returns a client for api.openai.com (or a compatible base URL).
func NewOpenAI(baseURL, apiKey string, opts ...Option) *Client {
	return NewClient("OpenAI", baseURL, apiKey, opts...)
}

// NewOpenRouter returns a client for openrouter.ai with attribution headers set.
func NewOpenRouter(baseURL, apiKey string, opts ...Option) *Client {
	opts = append([]Option{
		WithHeader("HTTP-Referer", "https://github.com/article-agent/backend"),
		WithHeader("X-Title", "Article Agent"),
	}, opts...)
	return NewClient("OpenRouter", baseURL, apiKey, opts...)
}

// Name returns the provider name the client was created with.
func (c *Client) Name() string { return c.name }

type wireMessage struct {
	Role       string         `json:"role"`
	Content    *string        `json:"content"`
	Name       string         `json:"name,omitempty"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type wireFunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type wireToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function wireFunctionCall `json:"function"`
}

type wireFunction struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  *JSONSchema `json:"parameters"`
}

type wireTool struct {
	Type     string       `json:"type"`
	Function wireFunction `json:"function"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []wireMessage `json:"messages"`
	Tools    []wireTool    `json:"tools,omitempty"`
	Stream   bool          `json:"stream"`
}

type apiError struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *Usage    `json:"usage"`
	Error *apiError `json:"error"`
}

func textMessage(role, content string) wireMessage {
	return wireMessage{Role: role, Content: &content}
}

// buildMessages flattens a request into the upstream message list.
func buildMessages(req *GenerateRequest) []wireMessage {
	msgs := make([]wireMessage, 0, len(req.Messages)+2)
	if req.System != "" {
		msgs = append(msgs, textMessage("system", req.System))
	}
	for _, m := range req.Messages {
		msgs = append(msgs, textMessage(m.Role, m.Content))
	}
	if req.Prompt != "" {
		msgs = append(msgs, textMessage("user", req.Prompt))
	}
	return msgs
}

func buildTools(tools []Tool) ([]wireTool, map[string]Tool) {
	if len(tools) == 0 {
		return nil, nil
	}
	wire := make([]wireTool, 0, len(tools))
	byName := make(map[string]Tool, len(tools))
	for _, t := range tools {
		def := t.Definition()
		params := def.Parameters
		if params == nil {
			params = &JSONSchema{Type: "object", Properties: map[string]*JSONSchema{}}
		}
		wire = append(wire, wireTool{
			Type:     "function",
			Function: wireFunction{Name: def.Name, Description: def.Description, Parameters: params},
		})
		byName[def.Name] = t
	}
	return wire, byName
}

// post sends a chat request and returns the response once the status line
// says 200. Any other status is turned into an upstream StreamError.
func (c *Client) post(ctx context.Context, body chatRequest) (*http.Response, error) {
	if c.apiKey == "" {
		return nil, &StreamError{Kind: KindConfiguration, Message: fmt.Sprintf("%s API key is not configured", c.name)}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("could not create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body.Stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, transportError(ctx, "could not reach "+c.name, err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return nil, &StreamError{
			Kind:    KindUpstream,
			Message: fmt.Sprintf("%s returned status %d: %s", c.name, resp.StatusCode, upstreamMessage(bodyBytes)),
		}
	}
	return resp, nil
}

// Generate performs a single non-streamed completion.
func (c *Client) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	ctx, span := tracer.Start(ctx, "llm.generate")
	defer span.End()
	span.SetAttributes(attribute.String("llm.provider", c.name), attribute.String("llm.model", req.Model))

	resp, err := c.post(ctx, chatRequest{Model: req.Model, Messages: buildMessages(req)})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, &StreamError{Kind: KindUpstream, Message: "could not decode response", Err: err}
	}
	if chatResp.Error != nil {
		return nil, &StreamError{Kind: KindUpstream, Message: chatResp.Error.Message}
	}
	if len(chatResp.Choices) == 0 {
		return nil, &StreamError{Kind: KindUpstream, Message: "no response choices returned"}
	}

	if chatResp.Usage != nil {
		span.SetAttributes(attribute.Int("llm.usage.total_tokens", chatResp.Usage.TotalTokens))
	}
	model := chatResp.Model
	if model == "" {
		model = req.Model
	}
	return &GenerateResponse{Model: model, Text: chatResp.Choices[0].Message.Content, Usage: chatResp.Usage}, nil
}

// Stream starts a streamed completion. When tools are attached, the returned
// source runs the tool loop itself: it executes every requested call, feeds
// the full results back to the model, and starts the next round, up to
// req.MaxSteps rounds.
func (c *Client) Stream(ctx context.Context, req *GenerateRequest) (EventSource, error) {
	tools, byName := buildTools(req.Tools)
	maxSteps := req.MaxSteps
	if maxSteps < 1 {
		maxSteps = 1
	}
	s := &chatStream{
		ctx:      ctx,
		client:   c,
		request:  chatRequest{Model: req.Model, Messages: buildMessages(req), Tools: tools, Stream: true},
		tools:    byName,
		maxSteps: maxSteps,
	}
	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

func transportError(ctx context.Context, message string, err error) error {
	if ctx.Err() != nil {
		return &StreamError{Kind: KindCanceled, Message: "request was canceled", Err: ctx.Err()}
	}
	return &StreamError{Kind: KindTransport, Message: message, Err: err}
}

// upstreamMessage pulls the human-readable part out of an error body.
func upstreamMessage(body []byte) string {
	var wrapped struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Error != nil && wrapped.Error.Message != "" {
		return wrapped.Error.Message
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return "empty response body"
	}
	return msg
}

// IsCanceled reports whether err stems from the caller giving up.
func IsCanceled(err error) bool {
	var se *StreamError
	if errors.As(err, &se) {
		return se.Kind == KindCanceled
	}
	return errors.Is(err, context.Canceled)
}
