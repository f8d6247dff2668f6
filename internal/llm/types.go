package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Message is one role-tagged entry of a chat request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage is the token accounting reported by the upstream API.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// GenerateRequest describes one upstream call. Prompt, when set, is sent as a
// final user message after Messages.
type GenerateRequest struct {
	Model    string
	System   string
	Prompt   string
	Messages []Message
	Tools    []Tool
	// MaxSteps caps how many generation rounds a streamed call may take when
	// the model keeps requesting tools. Zero means a single round.
	MaxSteps int
}

// GenerateResponse is the result of a non-streamed call.
type GenerateResponse struct {
	Model string `json:"model"`
	Text  string `json:"text"`
	Usage *Usage `json:"usage,omitempty"`
}

// JSONSchema is the subset of JSON Schema used for tool parameters.
type JSONSchema struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Required    []string               `json:"required,omitempty"`
	Enum        []string               `json:"enum,omitempty"`
}

// ToolDefinition is what the model sees of a tool.
type ToolDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  *JSONSchema `json:"parameters"`
}

// ToolResult is the outcome of a tool call. Failures are reported through
// IsError with a readable Content, never as a Go error, so the model can relay
// or recover from them.
type ToolResult struct {
	Content string
	IsError bool
}

// Tool is a capability the model may invoke mid-conversation.
type Tool interface {
	Definition() ToolDefinition
	Execute(ctx context.Context, args json.RawMessage) ToolResult
}

// EventType tags the variants of Event.
type EventType int

const (
	EventTextDelta EventType = iota
	EventToolCall
	EventToolResult
)

func (t EventType) String() string {
	switch t {
	case EventTextDelta:
		return "text_delta"
	case EventToolCall:
		return "tool_call"
	case EventToolResult:
		return "tool_result"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// Event is one item of a streamed call.
//
//	EventTextDelta:  Text
//	EventToolCall:   ToolName, Arguments
//	EventToolResult: ToolName, Result (untruncated)
type Event struct {
	Type      EventType
	Text      string
	ToolName  string
	Arguments json.RawMessage
	Result    string
}

// EventSource is a pull-based stream of events. Next blocks until the next
// event is available, returns io.EOF once the stream ended normally, and any
// other error when it failed. After a non-nil error Next keeps returning it.
type EventSource interface {
	Next() (Event, error)
	Close() error
}

// ErrorKind classifies stream failures.
type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindUpstream      ErrorKind = "upstream"
	KindTransport     ErrorKind = "transport"
	KindCanceled      ErrorKind = "canceled"
)

// StreamError is the failure type returned by providers and event sources.
// Message is safe to show to end users.
type StreamError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *StreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *StreamError) Unwrap() error { return e.Err }
