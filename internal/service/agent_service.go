package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"article-agent/backend/internal/llm"
	"article-agent/backend/internal/model"
	"article-agent/backend/internal/tool"
)

const (
	historyWindow     = 3
	agentMaxSteps     = 5
	toolResultPreview = 200

	agentSystemPrompt = "You are a helpful AI assistant that can search and retrieve articles from a database. " +
		"When users ask about articles, use the search_articles tool to find relevant information. " +
		"Be conversational and helpful."
)

// ChatRequest is the body of an agent chat turn. History is held by the client.
type ChatRequest struct {
	Message string       `json:"message" validate:"required,max=2000" example:"Which articles are still drafts?"`
	History []model.Turn `json:"history" validate:"omitempty,dive"`
}

// AgentService runs one tool-augmented chat turn and relays it as frames.
type AgentService struct {
	settings *SettingsService
	gateway  *llm.Gateway
	tools    []llm.Tool
}

func NewAgentService(settings *SettingsService, gateway *llm.Gateway, tools ...llm.Tool) *AgentService {
	return &AgentService{settings: settings, gateway: gateway, tools: tools}
}

// AssembleMessages keeps the last few turns of history, in order and with
// their roles, and appends message as the user's turn.
func AssembleMessages(history []model.Turn, message string) []llm.Message {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	msgs := make([]llm.Message, 0, len(history)+1)
	for _, turn := range history {
		msgs = append(msgs, llm.Message{Role: turn.Role, Content: turn.Content})
	}
	return append(msgs, llm.Message{Role: "user", Content: message})
}

// HandleChat streams one agent turn into frames and closes frames when it is
// done. The first frame is always the "test" frame and the last one is either
// "done" or "error". Cancelling ctx stops the upstream call and the relay.
func (s *AgentService) HandleChat(ctx context.Context, sessionID string, req *ChatRequest, frames chan<- model.Frame) {
	defer close(frames)
	emit := channelEmitter(ctx, frames)

	if !emit(model.Frame{Type: model.FrameTest, Message: "Stream started"}) {
		return
	}

	sel := s.settings.Resolve(ctx, sessionID)
	slog.Info("Starting agent stream", "session_id", sessionID, "provider", sel.Provider, "model", sel.Model, "history_turns", len(req.History))

	provider, err := s.gateway.For(sel.Provider)
	if err != nil {
		fail(emit, "Agent chat error", err)
		return
	}

	src, err := provider.Stream(ctx, &llm.GenerateRequest{
		Model:    sel.Model,
		System:   agentSystemPrompt,
		Messages: AssembleMessages(req.History, req.Message),
		Tools:    s.tools,
		MaxSteps: agentMaxSteps,
	})
	if err != nil {
		fail(emit, "Agent chat error", err)
		return
	}

	Relay(src, emit)
}

// Emitter hands a frame to the consumer. It reports false once the consumer is
// gone, after which no more frames should be produced.
type Emitter func(model.Frame) bool

func channelEmitter(ctx context.Context, frames chan<- model.Frame) Emitter {
	return func(f model.Frame) bool {
		select {
		case frames <- f:
			return true
		case <-ctx.Done():
			return false
		}
	}
}

// Relay forwards every event of src as a frame and finishes with exactly one
// terminal frame: "done" with the accumulated text when src ends normally,
// "error" when it fails. Tool results are shortened for display only. src is
// closed before Relay returns.
func Relay(src llm.EventSource, emit Emitter) {
	relay(src, emit, true)
}

func relay(src llm.EventSource, emit Emitter, withFullResponse bool) {
	defer func() {
		if err := src.Close(); err != nil {
			slog.Debug("Closing event source failed", "error", err)
		}
	}()

	var full strings.Builder
	for {
		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			done := model.Frame{Type: model.FrameDone}
			if withFullResponse {
				text := full.String()
				done.FullResponse = &text
			}
			emit(done)
			return
		}
		if err != nil {
			fail(emit, "Stream failed", err)
			return
		}

		frame, ok := toFrame(ev)
		if !ok {
			continue
		}
		if ev.Type == llm.EventTextDelta {
			full.WriteString(ev.Text)
		}
		if !emit(frame) {
			slog.Info("Client went away, stopping relay")
			return
		}
	}
}

func toFrame(ev llm.Event) (model.Frame, bool) {
	switch ev.Type {
	case llm.EventTextDelta:
		return model.Frame{Type: model.FrameDelta, Text: ev.Text}, true
	case llm.EventToolCall:
		args := ev.Arguments
		if len(args) == 0 {
			args = []byte(`{}`)
		}
		return model.Frame{Type: model.FrameToolCall, Tool: ev.ToolName, Arguments: args}, true
	case llm.EventToolResult:
		return model.Frame{Type: model.FrameToolResult, Tool: ev.ToolName, Result: tool.Truncate(ev.Result, toolResultPreview, "")}, true
	default:
		slog.Warn("Dropping unknown stream event", "type", ev.Type.String())
		return model.Frame{}, false
	}
}

// fail logs err and emits it as the terminal error frame.
func fail(emit Emitter, logMessage string, err error) {
	if llm.IsCanceled(err) {
		slog.Info(logMessage+": request canceled", "error", err)
	} else {
		slog.Error(logMessage, "error", err)
	}
	emit(model.Frame{Type: model.FrameError, Error: ErrorMessage(err)})
}

// ErrorMessage turns err into text that can be shown to an end user.
func ErrorMessage(err error) string {
	var se *llm.StreamError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return err.Error()
}
