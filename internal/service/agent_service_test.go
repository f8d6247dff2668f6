package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"article-agent/backend/internal/llm"
	"article-agent/backend/internal/llm/mocks"
	"article-agent/backend/internal/model"
	"article-agent/backend/internal/service"
	"article-agent/backend/internal/session"
)

// scriptedSource replays a fixed list of events and then ends with err, or
// io.EOF when err is nil.
type scriptedSource struct {
	events []llm.Event
	err    error
	pos    int
	closed bool
}

func (s *scriptedSource) Next() (llm.Event, error) {
	if s.pos < len(s.events) {
		ev := s.events[s.pos]
		s.pos++
		return ev, nil
	}
	if s.err != nil {
		return llm.Event{}, s.err
	}
	return llm.Event{}, io.EOF
}

func (s *scriptedSource) Close() error {
	s.closed = true
	return nil
}

// collect runs relay-producing fn in its own goroutine and gathers every frame.
func collect(fn func(chan<- model.Frame)) []model.Frame {
	ch := make(chan model.Frame)
	go fn(ch)
	var frames []model.Frame
	for f := range ch {
		frames = append(frames, f)
	}
	return frames
}

func relayFrames(src llm.EventSource) []model.Frame {
	return collect(func(ch chan<- model.Frame) {
		defer close(ch)
		service.Relay(src, func(f model.Frame) bool {
			ch <- f
			return true
		})
	})
}

func TestAssembleMessages(t *testing.T) {
	t.Run("Keeps the last three turns", func(t *testing.T) {
		history := []model.Turn{
			{Role: "user", Content: "one"},
			{Role: "assistant", Content: "two"},
			{Role: "user", Content: "three"},
			{Role: "assistant", Content: "four"},
			{Role: "user", Content: "five"},
		}

		msgs := service.AssembleMessages(history, "six")

		assert.Equal(t, []llm.Message{
			{Role: "user", Content: "three"},
			{Role: "assistant", Content: "four"},
			{Role: "user", Content: "five"},
			{Role: "user", Content: "six"},
		}, msgs)
	})

	t.Run("Empty history", func(t *testing.T) {
		assert.Equal(t, []llm.Message{{Role: "user", Content: "hi"}}, service.AssembleMessages(nil, "hi"))
	})

	t.Run("Short history is kept whole without dedup", func(t *testing.T) {
		history := []model.Turn{{Role: "user", Content: "hi"}, {Role: "user", Content: "hi"}}
		msgs := service.AssembleMessages(history, "hi")
		assert.Len(t, msgs, 3)
	})
}

func TestRelay(t *testing.T) {
	t.Run("Text deltas end with done and the full response", func(t *testing.T) {
		src := &scriptedSource{events: []llm.Event{
			{Type: llm.EventTextDelta, Text: "Hel"},
			{Type: llm.EventTextDelta, Text: "lo"},
			{Type: llm.EventTextDelta, Text: "!"},
		}}

		frames := relayFrames(src)

		require.Len(t, frames, 4)
		assert.Equal(t, model.Frame{Type: model.FrameDelta, Text: "Hel"}, frames[0])
		assert.Equal(t, model.Frame{Type: model.FrameDelta, Text: "lo"}, frames[1])
		assert.Equal(t, model.Frame{Type: model.FrameDelta, Text: "!"}, frames[2])
		assert.Equal(t, model.FrameDone, frames[3].Type)
		require.NotNil(t, frames[3].FullResponse)
		assert.Equal(t, "Hello!", *frames[3].FullResponse)
		assert.True(t, src.closed)
	})

	t.Run("Empty stream still reports done", func(t *testing.T) {
		frames := relayFrames(&scriptedSource{})
		require.Len(t, frames, 1)
		assert.Equal(t, "", *frames[0].FullResponse)
	})

	t.Run("Tool events are relayed with a shortened result", func(t *testing.T) {
		longResult := "Found 4 article(s):\n\n" + strings.Repeat("x", 400)
		src := &scriptedSource{events: []llm.Event{
			{Type: llm.EventToolCall, ToolName: "search_articles", Arguments: json.RawMessage(`{"query":"go"}`)},
			{Type: llm.EventToolResult, ToolName: "search_articles", Result: longResult},
			{Type: llm.EventToolCall, ToolName: "search_articles"},
			{Type: llm.EventToolResult, ToolName: "search_articles", Result: "short"},
			{Type: llm.EventTextDelta, Text: "Done."},
		}}

		frames := relayFrames(src)

		require.Len(t, frames, 6)
		assert.Equal(t, model.FrameToolCall, frames[0].Type)
		assert.Equal(t, "search_articles", frames[0].Tool)
		assert.JSONEq(t, `{"query":"go"}`, string(frames[0].Arguments))
		assert.Equal(t, model.FrameToolResult, frames[1].Type)
		assert.Equal(t, longResult[:200], frames[1].Result)
		assert.JSONEq(t, `{}`, string(frames[2].Arguments))
		assert.Equal(t, "short", frames[3].Result)
		assert.Equal(t, "Done.", *frames[5].FullResponse, "tool output is not part of the response text")
	})

	t.Run("Fault after some events ends with a single error frame", func(t *testing.T) {
		src := &scriptedSource{
			events: []llm.Event{{Type: llm.EventTextDelta, Text: "a"}, {Type: llm.EventTextDelta, Text: "b"}},
			err:    &llm.StreamError{Kind: llm.KindTransport, Message: "stream from OpenAI was interrupted", Err: io.ErrUnexpectedEOF},
		}

		frames := relayFrames(src)

		require.Len(t, frames, 3)
		assert.Equal(t, "a", frames[0].Text)
		assert.Equal(t, "b", frames[1].Text)
		assert.Equal(t, model.Frame{Type: model.FrameError, Error: "stream from OpenAI was interrupted"}, frames[2])
		assert.True(t, src.closed)
	})

	t.Run("Plain errors keep their message", func(t *testing.T) {
		frames := relayFrames(&scriptedSource{err: errors.New("boom")})
		require.Len(t, frames, 1)
		assert.Equal(t, "boom", frames[0].Error)
	})

	t.Run("Stops when the consumer is gone", func(t *testing.T) {
		src := &scriptedSource{events: []llm.Event{{Type: llm.EventTextDelta, Text: "a"}, {Type: llm.EventTextDelta, Text: "b"}}}
		calls := 0
		service.Relay(src, func(model.Frame) bool {
			calls++
			return false
		})
		assert.Equal(t, 1, calls)
		assert.True(t, src.closed)
	})
}

func setupAgentService(t *testing.T) (*service.AgentService, *mocks.MockProvider, *session.MemoryStore) {
	store := session.NewMemoryStore()
	settings := service.NewSettingsService(store, llm.DefaultCatalogue(), defaultSelection)
	provider := mocks.NewMockProvider(t)
	gateway := llm.NewGateway()
	gateway.Register(model.ProviderOpenAI, provider)
	return service.NewAgentService(settings, gateway, &stubTool{}), provider, store
}

type stubTool struct{}

func (stubTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{Name: "search_articles"}
}

func (stubTool) Execute(context.Context, json.RawMessage) llm.ToolResult {
	return llm.ToolResult{Content: "No articles found matching your criteria."}
}

func TestAgentService_HandleChat(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Test frame, deltas, done", func(t *testing.T) {
		agent, provider, _ := setupAgentService(t)

		var captured *llm.GenerateRequest
		provider.On("Stream", mock.Anything, mock.AnythingOfType("*llm.GenerateRequest")).
			Run(func(args mock.Arguments) { captured = args.Get(1).(*llm.GenerateRequest) }).
			Return(&scriptedSource{events: []llm.Event{{Type: llm.EventTextDelta, Text: "Hi"}}}, nil).Once()

		req := &service.ChatRequest{
			Message: "What is new?",
			History: []model.Turn{
				{Role: "user", Content: "1"}, {Role: "assistant", Content: "2"},
				{Role: "user", Content: "3"}, {Role: "assistant", Content: "4"},
			},
		}
		frames := collect(func(ch chan<- model.Frame) { agent.HandleChat(ctx, "sid", req, ch) })

		require.Len(t, frames, 3)
		assert.Equal(t, model.Frame{Type: model.FrameTest, Message: "Stream started"}, frames[0])
		assert.Equal(t, "Hi", frames[1].Text)
		assert.Equal(t, model.FrameDone, frames[2].Type)

		require.NotNil(t, captured)
		assert.Equal(t, "gpt-4o-mini", captured.Model)
		assert.Equal(t, 5, captured.MaxSteps)
		assert.NotEmpty(t, captured.System)
		require.Len(t, captured.Tools, 1)
		assert.Equal(t, "search_articles", captured.Tools[0].Definition().Name)
		require.Len(t, captured.Messages, 4)
		assert.Equal(t, "2", captured.Messages[0].Content)
		assert.Equal(t, llm.Message{Role: "user", Content: "What is new?"}, captured.Messages[3])
	})

	t.Run("Success - Uses the session selection", func(t *testing.T) {
		agent, provider, store := setupAgentService(t)
		require.NoError(t, store.Set(ctx, "sid", map[string]string{"provider": "OpenAI", "model": "gpt-3.5-turbo"}))

		provider.On("Stream", mock.Anything, mock.MatchedBy(func(r *llm.GenerateRequest) bool {
			return r.Model == "gpt-3.5-turbo"
		})).Return(&scriptedSource{}, nil).Once()

		frames := collect(func(ch chan<- model.Frame) { agent.HandleChat(ctx, "sid", &service.ChatRequest{Message: "x"}, ch) })
		assert.Equal(t, model.FrameDone, frames[len(frames)-1].Type)
	})

	t.Run("Failure - Upstream setup error becomes an error frame", func(t *testing.T) {
		agent, provider, _ := setupAgentService(t)
		provider.On("Stream", mock.Anything, mock.Anything).
			Return(nil, &llm.StreamError{Kind: llm.KindConfiguration, Message: "OpenAI API key is not configured"}).Once()

		frames := collect(func(ch chan<- model.Frame) { agent.HandleChat(ctx, "sid", &service.ChatRequest{Message: "x"}, ch) })

		require.Len(t, frames, 2)
		assert.Equal(t, model.FrameTest, frames[0].Type)
		assert.Equal(t, model.Frame{Type: model.FrameError, Error: "OpenAI API key is not configured"}, frames[1])
	})

	t.Run("Failure - Unregistered provider becomes an error frame", func(t *testing.T) {
		agent, _, store := setupAgentService(t)
		require.NoError(t, store.Set(ctx, "sid", map[string]string{"provider": "OpenRouter", "model": "google/gemma-2-9b-it:free"}))

		frames := collect(func(ch chan<- model.Frame) { agent.HandleChat(ctx, "sid", &service.ChatRequest{Message: "x"}, ch) })

		require.Len(t, frames, 2)
		assert.Equal(t, model.FrameError, frames[1].Type)
		assert.Contains(t, frames[1].Error, "OpenRouter")
	})

	t.Run("Canceled context stops producing frames", func(t *testing.T) {
		agent, _, _ := setupAgentService(t)
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		ch := make(chan model.Frame)
		done := make(chan struct{})
		go func() {
			agent.HandleChat(canceled, "sid", &service.ChatRequest{Message: "x"}, ch)
			close(done)
		}()
		<-done

		_, open := <-ch
		assert.False(t, open, "channel is closed without anyone reading")
	})
}

func TestErrorMessage(t *testing.T) {
	wrapped := fmt.Errorf("text generation failed: %w", &llm.StreamError{Kind: llm.KindUpstream, Message: "Rate limit exceeded"})
	assert.Equal(t, "Rate limit exceeded", service.ErrorMessage(wrapped))
	assert.Equal(t, "plain", service.ErrorMessage(errors.New("plain")))
}

func TestRelay_UpstreamToolThenText(t *testing.T) {
	var step atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		if step.Add(1) == 1 {
			_, _ = fmt.Fprint(w, `data: {"choices":[{"delta":{"content":"Let me check. "}}]}`+"\n\n")
			_, _ = fmt.Fprint(w, `data: {"choices":[{"delta":{"tool_calls":[{"index":0,"id":"call_1","function":{"name":"search_articles","arguments":"{}"}}]}}]}`+"\n\n")
		} else {
			for _, text := range []string{"Nothing ", "matched."} {
				_, _ = fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", text)
			}
		}
		_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	src, err := llm.NewOpenAI(server.URL, "key").Stream(context.Background(), &llm.GenerateRequest{
		Model:    "gpt-4o-mini",
		Messages: []llm.Message{{Role: "user", Content: "anything on rust?"}},
		Tools:    []llm.Tool{stubTool{}},
		MaxSteps: 5,
	})
	require.NoError(t, err)

	frames := relayFrames(src)

	types := make([]string, 0, len(frames))
	for _, f := range frames {
		types = append(types, f.Type)
	}
	require.Equal(t, []string{
		model.FrameDelta, model.FrameToolCall, model.FrameToolResult, model.FrameDelta, model.FrameDelta, model.FrameDone,
	}, types)
	assert.Equal(t, "No articles found matching your criteria.", frames[2].Result)
	require.NotNil(t, frames[5].FullResponse)
	assert.Equal(t, "Let me check. Nothing matched.", *frames[5].FullResponse)
	assert.Equal(t, int32(2), step.Load())
}
