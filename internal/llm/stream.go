package llm

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type toolCallDelta struct {
	Index    int    `json:"index"`
	ID       string `json:"id,omitempty"`
	Type     string `json:"type,omitempty"`
	Function struct {
		Name      string `json:"name,omitempty"`
		Arguments string `json:"arguments,omitempty"`
	} `json:"function"`
}

type chatChunk struct {
	Choices []struct {
		Delta struct {
			Content   string          `json:"content"`
			ToolCalls []toolCallDelta `json:"tool_calls"`
		} `json:"delta"`
	} `json:"choices"`
	Error *apiError `json:"error"`
}

// toolCallAccumulator stitches streamed tool-call fragments back together.
// Fragments of one call share an index; the name and ID arrive first and the
// arguments are spread over many chunks.
type toolCallAccumulator struct {
	calls map[int]*wireToolCall
}

func newToolCallAccumulator() *toolCallAccumulator {
	return &toolCallAccumulator{calls: make(map[int]*wireToolCall)}
}

func (a *toolCallAccumulator) add(d toolCallDelta) {
	tc, ok := a.calls[d.Index]
	if !ok {
		tc = &wireToolCall{Type: "function"}
		a.calls[d.Index] = tc
	}
	if d.ID != "" {
		tc.ID = d.ID
	}
	if d.Type != "" {
		tc.Type = d.Type
	}
	if d.Function.Name != "" {
		tc.Function.Name = d.Function.Name
	}
	tc.Function.Arguments += d.Function.Arguments
}

// list returns the accumulated calls ordered by index.
func (a *toolCallAccumulator) list() []wireToolCall {
	indexes := make([]int, 0, len(a.calls))
	for i := range a.calls {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	out := make([]wireToolCall, 0, len(indexes))
	for _, i := range indexes {
		tc := *a.calls[i]
		if tc.ID == "" {
			tc.ID = fmt.Sprintf("call_%d", i)
		}
		out = append(out, tc)
	}
	return out
}

// chatStream is the EventSource returned by Client.Stream. It never spawns
// goroutines: each Next call reads from the current upstream response until
// it has something to return.
type chatStream struct {
	ctx      context.Context
	client   *Client
	request  chatRequest
	tools    map[string]Tool
	maxSteps int

	step    int
	resp    *http.Response
	reader  *bufio.Reader
	span    trace.Span
	calls   *toolCallAccumulator
	text    strings.Builder
	pending []Event
	ended   bool
	err     error
}

func (s *chatStream) Next() (Event, error) {
	for {
		if len(s.pending) > 0 {
			ev := s.pending[0]
			s.pending = s.pending[1:]
			return ev, nil
		}
		if s.err != nil {
			return Event{}, s.err
		}
		if s.ended {
			return Event{}, io.EOF
		}
		if s.resp == nil {
			if err := s.open(); err != nil {
				return Event{}, s.fail(err)
			}
		}

		ev, stepDone, err := s.read()
		if err != nil {
			return Event{}, s.fail(err)
		}
		if !stepDone {
			return ev, nil
		}
		s.finishStep()
	}
}

func (s *chatStream) Close() error {
	s.ended = true
	return s.closeStep(nil)
}

// open starts the next generation round.
func (s *chatStream) open() error {
	ctx, span := tracer.Start(s.ctx, "llm.stream.step")
	span.SetAttributes(
		attribute.String("llm.provider", s.client.name),
		attribute.String("llm.model", s.request.Model),
		attribute.Int("llm.step", s.step+1),
	)
	resp, err := s.client.post(ctx, s.request)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
		return err
	}
	s.span = span
	s.resp = resp
	s.reader = bufio.NewReader(resp.Body)
	s.calls = newToolCallAccumulator()
	s.text.Reset()
	return nil
}

// read consumes upstream SSE lines until it can return a text delta or the
// current round is over.
func (s *chatStream) read() (Event, bool, error) {
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return Event{}, false, transportError(s.ctx, "stream from "+s.client.name+" was interrupted", err)
		}
		eof := err != nil

		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "data:") {
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				return Event{}, true, nil
			}
			ev, ok, perr := s.parse(data)
			if perr != nil {
				return Event{}, false, perr
			}
			if ok {
				return ev, false, nil
			}
		}
		if eof {
			return Event{}, true, nil
		}
	}
}

func (s *chatStream) parse(data string) (Event, bool, error) {
	var chunk chatChunk
	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		slog.Debug("Skipping malformed upstream chunk", "provider", s.client.name, "error", err)
		return Event{}, false, nil
	}
	if chunk.Error != nil {
		return Event{}, false, &StreamError{Kind: KindUpstream, Message: chunk.Error.Message}
	}
	if len(chunk.Choices) == 0 {
		return Event{}, false, nil
	}
	delta := chunk.Choices[0].Delta
	for _, tc := range delta.ToolCalls {
		s.calls.add(tc)
	}
	if delta.Content == "" {
		return Event{}, false, nil
	}
	s.text.WriteString(delta.Content)
	return Event{Type: EventTextDelta, Text: delta.Content}, true, nil
}

// finishStep closes the current round and, when the model asked for tools,
// runs them and queues their events ahead of the next round.
func (s *chatStream) finishStep() {
	calls := s.calls.list()
	_ = s.closeStep(nil)
	s.step++

	if len(calls) == 0 {
		s.ended = true
		return
	}

	var content *string
	if s.text.Len() > 0 {
		text := s.text.String()
		content = &text
	}
	s.request.Messages = append(s.request.Messages, wireMessage{Role: "assistant", Content: content, ToolCalls: calls})

	for _, call := range calls {
		args := normalizeArguments(call.Function.Arguments)
		s.pending = append(s.pending, Event{Type: EventToolCall, ToolName: call.Function.Name, Arguments: args})

		result := s.execute(call.Function.Name, args)
		s.pending = append(s.pending, Event{Type: EventToolResult, ToolName: call.Function.Name, Result: result.Content})

		content := result.Content
		s.request.Messages = append(s.request.Messages, wireMessage{
			Role:       "tool",
			Content:    &content,
			Name:       call.Function.Name,
			ToolCallID: call.ID,
		})
	}

	if s.step >= s.maxSteps {
		slog.Info("Tool step limit reached, ending stream", "provider", s.client.name, "max_steps", s.maxSteps)
		s.ended = true
	}
}

func (s *chatStream) execute(name string, args json.RawMessage) ToolResult {
	tool, ok := s.tools[name]
	if !ok {
		return ToolResult{Content: fmt.Sprintf("Unknown tool: %s", name), IsError: true}
	}
	return tool.Execute(s.ctx, args)
}

func (s *chatStream) fail(err error) error {
	s.err = err
	_ = s.closeStep(err)
	return err
}

func (s *chatStream) closeStep(err error) error {
	if s.resp == nil {
		return nil
	}
	closeErr := s.resp.Body.Close()
	s.resp = nil
	s.reader = nil
	if s.span != nil {
		if err != nil {
			s.span.RecordError(err)
			s.span.SetStatus(codes.Error, err.Error())
		}
		s.span.End()
		s.span = nil
	}
	return closeErr
}

// normalizeArguments makes sure tool arguments are a JSON value. Models
// occasionally send an empty string or broken JSON; the former becomes {} and
// the latter is passed along as a JSON string.
func normalizeArguments(raw string) json.RawMessage {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return json.RawMessage(`{}`)
	}
	if json.Valid([]byte(raw)) {
		return json.RawMessage(raw)
	}
	quoted, _ := json.Marshal(raw)
	return quoted
}
