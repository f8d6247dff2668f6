package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"article-agent/backend/internal/api"
	"article-agent/backend/internal/interfaces/mocks"
	"article-agent/backend/internal/model"
	"article-agent/backend/internal/service"
)

func setupAgentHandler(t *testing.T) (*api.AgentHandler, *mocks.MockAgentService) {
	mockAgent := mocks.NewMockAgentService(t)
	return api.NewAgentHandler(mockAgent), mockAgent
}

func TestAgentHandler_HandleChat(t *testing.T) {
	t.Run("Success - Frames are streamed in order", func(t *testing.T) {
		handler, mockAgent := setupAgentHandler(t)
		full := "Hello"
		mockAgent.On("HandleChat", mock.Anything, "sid-1", mock.MatchedBy(func(r *service.ChatRequest) bool {
			return r.Message == "hi" && len(r.History) == 1 && r.History[0].Role == "assistant"
		}), mock.Anything).Run(sendFrames(3,
			model.Frame{Type: model.FrameTest, Message: "Stream started"},
			model.Frame{Type: model.FrameDelta, Text: "Hel"},
			model.Frame{Type: model.FrameDelta, Text: "lo"},
			model.Frame{Type: model.FrameDone, FullResponse: &full},
		)).Once()

		body := `{"message":"hi","history":[{"role":"assistant","content":"earlier"}]}`
		req := withSession(httptest.NewRequest(http.MethodPost, "/agent/chat", strings.NewReader(body)), "sid-1")
		rr := httptest.NewRecorder()

		handler.HandleChat(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
		assert.Equal(t, "no-cache", rr.Header().Get("Cache-Control"))
		assert.Equal(t, "keep-alive", rr.Header().Get("Connection"))
		assert.Equal(t, "no", rr.Header().Get("X-Accel-Buffering"))
		assert.True(t, rr.Flushed)

		frames := parseFrames(t, rr.Body.String())
		require.Len(t, frames, 4)
		assert.Equal(t, model.FrameTest, frames[0].Type)
		assert.Equal(t, "Hel", frames[1].Text)
		assert.Equal(t, "lo", frames[2].Text)
		assert.Equal(t, "Hello", *frames[3].FullResponse)
		assert.True(t, strings.HasPrefix(rr.Body.String(), `data: {"type":"test","message":"Stream started"}`+"\n\n"))
	})

	t.Run("Success - Invalid tool arguments still reach the terminal frame", func(t *testing.T) {
		handler, mockAgent := setupAgentHandler(t)
		full := ""
		mockAgent.On("HandleChat", mock.Anything, "sid-1", mock.Anything, mock.Anything).Run(sendFrames(3,
			model.Frame{Type: model.FrameTest, Message: "Stream started"},
			model.Frame{Type: model.FrameToolCall, Tool: "search_articles", Arguments: json.RawMessage(`{broken`)},
			model.Frame{Type: model.FrameToolResult, Tool: "search_articles", Result: "Error searching articles"},
			model.Frame{Type: model.FrameDone, FullResponse: &full},
		)).Once()

		req := withSession(httptest.NewRequest(http.MethodPost, "/agent/chat", strings.NewReader(`{"message":"hi"}`)), "sid-1")
		rr := httptest.NewRecorder()

		handler.HandleChat(rr, req)

		frames := parseFrames(t, rr.Body.String())
		require.Len(t, frames, 4)
		assert.Equal(t, model.FrameToolCall, frames[1].Type)
		assert.JSONEq(t, `"{broken"`, string(frames[1].Arguments))
		assert.Equal(t, model.FrameDone, frames[3].Type)
	})

	t.Run("Failure - Validation happens before streaming", func(t *testing.T) {
		cases := map[string]string{
			"missing message":   `{"history":[]}`,
			"empty message":     `{"message":""}`,
			"message too long":  `{"message":"` + strings.Repeat("a", 2001) + `"}`,
			"history role":      `{"message":"hi","history":[{"content":"x"}]}`,
			"malformed payload": `{"message":`,
		}
		for name, body := range cases {
			t.Run(name, func(t *testing.T) {
				handler, _ := setupAgentHandler(t)
				req := withSession(httptest.NewRequest(http.MethodPost, "/agent/chat", strings.NewReader(body)), "sid")
				rr := httptest.NewRecorder()

				handler.HandleChat(rr, req)

				assert.Equal(t, http.StatusBadRequest, rr.Code)
				assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
				assert.Contains(t, rr.Body.String(), `"error"`)
			})
		}
	})

	t.Run("Success - Message of exactly 2000 characters is accepted", func(t *testing.T) {
		handler, mockAgent := setupAgentHandler(t)
		mockAgent.On("HandleChat", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Run(sendFrames(3, model.Frame{Type: model.FrameError, Error: "upstream down"})).Once()

		body := `{"message":"` + strings.Repeat("a", 2000) + `"}`
		req := withSession(httptest.NewRequest(http.MethodPost, "/agent/chat", strings.NewReader(body)), "sid")
		rr := httptest.NewRecorder()

		handler.HandleChat(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "stream failures keep the 200 status")
		frames := parseFrames(t, rr.Body.String())
		require.Len(t, frames, 1)
		assert.Equal(t, "upstream down", frames[0].Error)
	})
}
