package api

import (
	"log/slog"
	"net/http"

	"article-agent/backend/internal/interfaces"
	"article-agent/backend/internal/model"
	"article-agent/backend/internal/service"
	"article-agent/backend/internal/session"
)

// AgentHandler serves the streaming agent chat.
type AgentHandler struct {
	agent interfaces.AgentService
}

func NewAgentHandler(agent interfaces.AgentService) *AgentHandler {
	return &AgentHandler{agent: agent}
}

// HandleChat godoc
// @Summary      Chat with the article agent
// @Description  Streams one agent turn as server-sent events. The first frame is {"type":"test"}; the stream ends with exactly one "done" or "error" frame. The model may call the search_articles tool, which shows up as tool_call/tool_result frames.
// @Tags         Agent
// @Accept       json
// @Produce      text/event-stream
// @Param        chatRequest  body      service.ChatRequest  true  "Message and recent history"
// @Success      200          {object}  model.Frame          "Stream of frames"
// @Failure      400          {object}  ErrorResponse
// @Failure      429          {object}  ErrorResponse
// @Router       /agent/chat [post]
func (h *AgentHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req service.ChatRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	sessionID := session.IDFromContext(r.Context())
	slog.Info("Agent chat request received", "session_id", sessionID, "message_length", len(req.Message))

	streamFrames(w, r, func(frames chan<- model.Frame) {
		h.agent.HandleChat(r.Context(), sessionID, &req, frames)
	})
	slog.Info("Finished agent stream.", "session_id", sessionID)
}
