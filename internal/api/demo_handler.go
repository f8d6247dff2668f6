package api

import (
	"net/http"

	"article-agent/backend/internal/interfaces"
	"article-agent/backend/internal/model"
	"article-agent/backend/internal/service"
	"article-agent/backend/internal/session"
)

// DemoHandler serves the plain prompt demos.
type DemoHandler struct {
	demo interfaces.DemoService
}

func NewDemoHandler(demo interfaces.DemoService) *DemoHandler {
	return &DemoHandler{demo: demo}
}

// GenerateText godoc
// @Summary      Generate text
// @Description  Sends a single prompt to the session's selected model and returns the full answer.
// @Tags         Demo
// @Accept       json
// @Produce      json
// @Param        promptRequest  body      service.PromptRequest  true  "Prompt"
// @Success      200            {object}  service.GenerateResult
// @Failure      400            {object}  ErrorResponse
// @Failure      500            {object}  service.GenerateResult
// @Router       /openrouter/text/generate [post]
func (h *DemoHandler) GenerateText(w http.ResponseWriter, r *http.Request) {
	var req service.PromptRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	resp, err := h.demo.GenerateText(r.Context(), session.IDFromContext(r.Context()), req.Prompt)
	if err != nil {
		respondWithJSON(w, http.StatusInternalServerError, service.GenerateResult{Success: false, Error: service.ErrorMessage(err)})
		return
	}
	respondWithJSON(w, http.StatusOK, service.GenerateResult{Success: true, Text: resp.Text, Usage: resp.Usage})
}

// StreamText godoc
// @Summary      Stream generated text
// @Description  Streams the answer to a prompt as "delta" frames followed by "done" or "error".
// @Tags         Demo
// @Produce      text/event-stream
// @Param        prompt  query     string       true  "Prompt (max 1000 characters)"
// @Success      200     {object}  model.Frame  "Stream of frames"
// @Failure      400     {object}  ErrorResponse
// @Router       /openrouter/stream/generate [get]
func (h *DemoHandler) StreamText(w http.ResponseWriter, r *http.Request) {
	req := service.PromptRequest{Prompt: r.URL.Query().Get("prompt")}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	sessionID := session.IDFromContext(r.Context())
	streamFrames(w, r, func(frames chan<- model.Frame) {
		h.demo.StreamText(r.Context(), sessionID, req.Prompt, frames)
	})
}
