package api

import (
	"net/http"

	"article-agent/backend/internal/interfaces"
	"article-agent/backend/internal/model"
	"article-agent/backend/internal/session"
)

// SaveSettingsRequest is the DTO for changing the session's provider and model.
type SaveSettingsRequest struct {
	Provider string `json:"provider" validate:"required,oneof=OpenAI OpenRouter" example:"OpenRouter"`
	Model    string `json:"model" validate:"required" example:"qwen/qwen3-235b-a22b:free"`
}

// SettingsHandler serves the provider/model selection.
type SettingsHandler struct {
	settings interfaces.SettingsService
}

func NewSettingsHandler(settings interfaces.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetSettings godoc
// @Summary      Get AI settings
// @Description  Returns the session's provider/model selection and the models that can be picked.
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  service.SettingsResponse
// @Router       /ai/settings [get]
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.settings.Get(r.Context(), session.IDFromContext(r.Context())))
}

// SaveSettings godoc
// @Summary      Save AI settings
// @Description  Stores the provider/model pair used by the agent and the demos for this session.
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        settings  body      SaveSettingsRequest  true  "Provider and model"
// @Success      200       {object}  StatusResponse
// @Failure      400       {object}  ErrorResponse
// @Failure      500       {object}  ErrorResponse
// @Router       /ai/settings [post]
func (h *SettingsHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var req SaveSettingsRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	sel := model.Selection{Provider: req.Provider, Model: req.Model}
	if err := h.settings.Save(r.Context(), session.IDFromContext(r.Context()), sel); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "Settings saved successfully!"})
}
