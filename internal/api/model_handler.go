package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"article-agent/backend/internal/interfaces"
)

// ModelHandler handles HTTP requests about providers and models.
type ModelHandler struct {
	service interfaces.ModelService
}

func NewModelHandler(svc interfaces.ModelService) *ModelHandler {
	return &ModelHandler{service: svc}
}

// HandleListModels godoc
// @Summary      List providers and models
// @Description  Lists every configured provider, whether a client is available for it, and its models.
// @Tags         Models
// @Produce      json
// @Success      200  {array}  service.ProviderInfo
// @Router       /ai/models [get]
func (h *ModelHandler) HandleListModels(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.service.List())
}

// HandleProviderModels godoc
// @Summary      List models of a provider
// @Tags         Models
// @Produce      json
// @Param        provider  path      string  true  "Provider name"
// @Success      200       {array}   llm.ModelOption
// @Failure      404       {object}  ErrorResponse
// @Router       /ai/models/{provider} [get]
func (h *ModelHandler) HandleProviderModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.service.Models(chi.URLParam(r, "provider"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, models)
}
