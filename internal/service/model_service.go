package service

import (
	"fmt"

	app_errors "article-agent/backend/internal/errors"
	"article-agent/backend/internal/llm"
)

// ModelService answers questions about the configured providers and models.
type ModelService struct {
	catalogue *llm.Catalogue
	gateway   *llm.Gateway
}

// ProviderInfo describes one provider and whether a client is registered for it.
type ProviderInfo struct {
	Name      string            `json:"name"`
	Available bool              `json:"available"`
	Models    []llm.ModelOption `json:"models"`
}

func NewModelService(catalogue *llm.Catalogue, gateway *llm.Gateway) *ModelService {
	return &ModelService{catalogue: catalogue, gateway: gateway}
}

// List returns every catalogue provider with its models.
func (s *ModelService) List() []ProviderInfo {
	out := make([]ProviderInfo, 0, len(s.catalogue.Providers))
	for _, p := range s.catalogue.Providers {
		_, err := s.gateway.For(p.Name)
		out = append(out, ProviderInfo{Name: p.Name, Available: err == nil, Models: p.Models})
	}
	return out
}

// Models returns the models listed for provider.
func (s *ModelService) Models(provider string) ([]llm.ModelOption, error) {
	models := s.catalogue.Models(provider)
	if models == nil {
		return nil, fmt.Errorf("provider %q: %w", provider, app_errors.ErrNotFound)
	}
	return models, nil
}
