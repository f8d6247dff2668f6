package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	app_errors "article-agent/backend/internal/errors"
	"article-agent/backend/internal/llm"
	"article-agent/backend/internal/model"
	"article-agent/backend/internal/session"
)

// Session keys holding the selection.
const (
	providerKey = "provider"
	modelKey    = "model"
)

// SettingsResponse is what the settings endpoint returns.
type SettingsResponse struct {
	Current   model.Selection `json:"current"`
	Catalogue *llm.Catalogue  `json:"catalogue"`
}

// SettingsService manages the provider/model pair a session talks to.
type SettingsService struct {
	store     session.Store
	catalogue *llm.Catalogue
	defaults  model.Selection
}

func NewSettingsService(store session.Store, catalogue *llm.Catalogue, defaults model.Selection) *SettingsService {
	return &SettingsService{store: store, catalogue: catalogue, defaults: defaults}
}

// Resolve returns the session's selection. When nothing usable is stored the
// defaults are persisted and returned; store faults are logged and never
// surface to the caller.
func (s *SettingsService) Resolve(ctx context.Context, sessionID string) model.Selection {
	provider, okProvider, err := s.store.Get(ctx, sessionID, providerKey)
	if err != nil {
		slog.Warn("Could not read provider from session, using defaults", "session_id", sessionID, "error", err)
		return s.defaults
	}
	selectedModel, okModel, err := s.store.Get(ctx, sessionID, modelKey)
	if err != nil {
		slog.Warn("Could not read model from session, using defaults", "session_id", sessionID, "error", err)
		return s.defaults
	}
	if okProvider && okModel && provider != "" && selectedModel != "" {
		return model.Selection{Provider: provider, Model: selectedModel}
	}

	if err := s.write(ctx, sessionID, s.defaults); err != nil {
		slog.Warn("Could not persist default selection", "session_id", sessionID, "error", err)
	} else {
		slog.Info("Initialized session selection with defaults", "session_id", sessionID, "provider", s.defaults.Provider, "model", s.defaults.Model)
	}
	return s.defaults
}

// Save validates sel and stores it. On validation failure the stored
// selection is left untouched.
func (s *SettingsService) Save(ctx context.Context, sessionID string, sel model.Selection) error {
	sel.Model = strings.TrimSpace(sel.Model)
	if !slices.Contains(model.Providers, sel.Provider) {
		return fmt.Errorf("%w: provider must be one of %s", app_errors.ErrValidation, strings.Join(model.Providers, ", "))
	}
	if sel.Model == "" {
		return fmt.Errorf("%w: model is required", app_errors.ErrValidation)
	}

	if err := s.write(ctx, sessionID, sel); err != nil {
		return fmt.Errorf("could not save selection: %w", err)
	}
	slog.Info("Saved session selection", "session_id", sessionID, "provider", sel.Provider, "model", sel.Model)
	return nil
}

// Get returns the current selection together with the catalogue.
func (s *SettingsService) Get(ctx context.Context, sessionID string) *SettingsResponse {
	return &SettingsResponse{Current: s.Resolve(ctx, sessionID), Catalogue: s.catalogue}
}

// Catalogue lists the models offered per provider.
func (s *SettingsService) Catalogue() *llm.Catalogue {
	return s.catalogue
}

func (s *SettingsService) write(ctx context.Context, sessionID string, sel model.Selection) error {
	return s.store.Set(ctx, sessionID, map[string]string{
		providerKey: sel.Provider,
		modelKey:    sel.Model,
	})
}
