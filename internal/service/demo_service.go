package service

import (
	"context"
	"fmt"
	"log/slog"

	"article-agent/backend/internal/llm"
	"article-agent/backend/internal/model"
)

// PromptRequest is the body of the text generation demo.
type PromptRequest struct {
	Prompt string `json:"prompt" validate:"required,max=1000" example:"Write a haiku about Go channels"`
}

// GenerateResult is the JSON reply of the text generation demo.
type GenerateResult struct {
	Success bool       `json:"success"`
	Text    string     `json:"text,omitempty"`
	Usage   *llm.Usage `json:"usage,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// DemoService sends bare prompts, without tools or history, to the session's
// selected model.
type DemoService struct {
	settings *SettingsService
	gateway  *llm.Gateway
}

func NewDemoService(settings *SettingsService, gateway *llm.Gateway) *DemoService {
	return &DemoService{settings: settings, gateway: gateway}
}

// GenerateText performs one non-streamed completion.
func (s *DemoService) GenerateText(ctx context.Context, sessionID, prompt string) (*llm.GenerateResponse, error) {
	sel := s.settings.Resolve(ctx, sessionID)
	provider, err := s.gateway.For(sel.Provider)
	if err != nil {
		return nil, err
	}

	resp, err := provider.Generate(ctx, &llm.GenerateRequest{Model: sel.Model, Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("text generation with %s/%s failed: %w", sel.Provider, sel.Model, err)
	}
	slog.Info("Generated text", "provider", sel.Provider, "model", sel.Model, "chars", len(resp.Text))
	return resp, nil
}

// StreamText streams a completion as delta frames followed by "done" or
// "error", then closes frames.
func (s *DemoService) StreamText(ctx context.Context, sessionID, prompt string, frames chan<- model.Frame) {
	defer close(frames)
	emit := channelEmitter(ctx, frames)

	sel := s.settings.Resolve(ctx, sessionID)
	provider, err := s.gateway.For(sel.Provider)
	if err != nil {
		fail(emit, "Streaming error", err)
		return
	}

	src, err := provider.Stream(ctx, &llm.GenerateRequest{Model: sel.Model, Prompt: prompt})
	if err != nil {
		fail(emit, "Streaming error", err)
		return
	}
	relay(src, emit, false)
}
