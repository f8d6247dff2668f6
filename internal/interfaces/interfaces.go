package interfaces

import (
	"context"

	"article-agent/backend/internal/llm"
	"article-agent/backend/internal/model"
	"article-agent/backend/internal/service"
)

// This file defines the interfaces for our core services.
// Handlers depend on these instead of the concrete services, which keeps the API
// layer decoupled and lets its tests use generated mocks.

// AgentService defines the contract for the tool-augmented agent chat.
type AgentService interface {
	HandleChat(ctx context.Context, sessionID string, req *service.ChatRequest, frames chan<- model.Frame)
}

// DemoService defines the contract for the plain text generation demos.
type DemoService interface {
	GenerateText(ctx context.Context, sessionID, prompt string) (*llm.GenerateResponse, error)
	StreamText(ctx context.Context, sessionID, prompt string, frames chan<- model.Frame)
}

// SettingsService defines the contract for the per-session provider/model selection.
type SettingsService interface {
	Get(ctx context.Context, sessionID string) *service.SettingsResponse
	Save(ctx context.Context, sessionID string, sel model.Selection) error
}

// ModelService defines the contract for listing configured providers and models.
type ModelService interface {
	List() []service.ProviderInfo
	Models(provider string) ([]llm.ModelOption, error)
}

// ArticleService defines the contract for article management.
type ArticleService interface {
	List(ctx context.Context, user *model.User, page int) (*model.ArticlePage, error)
	Create(ctx context.Context, user *model.User, in *service.ArticleInput) (*model.Article, error)
	Get(ctx context.Context, user *model.User, articleID string) (*model.Article, error)
	Update(ctx context.Context, user *model.User, articleID string, in *service.ArticleInput) (*model.Article, error)
	Delete(ctx context.Context, user *model.User, articleID string) error
}

// UserService defines the contract for resolving the caller's identity.
type UserService interface {
	Authenticate(ctx context.Context, userID string) (*model.User, error)
}
