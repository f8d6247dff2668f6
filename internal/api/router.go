package api

import (
	"net/http"
	"os"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "article-agent/backend/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"article-agent/backend/internal/interfaces"
	"article-agent/backend/internal/session"
)

// Handlers bundles everything NewRouter wires into routes.
type Handlers struct {
	Agent    *AgentHandler
	Demo     *DemoHandler
	Settings *SettingsHandler
	Models   *ModelHandler
	Articles *ArticleHandler

	Users   interfaces.UserService
	Limiter *SessionLimiter
	// StaticDir, when it exists, is served for every unmatched path.
	StaticDir string
}

// @title           Article Agent API
// @version         1.0
// @description     Article management with an LLM agent that can search the articles.
// @BasePath        /

// NewRouter creates and configures a new chi router with all the application's routes.
func NewRouter(h Handlers) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// --- Public Routes ---
	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// --- Session-scoped LLM Routes ---
	r.Group(func(r chi.Router) {
		r.Use(session.Middleware)

		// Plain JSON routes get a request timeout.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/ai/settings", h.Settings.GetSettings)
			r.Post("/ai/settings", h.Settings.SaveSettings)
			r.Get("/ai/models", h.Models.HandleListModels)
			r.Get("/ai/models/{provider}", h.Models.HandleProviderModels)
		})

		// Upstream calls are rate limited per session and must NOT have a
		// timeout, as streams hold the connection open for as long as the
		// model keeps talking.
		r.Group(func(r chi.Router) {
			if h.Limiter != nil {
				r.Use(h.Limiter.Middleware)
			}

			r.Post("/agent/chat", h.Agent.HandleChat)
			r.Post("/openrouter/text/generate", h.Demo.GenerateText)
			r.Get("/openrouter/stream/generate", h.Demo.StreamText)
		})
	})

	// --- Article Routes ---
	r.Route("/articles", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Use(RequireUser(h.Users))

		r.Get("/", h.Articles.ListArticles)
		r.Post("/", h.Articles.CreateArticle)
		r.Get("/{articleID}", h.Articles.GetArticle)
		r.Put("/{articleID}", h.Articles.UpdateArticle)
		r.Delete("/{articleID}", h.Articles.DeleteArticle)
	})

	// --- Frontend File Server ---
	if h.StaticDir != "" {
		if info, err := os.Stat(h.StaticDir); err == nil && info.IsDir() {
			fileServer := http.FileServer(http.Dir(h.StaticDir))
			r.Handle("/*", http.StripPrefix("/", fileServer))
		}
	}

	return r
}
