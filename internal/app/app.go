package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"article-agent/backend/internal/api"
	"article-agent/backend/internal/config"
	"article-agent/backend/internal/database"
	"article-agent/backend/internal/llm"
	"article-agent/backend/internal/model"
	"article-agent/backend/internal/observability"
	"article-agent/backend/internal/repository"
	"article-agent/backend/internal/service"
	"article-agent/backend/internal/session"
	"article-agent/backend/internal/tool"
)

const (
	limiterPruneInterval = 5 * time.Minute
	limiterMaxIdle       = 30 * time.Minute
	shutdownTimeout      = 15 * time.Second
)

// App holds the wired dependencies of a running server.
type App struct {
	DB      *sql.DB
	Server  *http.Server
	Limiter *api.SessionLimiter
}

func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)

	logConfigSource()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.Setup(ctx, cfg.TelemetryURL, cfg.TelemetryInsecure)
	if err != nil {
		slog.Error("Failed to set up tracing", "error", err)
		return 1
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Warn("Failed to flush traces", "error", err)
		}
	}()

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer func() {
		if err := app.DB.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	if cfg.SeedDatabase {
		if err := database.Seed(ctx, app.DB); err != nil {
			slog.Error("Failed to seed database", "error", err)
			return 1
		}
	}

	go app.Limiter.RunPruner(ctx, limiterPruneInterval, limiterMaxIdle)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", cfg.AppPort)
		serveErr <- app.Server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			return 1
		}
	case <-ctx.Done():
		slog.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.Server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
			return 1
		}
	}

	return 0
}

// NewApp opens the database and wires every service and handler behind an
// unstarted HTTP server.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("Successfully connected to SQLite database.")

	catalogue := llm.DefaultCatalogue()
	if cfg.ModelsFile != "" {
		catalogue, err = llm.LoadCatalogue(cfg.ModelsFile, model.Providers)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		slog.Info("Loaded model catalogue", "file", cfg.ModelsFile)
	}

	gateway := llm.NewGateway()
	gateway.Register(model.ProviderOpenAI, llm.NewOpenAI(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey))
	gateway.Register(model.ProviderOpenRouter, llm.NewOpenRouter(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey))
	logProviderKeys(cfg)

	repo := repository.NewSQLiteRepository(db)
	defaults := model.Selection{Provider: cfg.DefaultProvider, Model: cfg.DefaultModel}

	settingsService := service.NewSettingsService(session.NewSQLiteStore(db), catalogue, defaults)
	agentService := service.NewAgentService(settingsService, gateway, tool.NewArticleSearch(repo))
	demoService := service.NewDemoService(settingsService, gateway)
	modelService := service.NewModelService(catalogue, gateway)
	articleService := service.NewArticleService(repo)
	userService := service.NewUserService(repo)

	limiter := api.NewSessionLimiter(cfg.ChatRatePerMinute, cfg.ChatRateBurst)
	router := api.NewRouter(api.Handlers{
		Agent:     api.NewAgentHandler(agentService),
		Demo:      api.NewDemoHandler(demoService),
		Settings:  api.NewSettingsHandler(settingsService),
		Models:    api.NewModelHandler(modelService),
		Articles:  api.NewArticleHandler(articleService),
		Users:     userService,
		Limiter:   limiter,
		StaticDir: cfg.StaticDir,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}

	return &App{DB: db, Server: server, Limiter: limiter}, nil
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

// logProviderKeys warns about providers that will fail every request.
func logProviderKeys(cfg *config.Config) {
	if cfg.OpenAIAPIKey == "" {
		slog.Warn("OPENAI_API_KEY is not set; OpenAI requests will fail.")
	}
	if cfg.OpenRouterAPIKey == "" {
		slog.Warn("OPENROUTER_API_KEY is not set; OpenRouter requests will fail.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
