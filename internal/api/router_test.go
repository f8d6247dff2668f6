package api_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"article-agent/backend/internal/api"
	app_errors "article-agent/backend/internal/errors"
	"article-agent/backend/internal/interfaces/mocks"
	"article-agent/backend/internal/model"
	"article-agent/backend/internal/session"
)

type routerMocks struct {
	agent    *mocks.MockAgentService
	demo     *mocks.MockDemoService
	settings *mocks.MockSettingsService
	models   *mocks.MockModelService
	articles *mocks.MockArticleService
	users    *mocks.MockUserService
}

func setupRouter(t *testing.T, staticDir string) (http.Handler, *routerMocks) {
	m := &routerMocks{
		agent:    mocks.NewMockAgentService(t),
		demo:     mocks.NewMockDemoService(t),
		settings: mocks.NewMockSettingsService(t),
		models:   mocks.NewMockModelService(t),
		articles: mocks.NewMockArticleService(t),
		users:    mocks.NewMockUserService(t),
	}
	router := api.NewRouter(api.Handlers{
		Agent:     api.NewAgentHandler(m.agent),
		Demo:      api.NewDemoHandler(m.demo),
		Settings:  api.NewSettingsHandler(m.settings),
		Models:    api.NewModelHandler(m.models),
		Articles:  api.NewArticleHandler(m.articles),
		Users:     m.users,
		Limiter:   api.NewSessionLimiter(60, 1),
		StaticDir: staticDir,
	})
	return router, m
}

func TestRouter(t *testing.T) {
	t.Run("Health check", func(t *testing.T) {
		router, _ := setupRouter(t, "")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	})

	t.Run("Articles require a user", func(t *testing.T) {
		router, m := setupRouter(t, "")
		m.users.On("Authenticate", mock.Anything, "").Return(nil, app_errors.ErrUnauthenticated).Once()

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/articles", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Settings issue a session cookie", func(t *testing.T) {
		router, m := setupRouter(t, "")
		m.settings.On("Save", mock.Anything, mock.AnythingOfType("string"), model.Selection{Provider: "OpenAI", Model: "gpt-4o"}).Return(nil).Once()

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/ai/settings", strings.NewReader(`{"provider":"OpenAI","model":"gpt-4o"}`)))

		assert.Equal(t, http.StatusOK, rr.Code)
		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, session.CookieName, cookies[0].Name)
	})

	t.Run("Session cookie is reused", func(t *testing.T) {
		router, m := setupRouter(t, "")
		const sid = "0f5c1d5e-8a57-4a37-9f35-2b1e3b9f4d11"
		m.demo.On("StreamText", mock.Anything, sid, "hi", mock.Anything).
			Run(sendFrames(3, model.Frame{Type: model.FrameDone})).Once()

		req := httptest.NewRequest(http.MethodGet, "/openrouter/stream/generate?prompt=hi", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sid})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Result().Cookies())
		assert.Equal(t, "data: {\"type\":\"done\"}\n\n", rr.Body.String())
	})

	t.Run("LLM routes are rate limited", func(t *testing.T) {
		router, m := setupRouter(t, "")
		const sid = "6b0b7a4a-2f7e-4d0c-9a0e-3c9f3f0f8e21"
		m.demo.On("StreamText", mock.Anything, sid, "hi", mock.Anything).
			Run(sendFrames(3, model.Frame{Type: model.FrameDone})).Once()

		var codes []int
		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodGet, "/openrouter/stream/generate?prompt=hi", nil)
			req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sid})
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			codes = append(codes, rr.Code)
		}
		assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
	})

	t.Run("Static files are served", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>Articles</h1>"), 0o644))
		router, _ := setupRouter(t, dir)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/index.html", nil))

		// http.FileServer redirects /index.html to /.
		assert.Equal(t, http.StatusMovedPermanently, rr.Code)

		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Articles")
	})
}
