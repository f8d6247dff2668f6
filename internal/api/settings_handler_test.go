package api_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"article-agent/backend/internal/api"
	app_errors "article-agent/backend/internal/errors"
	"article-agent/backend/internal/interfaces/mocks"
	"article-agent/backend/internal/llm"
	"article-agent/backend/internal/model"
	"article-agent/backend/internal/service"
)

func setupSettingsHandler(t *testing.T) (*api.SettingsHandler, *mocks.MockSettingsService) {
	mockSettings := mocks.NewMockSettingsService(t)
	return api.NewSettingsHandler(mockSettings), mockSettings
}

func TestSettingsHandler_GetSettings(t *testing.T) {
	handler, mockSettings := setupSettingsHandler(t)
	expected := &service.SettingsResponse{
		Current:   model.Selection{Provider: "OpenAI", Model: "gpt-4o-mini"},
		Catalogue: llm.DefaultCatalogue(),
	}
	mockSettings.On("Get", mock.Anything, "sid").Return(expected).Once()

	req := withSession(httptest.NewRequest(http.MethodGet, "/ai/settings", nil), "sid")
	rr := httptest.NewRecorder()

	handler.GetSettings(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp service.SettingsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, expected.Current, resp.Current)
	assert.Equal(t, expected.Catalogue, resp.Catalogue)
}

func TestSettingsHandler_SaveSettings(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockSettings := setupSettingsHandler(t)
		sel := model.Selection{Provider: "OpenRouter", Model: "qwen/qwen3-235b-a22b:free"}
		mockSettings.On("Save", mock.Anything, "sid", sel).Return(nil).Once()

		req := withSession(httptest.NewRequest(http.MethodPost, "/ai/settings",
			strings.NewReader(`{"provider":"OpenRouter","model":"qwen/qwen3-235b-a22b:free"}`)), "sid")
		rr := httptest.NewRecorder()

		handler.SaveSettings(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"Settings saved successfully!"}`, rr.Body.String())
	})

	t.Run("Failure - Validation", func(t *testing.T) {
		cases := map[string]string{
			"unknown provider": `{"provider":"Anthropic","model":"claude"}`,
			"missing model":    `{"provider":"OpenAI"}`,
			"not json":         `provider=OpenAI`,
		}
		for name, body := range cases {
			t.Run(name, func(t *testing.T) {
				handler, _ := setupSettingsHandler(t)
				req := withSession(httptest.NewRequest(http.MethodPost, "/ai/settings", strings.NewReader(body)), "sid")
				rr := httptest.NewRecorder()

				handler.SaveSettings(rr, req)

				assert.Equal(t, http.StatusBadRequest, rr.Code)
			})
		}
	})

	t.Run("Failure - Service rejects the model", func(t *testing.T) {
		handler, mockSettings := setupSettingsHandler(t)
		mockSettings.On("Save", mock.Anything, "sid", mock.Anything).
			Return(fmt.Errorf("%w: model must not be empty", app_errors.ErrValidation)).Once()

		req := withSession(httptest.NewRequest(http.MethodPost, "/ai/settings", strings.NewReader(`{"provider":"OpenAI","model":" "}`)), "sid")
		rr := httptest.NewRecorder()

		handler.SaveSettings(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "model must not be empty")
	})

	t.Run("Failure - Store error", func(t *testing.T) {
		handler, mockSettings := setupSettingsHandler(t)
		mockSettings.On("Save", mock.Anything, "sid", mock.Anything).Return(errors.New("database is locked")).Once()

		req := withSession(httptest.NewRequest(http.MethodPost, "/ai/settings", strings.NewReader(`{"provider":"OpenAI","model":"gpt-4o"}`)), "sid")
		rr := httptest.NewRecorder()

		handler.SaveSettings(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "locked")
	})
}
