package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"article-agent/backend/internal/database"
	"article-agent/backend/internal/session"
)

func storeContract(t *testing.T, store session.Store) {
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "s1", "provider")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "s1", map[string]string{"provider": "OpenAI", "model": "gpt-4o-mini"}))
	require.NoError(t, store.Set(ctx, "s1", map[string]string{"model": "gpt-3.5-turbo"}))

	v, ok, err := store.Get(ctx, "s1", "provider")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "OpenAI", v)

	v, _, err = store.Get(ctx, "s1", "model")
	require.NoError(t, err)
	assert.Equal(t, "gpt-3.5-turbo", v)

	_, ok, err = store.Get(ctx, "s2", "provider")
	require.NoError(t, err)
	assert.False(t, ok, "sessions must not leak into each other")

	require.NoError(t, store.Destroy(ctx, "s1"))
	_, ok, err = store.Get(ctx, "s1", "provider")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, session.NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	db, err := database.InitDB(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	storeContract(t, session.NewSQLiteStore(db))
}

func TestMiddleware(t *testing.T) {
	var seen string
	handler := session.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = session.IDFromContext(r.Context())
	}))

	t.Run("Issues a cookie when none is sent", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, session.CookieName, cookies[0].Name)
		assert.Equal(t, cookies[0].Value, seen)
	})

	t.Run("Reuses a valid cookie", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: id})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Empty(t, rr.Result().Cookies())
		assert.Equal(t, id, seen)
	})

	t.Run("Replaces a malformed cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "not-a-uuid"})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.NotEqual(t, "not-a-uuid", seen)
		assert.Len(t, rr.Result().Cookies(), 1)
	})
}
