package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"article-agent/backend/internal/database"
	"article-agent/backend/internal/model"
	"article-agent/backend/internal/repository"
)

func setupRepository(t *testing.T) (repository.Repository, *sql.DB) {
	db, err := database.InitDB(filepath.Join(t.TempDir(), "repo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repository.NewSQLiteRepository(db), db
}

func insertUser(t *testing.T, db *sql.DB, name string, admin bool) string {
	id := uuid.NewString()
	_, err := db.Exec("INSERT INTO users (id, name, email, is_admin, created_at) VALUES (?, ?, ?, ?, ?)",
		id, name, id+"@example.com", admin, time.Now().UTC())
	require.NoError(t, err)
	return id
}

func newArticle(userID, title, description, status string, date time.Time) *model.Article {
	now := time.Now().UTC()
	return &model.Article{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Slug:        uuid.NewString(),
		Description: description,
		Status:      status,
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestSQLiteRepository_GetUser(t *testing.T) {
	repo, db := setupRepository(t)
	ctx := context.Background()
	id := insertUser(t, db, "Ada", true)

	user, err := repo.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.True(t, user.IsAdmin)

	_, err = repo.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSQLiteRepository_ArticleLifecycle(t *testing.T) {
	repo, db := setupRepository(t)
	ctx := context.Background()
	owner := insertUser(t, db, "Owner", false)

	article := newArticle(owner, "First", "Body", model.StatusDraft, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	article.Slug = "first"
	require.NoError(t, repo.CreateArticle(ctx, article))

	got, err := repo.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", got.Title)
	assert.True(t, article.Date.Equal(got.Date))

	exists, err := repo.SlugExists(ctx, "first", "")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.SlugExists(ctx, "first", article.ID)
	require.NoError(t, err)
	assert.False(t, exists, "an article never conflicts with its own slug")

	twin := newArticle(owner, "First", "Copy", model.StatusDraft, article.Date)
	twin.Slug = "first"
	assert.ErrorIs(t, repo.CreateArticle(ctx, twin), repository.ErrDuplicate)

	got.Title = "Renamed"
	got.Status = model.StatusPublished
	require.NoError(t, repo.UpdateArticle(ctx, got))
	got, err = repo.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, model.StatusPublished, got.Status)

	require.NoError(t, repo.DeleteArticle(ctx, article.ID))
	_, err = repo.GetArticle(ctx, article.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteArticle(ctx, article.ID), repository.ErrNotFound)
}

func TestSQLiteRepository_ListArticles(t *testing.T) {
	repo, db := setupRepository(t)
	ctx := context.Background()
	alice := insertUser(t, db, "Alice", false)
	bob := insertUser(t, db, "Bob", false)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreateArticle(ctx, newArticle(alice, "A", "d", model.StatusDraft, base.AddDate(0, 0, i))))
	}
	require.NoError(t, repo.CreateArticle(ctx, newArticle(bob, "B", "d", model.StatusDraft, base)))

	all, total, err := repo.ListArticles(ctx, repository.ListFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, all, 4)

	own, total, err := repo.ListArticles(ctx, repository.ListFilter{UserID: alice, Limit: 2, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, own, 2)
	assert.True(t, own[0].Date.After(own[1].Date))
	require.NotNil(t, own[0].AuthorName)
	assert.Equal(t, "Alice", *own[0].AuthorName)
}

func TestSQLiteRepository_SearchArticles(t *testing.T) {
	repo, db := setupRepository(t)
	ctx := context.Background()
	owner := insertUser(t, db, "Writer", false)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fixtures := []struct {
		title, description, status string
	}{
		{"Go Concurrency", "channels and goroutines", model.StatusPublished},
		{"Laravel tips", "php things", model.StatusPublished},
		{"Draft on GO", "unfinished", model.StatusDraft},
		{"Cooking", "pasta with golden crust", model.StatusDraft},
		{"Gardening", "tomatoes", model.StatusPublished},
		{"100% coverage", "a myth", model.StatusPublished},
	}
	for i, f := range fixtures {
		require.NoError(t, repo.CreateArticle(ctx, newArticle(owner, f.title, f.description, f.status, base.AddDate(0, 0, i))))
	}

	t.Run("Query matches title or description case-insensitively", func(t *testing.T) {
		got, err := repo.SearchArticles(ctx, repository.SearchCriteria{Query: "go", Limit: 10})
		require.NoError(t, err)
		titles := make([]string, 0, len(got))
		for _, a := range got {
			titles = append(titles, a.Title)
		}
		assert.Equal(t, []string{"Cooking", "Draft on GO", "Go Concurrency"}, titles)
	})

	t.Run("Status filter", func(t *testing.T) {
		got, err := repo.SearchArticles(ctx, repository.SearchCriteria{Status: model.StatusDraft, Limit: 10})
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, a := range got {
			assert.Equal(t, model.StatusDraft, a.Status)
		}
	})

	t.Run("Limit and descending date order", func(t *testing.T) {
		got, err := repo.SearchArticles(ctx, repository.SearchCriteria{Limit: 4})
		require.NoError(t, err)
		require.Len(t, got, 4)
		for i := 1; i < len(got); i++ {
			assert.False(t, got[i].Date.After(got[i-1].Date))
		}
	})

	t.Run("Wildcards are matched literally", func(t *testing.T) {
		got, err := repo.SearchArticles(ctx, repository.SearchCriteria{Query: "%", Limit: 10})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "100% coverage", got[0].Title)
	})
}
