package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	app_errors "article-agent/backend/internal/errors"
	"article-agent/backend/internal/model"
	"article-agent/backend/internal/repository"
)

const (
	articlesPerPage = 15
	dateLayout      = "2006-01-02"
	fallbackSlug    = "article"
)

// ArticleInput is the body for creating or updating an article.
type ArticleInput struct {
	Title       string `json:"title" validate:"required,max=255" example:"Streaming with SSE"`
	Description string `json:"description" validate:"required" example:"How the agent relays tokens to the browser."`
	Date        string `json:"date" validate:"required,datetime=2006-01-02" example:"2024-05-01"`
	Status      string `json:"status" validate:"required,oneof=draft published" example:"draft"`
}

// ArticleService holds the article business rules: admins see and edit every
// article, regular users only their own.
type ArticleService struct {
	repo repository.Repository
	now  func() time.Time
}

func NewArticleService(repo repository.Repository) *ArticleService {
	return &ArticleService{repo: repo, now: time.Now}
}

// List returns one page of articles visible to user, newest first. Pages start at 1.
func (s *ArticleService) List(ctx context.Context, user *model.User, page int) (*model.ArticlePage, error) {
	if page < 1 {
		page = 1
	}
	filter := repository.ListFilter{Limit: articlesPerPage, Offset: (page - 1) * articlesPerPage}
	if !user.IsAdmin {
		filter.UserID = user.ID
	}

	articles, total, err := s.repo.ListArticles(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("could not list articles: %w", err)
	}
	return &model.ArticlePage{Articles: articles, Page: page, PerPage: articlesPerPage, Total: total}, nil
}

// Create stores a new article owned by user.
func (s *ArticleService) Create(ctx context.Context, user *model.User, in *ArticleInput) (*model.Article, error) {
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	slug, err := s.uniqueSlug(ctx, in.Title, "")
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	article := &model.Article{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Title:       in.Title,
		Slug:        slug,
		Description: in.Description,
		Status:      in.Status,
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateArticle(ctx, article); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("slug %s: %w", slug, app_errors.ErrConflict)
		}
		return nil, fmt.Errorf("could not create article: %w", err)
	}
	slog.Info("Article created", "article_id", article.ID, "user_id", user.ID, "slug", slug)
	return article, nil
}

// Get returns the article when user may see it.
func (s *ArticleService) Get(ctx context.Context, user *model.User, articleID string) (*model.Article, error) {
	article, err := s.repo.GetArticle(ctx, articleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("article %s: %w", articleID, app_errors.ErrNotFound)
		}
		return nil, fmt.Errorf("could not get article: %w", err)
	}
	if !user.IsAdmin && article.UserID != user.ID {
		return nil, fmt.Errorf("article %s: %w", articleID, app_errors.ErrPermission)
	}
	return article, nil
}

// Update rewrites the article. The slug is only recomputed when the title changes.
func (s *ArticleService) Update(ctx context.Context, user *model.User, articleID string, in *ArticleInput) (*model.Article, error) {
	article, err := s.Get(ctx, user, articleID)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}

	if in.Title != article.Title {
		slug, err := s.uniqueSlug(ctx, in.Title, article.ID)
		if err != nil {
			return nil, err
		}
		article.Slug = slug
	}
	article.Title = in.Title
	article.Description = in.Description
	article.Status = in.Status
	article.Date = date
	article.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateArticle(ctx, article); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("article %s: %w", articleID, app_errors.ErrNotFound)
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("slug %s: %w", article.Slug, app_errors.ErrConflict)
		}
		return nil, fmt.Errorf("could not update article: %w", err)
	}
	return article, nil
}

// Delete removes the article when user may modify it.
func (s *ArticleService) Delete(ctx context.Context, user *model.User, articleID string) error {
	if _, err := s.Get(ctx, user, articleID); err != nil {
		return err
	}
	if err := s.repo.DeleteArticle(ctx, articleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("article %s: %w", articleID, app_errors.ErrNotFound)
		}
		return fmt.Errorf("could not delete article: %w", err)
	}
	slog.Info("Article deleted", "article_id", articleID, "user_id", user.ID)
	return nil
}

// uniqueSlug derives a slug from title and appends -1, -2, ... until no other
// article uses it.
func (s *ArticleService) uniqueSlug(ctx context.Context, title, excludeID string) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = fallbackSlug
	}
	slug := base
	for counter := 1; ; counter++ {
		exists, err := s.repo.SlugExists(ctx, slug, excludeID)
		if err != nil {
			return "", fmt.Errorf("could not check slug: %w", err)
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", app_errors.ErrValidation)
	}
	return date, nil
}
