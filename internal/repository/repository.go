package repository

import (
	"context"

	"article-agent/backend/internal/model"
)

// ListFilter narrows an article listing. An empty UserID lists every owner.
type ListFilter struct {
	UserID string
	Limit  int
	Offset int
}

// SearchCriteria drives the article lookup exposed to the model. Status is
// either a concrete status or empty for all; Query is matched case-insensitively
// against title and description.
type SearchCriteria struct {
	Query  string
	Status string
	Limit  int
}

// Repository defines the data storage operations for users and articles.
type Repository interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)

	CreateArticle(ctx context.Context, article *model.Article) error
	GetArticle(ctx context.Context, articleID string) (*model.Article, error)
	UpdateArticle(ctx context.Context, article *model.Article) error
	DeleteArticle(ctx context.Context, articleID string) error
	ListArticles(ctx context.Context, filter ListFilter) ([]model.ArticleWithAuthor, int, error)
	SearchArticles(ctx context.Context, criteria SearchCriteria) ([]model.ArticleWithAuthor, error)
	SlugExists(ctx context.Context, slug, excludeArticleID string) (bool, error)
}
