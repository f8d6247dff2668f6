package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"article-agent/backend/internal/model"
)

type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) GetUser(ctx context.Context, userID string) (*model.User, error) {
	query := "SELECT id, name, email, is_admin, created_at FROM users WHERE id = ?"
	var user model.User
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&user.ID, &user.Name, &user.Email, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *sqliteRepository) CreateArticle(ctx context.Context, a *model.Article) error {
	query := `
		INSERT INTO articles (id, user_id, title, slug, description, status, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.UserID, a.Title, a.Slug, a.Description, a.Status, a.Date.UTC(), a.CreatedAt.UTC(), a.UpdatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("could not insert article: %w", err)
	}
	return nil
}

func (r *sqliteRepository) GetArticle(ctx context.Context, articleID string) (*model.Article, error) {
	query := `
		SELECT id, user_id, title, slug, description, status, date, created_at, updated_at
		FROM articles WHERE id = ?
	`
	var a model.Article
	err := r.db.QueryRowContext(ctx, query, articleID).Scan(&a.ID, &a.UserID, &a.Title, &a.Slug, &a.Description, &a.Status, &a.Date, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *sqliteRepository) UpdateArticle(ctx context.Context, a *model.Article) error {
	query := `
		UPDATE articles SET title = ?, slug = ?, description = ?, status = ?, date = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query, a.Title, a.Slug, a.Description, a.Status, a.Date.UTC(), time.Now().UTC(), a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("could not update article: %w", err)
	}
	return expectOneRow(res)
}

func (r *sqliteRepository) DeleteArticle(ctx context.Context, articleID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM articles WHERE id = ?", articleID)
	if err != nil {
		return fmt.Errorf("could not delete article: %w", err)
	}
	return expectOneRow(res)
}

func (r *sqliteRepository) ListArticles(ctx context.Context, filter ListFilter) ([]model.ArticleWithAuthor, int, error) {
	where := ""
	var args []any
	if filter.UserID != "" {
		where = "WHERE a.user_id = ?"
		args = append(args, filter.UserID)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM articles a " + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("could not count articles: %w", err)
	}

	query := articleWithAuthorSelect + " " + where + " ORDER BY a.date DESC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	articles, err := scanArticlesWithAuthor(rows)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func (r *sqliteRepository) SearchArticles(ctx context.Context, c SearchCriteria) ([]model.ArticleWithAuthor, error) {
	var conditions []string
	var args []any
	if c.Status != "" {
		conditions = append(conditions, "a.status = ?")
		args = append(args, c.Status)
	}
	if c.Query != "" {
		pattern := "%" + escapeLike(strings.ToLower(c.Query)) + "%"
		// unicode_lower is registered by database.DriverName.
		conditions = append(conditions, `(unicode_lower(a.title) LIKE ? ESCAPE '\' OR unicode_lower(a.description) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	query := articleWithAuthorSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY a.date DESC LIMIT ?"
	args = append(args, c.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticlesWithAuthor(rows)
}

func (r *sqliteRepository) SlugExists(ctx context.Context, slug, excludeArticleID string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM articles WHERE slug = ? AND id != ?)"
	if err := r.db.QueryRowContext(ctx, query, slug, excludeArticleID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

const articleWithAuthorSelect = `
	SELECT a.id, a.user_id, a.title, a.slug, a.description, a.status, a.date, a.created_at, a.updated_at, u.name
	FROM articles a
	LEFT JOIN users u ON u.id = a.user_id`

func scanArticlesWithAuthor(rows *sql.Rows) ([]model.ArticleWithAuthor, error) {
	articles := []model.ArticleWithAuthor{}
	for rows.Next() {
		var a model.ArticleWithAuthor
		var author sql.NullString
		if err := rows.Scan(&a.ID, &a.UserID, &a.Title, &a.Slug, &a.Description, &a.Status, &a.Date, &a.CreatedAt, &a.UpdatedAt, &author); err != nil {
			return nil, err
		}
		if author.Valid {
			a.AuthorName = &author.String
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// escapeLike neutralises LIKE wildcards so user text is matched literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}
