package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
)

var seedTopics = []string{
	"Getting started with Go modules",
	"Streaming responses over server-sent events",
	"Designing small HTTP services",
	"Working with SQLite in production",
	"Structured logging with slog",
	"Prompt design for tool calling",
	"Testing handlers with httptest",
	"Rate limiting public endpoints",
	"Migrating schemas safely",
	"Writing readable error messages",
	"Caching strategies for read-heavy APIs",
	"Observability with OpenTelemetry",
}

const seedDescription = "A practical walkthrough of %s, covering the trade-offs we met along the way, " +
	"the mistakes we made first, and the checklist we now follow before shipping anything similar to production."

// Seed fills an empty database with an admin, a test user, and ten regular users,
// each owning a handful of articles. It is a no-op when any user already exists.
func Seed(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("could not count users: %w", err)
	}
	if count > 0 {
		slog.Info("Database already has users, skipping seed.", "users", count)
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	seeder := &seeder{tx: tx, now: now}

	adminID, err := seeder.user(ctx, "Admin User", "admin@example.com", true)
	if err != nil {
		return err
	}
	if err := seeder.articles(ctx, adminID, 5); err != nil {
		return err
	}

	testID, err := seeder.user(ctx, "Test User", "test@example.com", false)
	if err != nil {
		return err
	}
	if err := seeder.articles(ctx, testID, 3); err != nil {
		return err
	}

	for i := 1; i <= 10; i++ {
		id, err := seeder.user(ctx, fmt.Sprintf("User %d", i), fmt.Sprintf("user%d@example.com", i), false)
		if err != nil {
			return err
		}
		if err := seeder.articles(ctx, id, 2+rand.IntN(4)); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit seed data: %w", err)
	}
	slog.Info("Seeded database.", "articles", seeder.created)
	return nil
}

type seeder struct {
	tx      *sql.Tx
	now     time.Time
	created int
}

func (s *seeder) user(ctx context.Context, name, email string, admin bool) (string, error) {
	id := uuid.NewString()
	_, err := s.tx.ExecContext(ctx,
		"INSERT INTO users (id, name, email, is_admin, created_at) VALUES (?, ?, ?, ?, ?)",
		id, name, email, admin, s.now)
	if err != nil {
		return "", fmt.Errorf("could not insert user %s: %w", email, err)
	}
	return id, nil
}

func (s *seeder) articles(ctx context.Context, userID string, n int) error {
	for i := 0; i < n; i++ {
		s.created++
		topic := seedTopics[rand.IntN(len(seedTopics))]
		status := "published"
		if rand.IntN(3) == 0 {
			status = "draft"
		}
		slug := fmt.Sprintf("%s-%d", strings.ToLower(strings.ReplaceAll(topic, " ", "-")), s.created)
		date := s.now.AddDate(0, 0, -rand.IntN(365))
		_, err := s.tx.ExecContext(ctx, `
			INSERT INTO articles (id, user_id, title, slug, description, status, date, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), userID, topic, slug, fmt.Sprintf(seedDescription, strings.ToLower(topic)),
			status, date, s.now, s.now)
		if err != nil {
			return fmt.Errorf("could not insert article: %w", err)
		}
	}
	return nil
}
