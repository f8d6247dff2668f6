// Package session keeps small per-visitor values, such as the selected LLM
// provider, keyed by an opaque session ID carried in a cookie.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Store reads and writes string values scoped to a session.
type Store interface {
	// Get returns the value for key, and false when it was never set.
	Get(ctx context.Context, sessionID, key string) (string, bool, error)
	// Set writes every pair in values atomically.
	Set(ctx context.Context, sessionID string, values map[string]string) error
	// Destroy drops everything stored for the session.
	Destroy(ctx context.Context, sessionID string) error
}

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore returns a Store backed by the session_values table.
func NewSQLiteStore(db *sql.DB) Store {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM session_values WHERE session_id = ? AND key = ?", sessionID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("could not read session value: %w", err)
	}
	return value, true, nil
}

func (s *sqliteStore) Set(ctx context.Context, sessionID string, values map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO session_values (session_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("could not prepare session upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	for key, value := range values {
		if _, err := stmt.ExecContext(ctx, sessionID, key, value, now); err != nil {
			return fmt.Errorf("could not write session key %s: %w", key, err)
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) Destroy(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM session_values WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("could not destroy session: %w", err)
	}
	return nil
}

// MemoryStore is a process-local Store, used by tests and single-binary demos.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, sessionID, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[sessionID][key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, sessionID string, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.values[sessionID]
	if !ok {
		bucket = make(map[string]string, len(values))
		m.values[sessionID] = bucket
	}
	for k, v := range values {
		bucket[k] = v
	}
	return nil
}

func (m *MemoryStore) Destroy(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, sessionID)
	return nil
}
