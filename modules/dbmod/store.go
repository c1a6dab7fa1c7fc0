package dbmod

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
    component  TEXT NOT NULL,
    name       TEXT NOT NULL,
    body       TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    PRIMARY KEY (component, name)
);
`

// Document is one record in the mission's backing store.
type Document struct {
	Component string
	Name      string
	Body      string
	UpdatedAt time.Time
}

// Store is the sqlite-backed document store the db module provisions during
// pre-init. Other modules fetch it from the mission scope and read from it
// in their post-init entries.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store at path and ensures the schema exists.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mission store at %s: %w", path, err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize mission store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Put writes a document, replacing any previous body under the same
// (component, name).
func (s *Store) Put(ctx context.Context, component, name, body string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (component, name, body, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (component, name) DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at`,
		component, name, body, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to store document %s/%s: %w", component, name, err)
	}
	return nil
}

// Get reads a document body. The second return value reports whether the
// document exists.
func (s *Store) Get(ctx context.Context, component, name string) (string, bool, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE component = ? AND name = ?`,
		component, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read document %s/%s: %w", component, name, err)
	}
	return body, true, nil
}

// List returns a component's documents ordered by name.
func (s *Store) List(ctx context.Context, component string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT component, name, body, updated_at
		FROM documents WHERE component = ? ORDER BY name`,
		component)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents for %s: %w", component, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		var updated string
		if err := rows.Scan(&doc.Component, &doc.Name, &doc.Body, &updated); err != nil {
			return nil, err
		}
		doc.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
