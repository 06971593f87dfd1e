// Package store persists review documents in SQLite.
//
// It opens the database with the production-safe pragmas applied via EXEC
// (driver-agnostic):
//
//	foreign_keys = ON
//	journal_mode = WAL
//	busy_timeout = 10000
//	synchronous  = NORMAL
//
// The Store satisfies page.Source and page.Sink, so a review session can
// load from and save to it directly.
//
// Usage:
//
//	import _ "modernc.org/sqlite"
//	st, err := store.Open("redline.db")
//
// In tests:
//
//	st := store.OpenMemory(t)
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"redline/idgen"
	"redline/page"
)

// ErrNotFound reports a lookup for a document that does not exist.
var ErrNotFound = errors.New("store: document not found")

const schema = `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'draft',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
	CREATE INDEX IF NOT EXISTS idx_documents_updated ON documents(updated_at);
`

// Store is a SQLite-backed document repository.
type Store struct {
	db    *sql.DB
	newID idgen.Generator
	now   func() time.Time
}

type config struct {
	driver      string
	busyTimeout int
	mkdirAll    bool
	newID       idgen.Generator
	now         func() time.Time
}

func defaults() config {
	return config{
		driver:      "sqlite",
		busyTimeout: 10_000,
		newID:       idgen.Prefixed("doc_", idgen.NanoID(12)),
		now:         time.Now,
	}
}

// Option customises Open behaviour.
type Option func(*config)

// WithDriver sets the database/sql driver name. Default: "sqlite".
func WithDriver(name string) Option { return func(c *config) { c.driver = name } }

// WithBusyTimeout sets PRAGMA busy_timeout in milliseconds. Default: 10000.
func WithBusyTimeout(ms int) Option { return func(c *config) { c.busyTimeout = ms } }

// WithMkdirAll creates parent directories of the database path before opening.
func WithMkdirAll() Option { return func(c *config) { c.mkdirAll = true } }

// WithIDGenerator sets the generator for IDs of documents stored without one.
func WithIDGenerator(g idgen.Generator) Option { return func(c *config) { c.newID = g } }

// WithClock sets the timestamp source. Used by tests.
func WithClock(now func() time.Time) Option { return func(c *config) { c.now = now } }

// Open opens (creating if needed) the document database at path.
// The caller must blank-import the driver:
//
//	import _ "modernc.org/sqlite"
func Open(path string, opts ...Option) (*Store, error) {
	cfg := defaults()
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.mkdirAll && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: mkdir: %w", err)
		}
	}

	db, err := sql.Open(cfg.driver, path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.busyTimeout),
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: exec schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	return &Store{db: db, newID: cfg.newID, now: cfg.now}, nil
}

// OpenMemory opens an in-memory store for testing. It sets MaxOpenConns(1)
// so every query hits the same in-memory database (each connection to
// ":memory:" creates a separate one) and registers t.Cleanup to close it.
func OpenMemory(t testing.TB, opts ...Option) *Store {
	t.Helper()
	st, err := Open(":memory:", opts...)
	if err != nil {
		t.Fatalf("store.OpenMemory: %v", err)
	}
	st.db.SetMaxOpenConns(1)
	t.Cleanup(func() { st.Close() })
	return st
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying handle for migrations and diagnostics.
func (s *Store) DB() *sql.DB { return s.db }

// Get retrieves one document by ID. Returns ErrNotFound if absent.
func (s *Store) Get(ctx context.Context, id string) (page.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, content, status FROM documents WHERE id = ?
	`, id)

	var doc page.Document
	err := row.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return page.Document{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return page.Document{}, fmt.Errorf("store: get %s: %w", id, err)
	}
	return doc, nil
}

// Put inserts or updates a document. A document without an ID gets a
// generated one; the stored document is returned either way.
func (s *Store) Put(ctx context.Context, doc page.Document) (page.Document, error) {
	if doc.ID == "" {
		doc.ID = s.newID()
	}
	if doc.Status == "" {
		doc.Status = page.StatusDraft
	}
	now := s.now().Unix()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, content, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			status = excluded.status,
			updated_at = excluded.updated_at
	`, doc.ID, doc.Title, doc.Content, doc.Status, now, now)
	if err != nil {
		return page.Document{}, fmt.Errorf("store: put %s: %w", doc.ID, err)
	}
	return doc, nil
}

// Delete removes a document. Returns ErrNotFound if absent.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// ListEntry is one row of a document listing; content is omitted to keep
// listings cheap.
type ListEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// List returns document entries newest-first. An empty status matches all.
func (s *Store) List(ctx context.Context, status string, limit int) ([]ListEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT id, title, status, updated_at FROM documents`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY updated_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	var out []ListEntry
	for rows.Next() {
		var e ListEntry
		var updated int64
		if err := rows.Scan(&e.ID, &e.Title, &e.Status, &updated); err != nil {
			return nil, fmt.Errorf("store: list scan: %w", err)
		}
		e.UpdatedAt = time.Unix(updated, 0)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Load implements page.Source.
func (s *Store) Load(ctx context.Context, id string) (page.Document, error) {
	return s.Get(ctx, id)
}

// Save implements page.Sink.
func (s *Store) Save(ctx context.Context, doc page.Document) error {
	_, err := s.Put(ctx, doc)
	return err
}
