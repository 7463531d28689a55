package mappings

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages mapping persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

// Open initializes or connects to the mapping database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// UpsertBatch writes a batch of mappings in one transaction. Later writes win:
// an external key already present is overwritten with the new library key and
// metadata. An empty batch is a no-op.
func (s *Store) UpsertBatch(ctx context.Context, batch []Mapping) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store not open")
	}
	if len(batch) == 0 {
		return nil
	}
	ctx = ensureContext(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO library_mappings (external_key, library_key, media_kind, title, year, last_seen_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(external_key) DO UPDATE SET
			library_key = excluded.library_key,
			media_kind = excluded.media_kind,
			title = excluded.title,
			year = excluded.year,
			last_seen_at = excluded.last_seen_at`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, m := range batch {
		if m.ExternalKey == "" || m.LibraryKey == "" {
			continue
		}
		seen := m.LastSeenAt
		if seen.IsZero() {
			seen = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx,
			m.ExternalKey, m.LibraryKey, m.MediaKind, m.Title, m.Year,
			seen.UTC().Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("upsert mapping %s: %w", m.ExternalKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

// Get returns the mapping for an external key, or nil when absent.
func (s *Store) Get(ctx context.Context, externalKey string) (*Mapping, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store not open")
	}
	ctx = ensureContext(ctx)

	row := s.db.QueryRowContext(ctx, `
		SELECT external_key, library_key, media_kind, title, year, last_seen_at
		FROM library_mappings WHERE external_key = ?`, externalKey)

	var (
		m    Mapping
		seen string
	)
	err := row.Scan(&m.ExternalKey, &m.LibraryKey, &m.MediaKind, &m.Title, &m.Year, &seen)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query mapping: %w", err)
	}
	if ts, parseErr := time.Parse(time.RFC3339, seen); parseErr == nil {
		m.LastSeenAt = ts
	}
	return &m, nil
}

// Count returns the number of mapping rows.
func (s *Store) Count(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("store not open")
	}
	ctx = ensureContext(ctx)

	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM library_mappings").Scan(&count); err != nil {
		return 0, fmt.Errorf("count mappings: %w", err)
	}
	return count, nil
}

// CheckHealth verifies the database connection is usable.
func (s *Store) CheckHealth(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store not open")
	}
	return s.db.PingContext(ensureContext(ctx))
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
