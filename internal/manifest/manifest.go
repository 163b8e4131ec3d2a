// Package manifest records which documents have been chunked, so unchanged
// inputs can be skipped on the next run.
package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Entry is the record of one processed document.
type Entry struct {
	Filename    string    `json:"filename"`
	ContentHash string    `json:"content_hash"`
	Title       string    `json:"title"`
	Units       int       `json:"units"`
	OverBudget  bool      `json:"over_budget"`
	OutputPath  string    `json:"output_path"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Store is a SQLite-backed manifest.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	filename     TEXT PRIMARY KEY,
	content_hash TEXT NOT NULL,
	title        TEXT NOT NULL DEFAULT '',
	units        INTEGER NOT NULL DEFAULT 0,
	over_budget  INTEGER NOT NULL DEFAULT 0,
	output_path  TEXT NOT NULL DEFAULT '',
	processed_at TEXT NOT NULL
)`

// Open opens or creates the manifest database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating manifest directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	// Workers write concurrently; a single connection serializes them.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating documents table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the entry for filename, or nil if there is none.
func (s *Store) Get(ctx context.Context, filename string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT filename, content_hash, title, units, over_budget, output_path, processed_at
		FROM documents WHERE filename = ?`, filename)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", filename, err)
	}
	return e, nil
}

// Put inserts or replaces the entry for e.Filename.
func (s *Store) Put(ctx context.Context, e Entry) error {
	if e.ProcessedAt.IsZero() {
		e.ProcessedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (filename, content_hash, title, units, over_budget, output_path, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(filename) DO UPDATE SET
			content_hash = excluded.content_hash,
			title        = excluded.title,
			units        = excluded.units,
			over_budget  = excluded.over_budget,
			output_path  = excluded.output_path,
			processed_at = excluded.processed_at`,
		e.Filename, e.ContentHash, e.Title, e.Units, boolToInt(e.OverBudget), e.OutputPath,
		e.ProcessedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving %s: %w", e.Filename, err)
	}
	return nil
}

// List returns all entries ordered by filename.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT filename, content_hash, title, units, over_budget, output_path, processed_at
		FROM documents ORDER BY filename`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// Delete removes the entry for filename and reports whether it existed.
func (s *Store) Delete(ctx context.Context, filename string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE filename = ?`, filename)
	if err != nil {
		return false, fmt.Errorf("deleting %s: %w", filename, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var (
		e          Entry
		overBudget int
		processed  string
	)
	if err := row.Scan(&e.Filename, &e.ContentHash, &e.Title, &e.Units, &overBudget, &e.OutputPath, &processed); err != nil {
		return nil, err
	}
	e.OverBudget = overBudget != 0
	t, err := time.Parse(time.RFC3339Nano, processed)
	if err != nil {
		return nil, fmt.Errorf("parsing processed_at %q: %w", processed, err)
	}
	e.ProcessedAt = t
	return &e, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
