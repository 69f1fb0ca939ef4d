// Package store persists completed outlines in SQLite. One row per
// document, one row per heading, plus a content-hash index used to skip
// re-ingesting identical files.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dgallion1/outliner/internal/outline"
	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS documents (
	doc_id        TEXT PRIMARY KEY,
	filename      TEXT NOT NULL,
	title         TEXT NOT NULL DEFAULT '',
	content_hash  TEXT NOT NULL,
	script        TEXT NOT NULL DEFAULT 'latin',
	page_count    INTEGER NOT NULL DEFAULT 0,
	heading_count INTEGER NOT NULL DEFAULT 0,
	created_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_documents_hash ON documents(content_hash);

CREATE TABLE IF NOT EXISTS headings (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	doc_id TEXT NOT NULL,
	seq    INTEGER NOT NULL,
	level  TEXT NOT NULL,
	text   TEXT NOT NULL,
	page   INTEGER NOT NULL,
	FOREIGN KEY (doc_id) REFERENCES documents(doc_id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_headings_doc ON headings(doc_id, seq);
`

// ErrNotFound is returned when a document ID has no stored outline.
var ErrNotFound = errors.New("document not found")

// DocumentMeta describes one stored document.
type DocumentMeta struct {
	DocID        string    `json:"doc_id"`
	Filename     string    `json:"filename"`
	Title        string    `json:"title"`
	ContentHash  string    `json:"content_hash"`
	Script       string    `json:"script"`
	PageCount    int       `json:"page_count"`
	HeadingCount int       `json:"heading_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a document's outline, replacing any previous outline for the
// same doc ID.
func (s *Store) Save(ctx context.Context, meta DocumentMeta, out outline.Outline) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (doc_id, filename, title, content_hash, script, page_count, heading_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(doc_id) DO UPDATE SET
			filename = excluded.filename,
			title = excluded.title,
			content_hash = excluded.content_hash,
			script = excluded.script,
			page_count = excluded.page_count,
			heading_count = excluded.heading_count`,
		meta.DocID, meta.Filename, out.Title, meta.ContentHash, meta.Script,
		meta.PageCount, len(out.Outline))
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM headings WHERE doc_id = ?`, meta.DocID); err != nil {
		return fmt.Errorf("clear headings: %w", err)
	}
	for i, e := range out.Outline {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO headings (doc_id, seq, level, text, page)
			VALUES (?, ?, ?, ?, ?)`,
			meta.DocID, i, string(e.Level), e.Text, e.Page)
		if err != nil {
			return fmt.Errorf("insert heading %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Get returns a stored outline by document ID.
func (s *Store) Get(ctx context.Context, docID string) (DocumentMeta, outline.Outline, error) {
	var meta DocumentMeta
	err := s.db.QueryRowContext(ctx, `
		SELECT doc_id, filename, title, content_hash, script, page_count, heading_count, created_at
		FROM documents WHERE doc_id = ?`, docID).
		Scan(&meta.DocID, &meta.Filename, &meta.Title, &meta.ContentHash,
			&meta.Script, &meta.PageCount, &meta.HeadingCount, &meta.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return DocumentMeta{}, outline.Outline{}, ErrNotFound
	}
	if err != nil {
		return DocumentMeta{}, outline.Outline{}, fmt.Errorf("query document: %w", err)
	}

	out := outline.Empty()
	out.Title = meta.Title

	rows, err := s.db.QueryContext(ctx, `
		SELECT level, text, page FROM headings
		WHERE doc_id = ? ORDER BY seq`, docID)
	if err != nil {
		return DocumentMeta{}, outline.Outline{}, fmt.Errorf("query headings: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e outline.Entry
		var level string
		if err := rows.Scan(&level, &e.Text, &e.Page); err != nil {
			return DocumentMeta{}, outline.Outline{}, fmt.Errorf("scan heading: %w", err)
		}
		e.Level = outline.Level(level)
		out.Outline = append(out.Outline, e)
	}
	if err := rows.Err(); err != nil {
		return DocumentMeta{}, outline.Outline{}, fmt.Errorf("iterate headings: %w", err)
	}

	return meta, out, nil
}

// List returns stored document metadata, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]DocumentMeta, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc_id, filename, title, content_hash, script, page_count, heading_count, created_at
		FROM documents ORDER BY created_at DESC, doc_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := make([]DocumentMeta, 0, limit)
	for rows.Next() {
		var m DocumentMeta
		if err := rows.Scan(&m.DocID, &m.Filename, &m.Title, &m.ContentHash,
			&m.Script, &m.PageCount, &m.HeadingCount, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, m)
	}
	return docs, rows.Err()
}

// Delete removes a document and its headings. Deleting an unknown ID is not
// an error.
func (s *Store) Delete(ctx context.Context, docID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE doc_id = ?`, docID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// FindByHash returns the ID of a document already stored with the given
// content hash, or "" when none exists.
func (s *Store) FindByHash(ctx context.Context, hash string) (string, error) {
	var docID string
	err := s.db.QueryRowContext(ctx, `
		SELECT doc_id FROM documents WHERE content_hash = ? LIMIT 1`, hash).Scan(&docID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query by hash: %w", err)
	}
	return docID, nil
}
