// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records which documents cite which bibliography entries in
// a SQLite database, so that citation usage can be queried and exported
// between runs.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/mdxcite/pkg/types"
)

const dbFile = "ledger.db"

// Store manages the ledger database.
type Store struct {
	db  *sql.DB
	dir string
}

// Open opens or creates the ledger at dir/ledger.db and creates the schema
// if it does not exist.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: dir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			path TEXT PRIMARY KEY,
			title TEXT,
			index_title TEXT,
			recorded_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS citations (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			doc_path TEXT NOT NULL REFERENCES documents(path) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			key TEXT NOT NULL,
			method TEXT NOT NULL,
			locator TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_key ON citations(key)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_doc ON citations(doc_path)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordSummary holds counts from a ledger update.
type RecordSummary struct {
	Recorded  int
	Citations int
	Skipped   int
	Failed    int
}

// Record replaces the ledger rows of every article in docs. Each document
// is written in its own transaction; a failed document is reported on w
// and does not stop the others.
func (s *Store) Record(ctx context.Context, docs []*types.DocumentContext, w io.Writer) (RecordSummary, error) {
	var summary RecordSummary
	for _, doc := range docs {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		if !doc.Meta.Article() {
			summary.Skipped++
			continue
		}
		if err := s.recordDocument(ctx, doc); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", doc.Path, err)
			summary.Failed++
			continue
		}
		summary.Recorded++
		summary.Citations += len(doc.Resolved)
	}
	fmt.Fprintf(w, "ledger: %d documents, %d citations recorded\n", summary.Recorded, summary.Citations)
	return summary, nil
}

func (s *Store) recordDocument(ctx context.Context, doc *types.DocumentContext) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM citations WHERE doc_path = ?`, doc.Path); err != nil {
		return fmt.Errorf("deleting old citations: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (path, title, index_title, recorded_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			title=excluded.title, index_title=excluded.index_title,
			recorded_at=excluded.recorded_at`,
		doc.Path, doc.Meta.Title, doc.Meta.IndexTitle,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO citations (doc_path, position, key, method, locator) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range doc.Resolved {
		if _, err := stmt.ExecContext(ctx, doc.Path, i, r.Key, string(r.Method), r.Citation.Locator); err != nil {
			return fmt.Errorf("inserting citation %s: %w", r.Key, err)
		}
	}
	return tx.Commit()
}

// Citing is one document that cites a given entry.
type Citing struct {
	Path     string   `json:"path" yaml:"path"`
	Title    string   `json:"title,omitempty" yaml:"title,omitempty"`
	Count    int      `json:"count" yaml:"count"`
	Locators []string `json:"locators,omitempty" yaml:"locators,omitempty"`
}

// CitedBy lists the documents citing key, ordered by path.
func (s *Store) CitedBy(ctx context.Context, key string) ([]Citing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.doc_path, COALESCE(d.title, ''), COALESCE(c.locator, '')
		 FROM citations c JOIN documents d ON d.path = c.doc_path
		 WHERE c.key = ?
		 ORDER BY c.doc_path, c.position`, key)
	if err != nil {
		return nil, fmt.Errorf("querying citations: %w", err)
	}
	defer rows.Close()

	var out []Citing
	for rows.Next() {
		var path, title, locator string
		if err := rows.Scan(&path, &title, &locator); err != nil {
			return nil, fmt.Errorf("scanning citation: %w", err)
		}
		if len(out) == 0 || out[len(out)-1].Path != path {
			out = append(out, Citing{Path: path, Title: title})
		}
		c := &out[len(out)-1]
		c.Count++
		if locator != "" {
			c.Locators = append(c.Locators, locator)
		}
	}
	return out, rows.Err()
}

// Unused returns the keys, in the given order, that no recorded document
// cites.
func (s *Store) Unused(ctx context.Context, keys []string) ([]string, error) {
	cited, err := s.citedKeys(ctx)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, k := range keys {
		if !cited[k] {
			out = append(out, k)
		}
	}
	return out, nil
}

func (s *Store) citedKeys(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT key FROM citations`)
	if err != nil {
		return nil, fmt.Errorf("querying cited keys: %w", err)
	}
	defer rows.Close()

	cited := make(map[string]bool)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		cited[k] = true
	}
	return cited, rows.Err()
}

// Keys returns every cited key in lexical order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	cited, err := s.citedKeys(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(cited))
	for k := range cited {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
