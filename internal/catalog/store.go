// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists parsed proposals in a SQLite database so they
// can be queried by status, version, and author, and exported.
package catalog

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/proposal-analyzer/internal/corpus"
	"github.com/pdiddy/proposal-analyzer/pkg/types"
)

const (
	dbFile            = "catalog.db"
	defaultMaxResults = 50
)

// Store manages the proposal catalog database.
type Store struct {
	db         *sql.DB
	catalogDir string
	baseURL    string
	maxResults int
}

// NewStore opens or creates catalogDir/catalog.db and its schema.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.CatalogDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.CatalogDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		catalogDir: cfg.CatalogDir,
		baseURL:    cfg.BaseURL,
		maxResults: maxResults,
	}

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
		`CREATE TABLE IF NOT EXISTS proposals (
			number INTEGER PRIMARY KEY,
			se_number TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			status TEXT NOT NULL,
			version TEXT NOT NULL DEFAULT '',
			file_name TEXT NOT NULL,
			word_count INTEGER NOT NULL,
			source_url TEXT,
			fingerprint TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS authors (
			proposal_number INTEGER NOT NULL REFERENCES proposals(number) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (proposal_number, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_proposals_status ON proposals(status, version)`,
		`CREATE INDEX IF NOT EXISTS idx_authors_name ON authors(name COLLATE NOCASE)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from a catalog ingest run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of proposals processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest writes proposals into the catalog. Proposals whose stored
// fingerprint matches are skipped; changed ones are replaced along with
// their author rows. Progress lines go to w.
func (s *Store) Ingest(ctx context.Context, proposals []types.Proposal, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, p := range proposals {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		fp, err := fingerprint(p, s.baseURL)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", p.SENumber, err)
			summary.Failed++
			continue
		}

		var stored string
		err = s.db.QueryRowContext(ctx,
			`SELECT fingerprint FROM proposals WHERE number = ?`, p.Number(),
		).Scan(&stored)

		if err == nil && stored == fp {
			fmt.Fprintf(w, "skipped %s\n", p.SENumber)
			summary.Skipped++
			continue
		}
		if err != nil && err != sql.ErrNoRows {
			fmt.Fprintf(w, "failed  %s: %v\n", p.SENumber, err)
			summary.Failed++
			continue
		}

		isUpdate := err == nil

		if err := s.ingestProposal(ctx, p, fp); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", p.SENumber, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s\n", p.SENumber)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s\n", p.SENumber)
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

func (s *Store) ingestProposal(ctx context.Context, p types.Proposal, fp string) error {
	number := p.Number()
	if number < 0 {
		return fmt.Errorf("identifier %q has no numeric suffix", p.SENumber)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO proposals (number, se_number, title, status, version, file_name, word_count, source_url, fingerprint)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(number) DO UPDATE SET
			se_number=excluded.se_number, title=excluded.title, status=excluded.status,
			version=excluded.version, file_name=excluded.file_name, word_count=excluded.word_count,
			source_url=excluded.source_url, fingerprint=excluded.fingerprint`,
		number, p.SENumber, p.Title, string(p.Status.Kind), string(p.Status.Version),
		p.FileName, p.WordCount, corpus.SourceURL(s.baseURL, p.FileName), fp,
	)
	if err != nil {
		return fmt.Errorf("upserting proposal: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM authors WHERE proposal_number = ?`, number); err != nil {
		return fmt.Errorf("deleting old authors: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO authors (proposal_number, position, name) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, name := range p.Authors {
		if _, err := stmt.ExecContext(ctx, number, i, name); err != nil {
			return fmt.Errorf("inserting author %q: %w", name, err)
		}
	}

	return tx.Commit()
}

// fingerprint is the hex SHA-256 of the proposal's JSON encoding and the
// link base its source URL is built from.
func fingerprint(p types.Proposal, baseURL string) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding proposal: %w", err)
	}
	h := sha256.New()
	h.Write(data)
	h.Write([]byte(baseURL))
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
