// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/proposal-analyzer/pkg/types"
)

// QueryOptions holds catalog query filters. Empty fields do not filter.
type QueryOptions struct {
	// Title matches proposals whose title contains this text (ASCII case-insensitive).
	Title string

	// Kind filters by status kind.
	Kind types.StatusKind

	// Version filters implemented proposals by Swift version.
	Version types.SwiftVersion

	// Author matches proposals with an author of exactly this name, ignoring case.
	Author string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Title == "" && q.Kind == "" && q.Version == "" && q.Author == ""
}

// QueryResult is a stored proposal with its source link.
type QueryResult struct {
	types.Proposal `yaml:",inline"`
	SourceURL      string `json:"source_url" yaml:"source_url"`
}

// Retrieve returns proposals matching opts, ordered by number.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(
		`SELECT p.number, p.se_number, p.title, p.status, p.version,
			p.file_name, p.word_count, COALESCE(p.source_url, '')
		FROM proposals p
		WHERE 1=1`)

	if opts.Title != "" {
		qb.WriteString(` AND p.title LIKE '%' || ? || '%'`)
		args = append(args, opts.Title)
	}

	if opts.Kind != "" {
		qb.WriteString(` AND p.status = ?`)
		args = append(args, string(opts.Kind))
	}

	if opts.Version != "" {
		qb.WriteString(` AND p.version = ?`)
		args = append(args, string(opts.Version))
	}

	if opts.Author != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM authors a
			WHERE a.proposal_number = p.number AND a.name = ? COLLATE NOCASE)`)
		args = append(args, opts.Author)
	}

	qb.WriteString(` ORDER BY p.number LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var (
		results []QueryResult
		numbers []int
	)
	for rows.Next() {
		var (
			qr      QueryResult
			number  int
			kind    string
			version string
		)
		if err := rows.Scan(
			&number, &qr.SENumber, &qr.Title, &kind, &version,
			&qr.FileName, &qr.WordCount, &qr.SourceURL,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		status, err := types.ParseStatusKey(types.Status{Kind: types.StatusKind(kind), Version: types.SwiftVersion(version)}.Key())
		if err != nil {
			return nil, fmt.Errorf("proposal %s: %w", qr.SENumber, err)
		}
		qr.Status = status

		results = append(results, qr)
		numbers = append(numbers, number)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, number := range numbers {
		authors, err := s.authors(ctx, number)
		if err != nil {
			return nil, err
		}
		results[i].Authors = authors
	}

	return results, nil
}

func (s *Store) authors(ctx context.Context, number int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM authors WHERE proposal_number = ? ORDER BY position`, number)
	if err != nil {
		return nil, fmt.Errorf("querying authors: %w", err)
	}
	defer rows.Close()

	authors := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning author: %w", err)
		}
		authors = append(authors, name)
	}
	return authors, rows.Err()
}

// AuthorCount is the number of proposals an author appears on.
type AuthorCount struct {
	Name      string `json:"name" yaml:"name"`
	Proposals int    `json:"proposals" yaml:"proposals"`
}

// AuthorCounts lists authors by number of proposals, most prolific first,
// ties broken by name. limit of zero uses the store default.
func (s *Store) AuthorCounts(ctx context.Context, limit int) ([]AuthorCount, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, COUNT(DISTINCT proposal_number) AS n
		FROM authors
		GROUP BY name
		ORDER BY n DESC, name
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("counting authors: %w", err)
	}
	defer rows.Close()

	var counts []AuthorCount
	for rows.Next() {
		var ac AuthorCount
		if err := rows.Scan(&ac.Name, &ac.Proposals); err != nil {
			return nil, fmt.Errorf("scanning author count: %w", err)
		}
		counts = append(counts, ac)
	}
	return counts, rows.Err()
}
