// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/proposal-analyzer/internal/header"
	"github.com/pdiddy/proposal-analyzer/pkg/types"
)

// Failure records one document that could not be parsed.
type Failure struct {
	FileName string
	Err      error
}

// BatchSummary holds counts from a batch parse run.
type BatchSummary struct {
	Parsed   int
	Warnings int
	Failures []Failure
}

// Failed returns the number of documents that failed to parse.
func (s BatchSummary) Failed() int {
	return len(s.Failures)
}

// Total returns the number of documents processed.
func (s BatchSummary) Total() int {
	return s.Parsed + s.Failed()
}

// HasFailures reports whether any document failed.
func (s BatchSummary) HasFailures() bool {
	return len(s.Failures) > 0
}

// outcome is the per-document result slot filled by one worker.
type outcome struct {
	proposal types.Proposal
	warnings []error
	err      error
}

// ParseAll parses every document concurrently, one task per document with
// at most cfg.Workers running at once. Results are collected by input
// position and merged after all tasks finish, then sorted by number; input
// order breaks ties.
//
// With cfg.FailFast the first parse error cancels the batch and is
// returned. Otherwise failed documents are logged, listed in the summary
// and left out of the result.
func ParseAll(ctx context.Context, docs []Document, cfg types.ParseConfig, logger *slog.Logger) ([]types.Proposal, BatchSummary, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]outcome, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fields, err := header.Parse(doc.FileName, doc.Contents, cfg.LineBudget)
			if err != nil {
				if cfg.FailFast {
					return err
				}
				outcomes[i].err = err
				return nil
			}
			outcomes[i] = outcome{proposal: Build(doc, fields), warnings: fields.Warnings}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, BatchSummary{}, err
	}

	var summary BatchSummary
	proposals := make([]types.Proposal, 0, len(docs))
	for i, o := range outcomes {
		if o.err != nil {
			logger.Error("proposal skipped", "file", docs[i].FileName, "error", o.err)
			summary.Failures = append(summary.Failures, Failure{FileName: docs[i].FileName, Err: o.err})
			continue
		}
		for _, w := range o.warnings {
			logger.Warn("proposal header incomplete", "file", docs[i].FileName, "warning", w)
			summary.Warnings++
		}
		proposals = append(proposals, o.proposal)
		summary.Parsed++
	}

	SortByNumber(proposals)
	return proposals, summary, nil
}

// ParseDir reads cfg.ProposalsDir and parses it with ParseAll.
func ParseDir(ctx context.Context, cfg types.ParseConfig, logger *slog.Logger) ([]types.Proposal, BatchSummary, error) {
	docs, err := ReadDir(cfg.ProposalsDir, cfg.Include)
	if err != nil {
		return nil, BatchSummary{}, err
	}
	return ParseAll(ctx, docs, cfg, logger)
}

// WriteSummary prints the one-line batch summary and each failure to w.
func WriteSummary(w io.Writer, s BatchSummary) {
	for _, f := range s.Failures {
		fmt.Fprintf(w, "failed  %s: %v\n", f.FileName, f.Err)
	}
	fmt.Fprintf(w, "parsed: %d, warnings: %d, failed: %d (total: %d)\n",
		s.Parsed, s.Warnings, s.Failed(), s.Total())
}
