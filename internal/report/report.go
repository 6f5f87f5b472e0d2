// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report computes corpus statistics over parsed proposals and
// renders them as text.
package report

import (
	"cmp"
	"slices"

	"github.com/pdiddy/proposal-analyzer/pkg/types"
)

// DefaultTopAuthors is the number of authors listed when none is configured.
const DefaultTopAuthors = 10

// StatusCount is the number of proposals in one status kind.
type StatusCount struct {
	Kind  types.StatusKind `json:"kind" yaml:"kind"`
	Count int              `json:"count" yaml:"count"`
}

// VersionCount is the number of proposals implemented in one Swift version.
type VersionCount struct {
	Version types.SwiftVersion `json:"version" yaml:"version"`
	Count   int                `json:"count" yaml:"count"`
}

// AuthorCount is the number of proposals an author appears on.
type AuthorCount struct {
	Name      string `json:"name" yaml:"name"`
	Proposals int    `json:"proposals" yaml:"proposals"`
}

// ProposalWords identifies a proposal by its word count.
type ProposalWords struct {
	SENumber  string `json:"se_number" yaml:"se_number"`
	WordCount int    `json:"word_count" yaml:"word_count"`
}

// WordStats summarizes document lengths.
type WordStats struct {
	Total    int           `json:"total" yaml:"total"`
	Mean     float64       `json:"mean" yaml:"mean"`
	Median   float64       `json:"median" yaml:"median"`
	Shortest ProposalWords `json:"shortest" yaml:"shortest"`
	Longest  ProposalWords `json:"longest" yaml:"longest"`
}

// Summary holds corpus statistics. Status and version counts list every
// known kind and version in display order, including zero counts.
type Summary struct {
	Proposals   int            `json:"proposals" yaml:"proposals"`
	Accepted    int            `json:"accepted" yaml:"accepted"`
	ByStatus    []StatusCount  `json:"by_status" yaml:"by_status"`
	Implemented []VersionCount `json:"implemented" yaml:"implemented"`
	TopAuthors  []AuthorCount  `json:"top_authors" yaml:"top_authors"`
	Words       WordStats      `json:"words" yaml:"words"`
}

var kindOrder = []types.StatusKind{
	types.KindInReview,
	types.KindAwaitingReview,
	types.KindAccepted,
	types.KindImplemented,
	types.KindDeferred,
	types.KindRejected,
	types.KindWithdrawn,
}

// Summarize computes statistics for proposals. topAuthors limits the
// author list; zero or less uses DefaultTopAuthors. Ties in author counts
// and in shortest or longest document resolve to the earlier name or the
// earlier proposal in input order.
func Summarize(proposals []types.Proposal, topAuthors int) Summary {
	if topAuthors <= 0 {
		topAuthors = DefaultTopAuthors
	}

	s := Summary{Proposals: len(proposals)}

	kinds := make(map[types.StatusKind]int)
	versions := make(map[types.SwiftVersion]int)
	authors := make(map[string]int)

	for _, p := range proposals {
		kinds[p.Status.Kind]++
		if p.Status.Kind == types.KindImplemented {
			versions[p.Status.Version]++
		}
		if p.Status.IsAccepted() {
			s.Accepted++
		}
		seen := make(map[string]bool, len(p.Authors))
		for _, a := range p.Authors {
			if !seen[a] {
				seen[a] = true
				authors[a]++
			}
		}
	}

	for _, k := range kindOrder {
		s.ByStatus = append(s.ByStatus, StatusCount{Kind: k, Count: kinds[k]})
	}
	for _, v := range types.KnownVersions() {
		s.Implemented = append(s.Implemented, VersionCount{Version: v, Count: versions[v]})
	}

	s.TopAuthors = rankAuthors(authors, topAuthors)
	s.Words = wordStats(proposals)
	return s
}

func rankAuthors(counts map[string]int, limit int) []AuthorCount {
	ranked := make([]AuthorCount, 0, len(counts))
	for name, n := range counts {
		ranked = append(ranked, AuthorCount{Name: name, Proposals: n})
	}
	slices.SortFunc(ranked, func(a, b AuthorCount) int {
		if c := cmp.Compare(b.Proposals, a.Proposals); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func wordStats(proposals []types.Proposal) WordStats {
	var ws WordStats
	if len(proposals) == 0 {
		return ws
	}

	counts := make([]int, len(proposals))
	ws.Shortest = ProposalWords{SENumber: proposals[0].SENumber, WordCount: proposals[0].WordCount}
	ws.Longest = ws.Shortest

	for i, p := range proposals {
		counts[i] = p.WordCount
		ws.Total += p.WordCount
		if p.WordCount < ws.Shortest.WordCount {
			ws.Shortest = ProposalWords{SENumber: p.SENumber, WordCount: p.WordCount}
		}
		if p.WordCount > ws.Longest.WordCount {
			ws.Longest = ProposalWords{SENumber: p.SENumber, WordCount: p.WordCount}
		}
	}

	ws.Mean = float64(ws.Total) / float64(len(proposals))

	slices.Sort(counts)
	mid := len(counts) / 2
	if len(counts)%2 == 1 {
		ws.Median = float64(counts[mid])
	} else {
		ws.Median = float64(counts[mid-1]+counts[mid]) / 2
	}
	return ws
}
