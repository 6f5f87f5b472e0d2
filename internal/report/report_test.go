// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/proposal-analyzer/pkg/types"
)

func corpusFixture() []types.Proposal {
	return []types.Proposal{
		{SENumber: "SE-0004", Title: "Remove the ++ and -- operators", Authors: []string{"Chris Lattner"},
			Status: types.StatusRejected, FileName: "0004-remove-pre-post-inc-decrement.md", WordCount: 450},
		{SENumber: "SE-0020", Title: "Swift Language Version Build Configuration", Authors: []string{"David Farler"},
			Status: types.Implemented(types.Swift2_2), FileName: "0020-if-swift-version.md", WordCount: 640},
		{SENumber: "SE-0022", Title: "Referencing the Objective-C selector of a method", Authors: []string{"Doug Gregor", "Joe Groff"},
			Status: types.StatusAccepted, FileName: "0022-objc-selectors.md", WordCount: 1200},
		{SENumber: "SE-0071", Title: "Allow (most) keywords in member references", Authors: []string{"Doug Gregor"},
			Status: types.Implemented(types.Swift3_0), FileName: "0071-member-keywords.md", WordCount: 310},
	}
}

func statusCount(s Summary, k types.StatusKind) int {
	for _, sc := range s.ByStatus {
		if sc.Kind == k {
			return sc.Count
		}
	}
	return -1
}

func TestSummarize_Counts(t *testing.T) {
	s := Summarize(corpusFixture(), 0)

	assert.Equal(t, 4, s.Proposals)
	assert.Equal(t, 3, s.Accepted)
	assert.Len(t, s.ByStatus, 7)
	assert.Equal(t, 2, statusCount(s, types.KindImplemented))
	assert.Equal(t, 1, statusCount(s, types.KindAccepted))
	assert.Equal(t, 1, statusCount(s, types.KindRejected))
	assert.Equal(t, 0, statusCount(s, types.KindWithdrawn))

	require.Len(t, s.Implemented, len(types.KnownVersions()))
	byVersion := make(map[types.SwiftVersion]int)
	for _, vc := range s.Implemented {
		byVersion[vc.Version] = vc.Count
	}
	assert.Equal(t, 1, byVersion[types.Swift2_2])
	assert.Equal(t, 1, byVersion[types.Swift3_0])
	assert.Equal(t, 0, byVersion[types.Swift3_1])
}

func TestSummarize_AcceptedMatchesAllAccepted(t *testing.T) {
	props := corpusFixture()
	s := Summarize(props, 0)

	want := 0
	for _, p := range props {
		for _, st := range types.AllAccepted() {
			if p.Status == st {
				want++
			}
		}
	}
	assert.Equal(t, want, s.Accepted)
}

func TestSummarize_TopAuthors(t *testing.T) {
	s := Summarize(corpusFixture(), 3)

	assert.Equal(t, []AuthorCount{
		{Name: "Doug Gregor", Proposals: 2},
		{Name: "Chris Lattner", Proposals: 1},
		{Name: "David Farler", Proposals: 1},
	}, s.TopAuthors)
}

func TestSummarize_AuthorListedTwiceCountsOnce(t *testing.T) {
	props := []types.Proposal{{SENumber: "SE-0001", Authors: []string{"A", "A"}, Status: types.StatusDeferred}}
	s := Summarize(props, 0)
	assert.Equal(t, []AuthorCount{{Name: "A", Proposals: 1}}, s.TopAuthors)
}

func TestSummarize_WordStats(t *testing.T) {
	s := Summarize(corpusFixture(), 0)

	assert.Equal(t, 2600, s.Words.Total)
	assert.InDelta(t, 650.0, s.Words.Mean, 1e-9)
	assert.InDelta(t, 545.0, s.Words.Median, 1e-9)
	assert.Equal(t, ProposalWords{SENumber: "SE-0071", WordCount: 310}, s.Words.Shortest)
	assert.Equal(t, ProposalWords{SENumber: "SE-0022", WordCount: 1200}, s.Words.Longest)
}

func TestSummarize_OddMedianAndTies(t *testing.T) {
	props := []types.Proposal{
		{SENumber: "SE-0001", WordCount: 5, Status: types.StatusDeferred},
		{SENumber: "SE-0002", WordCount: 9, Status: types.StatusDeferred},
		{SENumber: "SE-0003", WordCount: 5, Status: types.StatusDeferred},
	}
	s := Summarize(props, 0)

	assert.InDelta(t, 5.0, s.Words.Median, 1e-9)
	assert.Equal(t, "SE-0001", s.Words.Shortest.SENumber)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, 0)

	assert.Zero(t, s.Proposals)
	assert.Len(t, s.ByStatus, 7)
	assert.Empty(t, s.TopAuthors)
	assert.Equal(t, WordStats{}, s.Words)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, Summarize(corpusFixture(), 0)))
	out := buf.String()

	assert.Contains(t, out, "Proposals: 4\n")
	assert.Contains(t, out, "Accepted (including implemented): 3\n")
	assert.Contains(t, out, "  Swift 2.2")
	assert.Contains(t, out, "total 2,600, mean 650.0, median 545.0")
	assert.Contains(t, out, "shortest SE-0071 (310)")
	assert.Contains(t, out, "longest  SE-0022 (1,200)")
	assert.Contains(t, out, "Doug Gregor")
	assert.Less(t, strings.Index(out, "In review"), strings.Index(out, "Withdrawn"))
}

func TestWriteText_EmptyCorpus(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, Summarize(nil, 0)))

	assert.Contains(t, buf.String(), "Proposals: 0")
	assert.NotContains(t, buf.String(), "Words:")
	assert.NotContains(t, buf.String(), "Top authors:")
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, corpusFixture(), "https://example.com/p"))
	out := buf.String()

	assert.Contains(t, out, "SE-0022")
	assert.Contains(t, out, "Accepted (awaiting implementation)")
	assert.Contains(t, out, "Implemented (2.2)")
	assert.Contains(t, out, "https://example.com/p/0071-member-keywords.md")
	assert.Contains(t, out, "Referencing the Objective-C selector ...")
	assert.Contains(t, out, "\n4 proposals\n")
}

func TestWriteTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, nil, ""))
	assert.Equal(t, "No proposals found.\n", buf.String())
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"much longer text", 10, "much lo..."},
		{"ééééééé", 5, "éé..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.in, tt.n), tt.in)
	}
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "In review", KindLabel(types.KindInReview))
	assert.Equal(t, "Accepted", KindLabel(types.KindAccepted))
	assert.Equal(t, "Implemented", KindLabel(types.KindImplemented))
	assert.Equal(t, "Withdrawn", KindLabel(types.KindWithdrawn))
}
