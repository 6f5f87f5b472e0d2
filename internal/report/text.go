// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pdiddy/proposal-analyzer/internal/corpus"
	"github.com/pdiddy/proposal-analyzer/pkg/types"
)

// KindLabel returns the display name of a status kind.
func KindLabel(k types.StatusKind) string {
	switch k {
	case types.KindAccepted:
		return "Accepted"
	case types.KindImplemented:
		return "Implemented"
	}
	return types.Status{Kind: k}.String()
}

// WriteText renders s as an indented plain-text report. Counts use
// thousands separators.
func WriteText(w io.Writer, s Summary) error {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	p.Fprintf(&b, "Proposals: %d\n", s.Proposals)
	p.Fprintf(&b, "Accepted (including implemented): %d\n", s.Accepted)

	b.WriteString("\nBy status:\n")
	for _, sc := range s.ByStatus {
		p.Fprintf(&b, "  %-16s %6d\n", KindLabel(sc.Kind), sc.Count)
	}

	b.WriteString("\nImplemented by Swift version:\n")
	for _, vc := range s.Implemented {
		p.Fprintf(&b, "  %-16s %6d\n", "Swift "+string(vc.Version), vc.Count)
	}

	if s.Proposals > 0 {
		b.WriteString("\nWords:\n")
		p.Fprintf(&b, "  total %d, mean %.1f, median %.1f\n", s.Words.Total, s.Words.Mean, s.Words.Median)
		p.Fprintf(&b, "  shortest %s (%d)\n", s.Words.Shortest.SENumber, s.Words.Shortest.WordCount)
		p.Fprintf(&b, "  longest  %s (%d)\n", s.Words.Longest.SENumber, s.Words.Longest.WordCount)
	}

	if len(s.TopAuthors) > 0 {
		b.WriteString("\nTop authors:\n")
		for _, a := range s.TopAuthors {
			p.Fprintf(&b, "  %-30s %4d\n", truncate(a.Name, 30), a.Proposals)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteTable renders one row per proposal with its source link. baseURL
// empty uses corpus.DefaultBaseURL.
func WriteTable(w io.Writer, proposals []types.Proposal, baseURL string) error {
	var b strings.Builder
	p := message.NewPrinter(language.English)

	if len(proposals) == 0 {
		b.WriteString("No proposals found.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	p.Fprintf(&b, "%-8s  %-34s  %-40s  %-24s  %s\n", "Number", "Status", "Title", "Authors", "Link")
	b.WriteString(strings.Repeat("-", 152) + "\n")

	for _, pr := range proposals {
		p.Fprintf(&b, "%-8s  %-34s  %-40s  %-24s  %s\n",
			pr.SENumber,
			truncate(pr.Status.String(), 34),
			truncate(pr.Title, 40),
			truncate(strings.Join(pr.Authors, ", "), 24),
			corpus.SourceURL(baseURL, pr.FileName),
		)
	}
	p.Fprintf(&b, "\n%d proposals\n", len(proposals))

	_, err := io.WriteString(w, b.String())
	return err
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}
