// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package header

import (
	"strings"
	"unicode/utf8"
)

// DefaultLineBudget is the number of leading lines searched for header fields.
const DefaultLineBudget = 10

// Header labels. The status label keeps its trailing space so that a bare
// "* Status:" mention elsewhere in the header is not taken for the field.
const (
	labelProposal = "* Proposal:"
	labelAuthor   = "* Author:"
	labelAuthors  = "* Authors:"
	labelStatus   = "* Status: "
)

// lineBreaks holds every character that ends a line: LF, CR (alone or as
// part of CRLF), NEL, LINE SEPARATOR and PARAGRAPH SEPARATOR.
const lineBreaks = "\r\n\u0085\u2028\u2029"

// Lines holds the raw header lines found by Scan. A field is empty when
// its line was not found.
type Lines struct {
	Title    string
	Proposal string
	Author   string
	Authors  string
	Status   string
}

// AuthorLine returns the author line to extract from and whether it uses
// the multi-author label. A single-author line takes precedence.
func (l Lines) AuthorLine() (line string, multiple bool, ok bool) {
	if l.Author != "" {
		return l.Author, false, true
	}
	if l.Authors != "" {
		return l.Authors, true, true
	}
	return "", false, false
}

// SplitLines returns the first budget lines of text. A budget of zero or
// less uses DefaultLineBudget. A trailing line break does not produce an
// extra empty line.
func SplitLines(text string, budget int) []string {
	if budget <= 0 {
		budget = DefaultLineBudget
	}

	lines := make([]string, 0, budget)
	for len(lines) < budget && text != "" {
		i := strings.IndexAny(text, lineBreaks)
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i])

		_, size := utf8.DecodeRuneInString(text[i:])
		if text[i] == '\r' && strings.HasPrefix(text[i+1:], "\n") {
			size = 2
		}
		text = text[i+size:]
	}
	return lines
}

// Scan classifies the leading lines of a document. The first non-blank
// line is the title. Labeled lines are matched by prefix; when a label
// repeats, the last occurrence wins. A missing status or proposal line is
// a StructuralError; a missing author line is not an error here.
func Scan(text string, budget int) (Lines, error) {
	var (
		found    Lines
		hasTitle bool
	)

	for _, line := range SplitLines(text, budget) {
		if !hasTitle && strings.TrimSpace(line) != "" {
			found.Title = line
			hasTitle = true
		}

		if strings.HasPrefix(line, labelProposal) {
			found.Proposal = line
		}
		if strings.HasPrefix(line, labelAuthor) {
			found.Author = line
		}
		if strings.HasPrefix(line, labelAuthors) {
			found.Authors = line
		}
		if strings.HasPrefix(line, labelStatus) {
			found.Status = line
		}
	}

	if found.Status == "" {
		return found, &StructuralError{Field: "Status"}
	}
	if found.Proposal == "" {
		return found, &StructuralError{Field: "Proposal"}
	}
	return found, nil
}
