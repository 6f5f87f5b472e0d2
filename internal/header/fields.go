// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package header

import (
	"regexp"
	"strings"
	"unicode"
)

// identifierPattern is the canonical proposal identifier shape.
var identifierPattern = regexp.MustCompile(`^SE-\d{4}$`)

// identifierSearch finds an identifier anywhere in a malformed line.
var identifierSearch = regexp.MustCompile(`SE-\d{4}`)

// Title strips leading '#' heading markers and surrounding whitespace.
func Title(line string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
}

// Identifier extracts the proposal identifier from a "* Proposal:" line
// such as "* Proposal: [SE-0068](0068-universal-self.md)". The label is
// stripped and the first bracketed token is used; when that is missing or
// not an identifier, the first SE-NNNN in the rest of the line is. Column
// positions are not relied on, so extra spacing after the label is fine.
func Identifier(line string) (string, error) {
	rest := strings.TrimPrefix(line, labelProposal)

	if token, ok := bracketed(rest); ok {
		if id := strings.TrimSpace(token); identifierPattern.MatchString(id) {
			return id, nil
		}
	}
	if id := identifierSearch.FindString(rest); id != "" {
		return id, nil
	}
	return "", &StructuralError{Field: "Proposal", Line: line}
}

// bracketed returns the text between the first '[' and the next ']'.
func bracketed(s string) (string, bool) {
	_, after, ok := strings.Cut(s, "[")
	if !ok {
		return "", false
	}
	inner, _, ok := strings.Cut(after, "]")
	if !ok {
		return "", false
	}
	return inner, true
}

// Authors extracts author names from an author line. multiple selects the
// "* Authors:" label over "* Author:". Each comma-separated entry yields
// the text of its [name](url) link, or the trimmed entry when it has no
// link. Blank entries are dropped; order and duplicates are kept.
func Authors(line string, multiple bool) []string {
	label := labelAuthor
	if multiple {
		label = labelAuthors
	}
	rest := strings.TrimPrefix(line, label)

	names := []string{}
	for _, entry := range strings.Split(rest, ",") {
		if name := authorName(entry); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func authorName(entry string) string {
	if _, after, ok := strings.Cut(entry, "["); ok {
		name, _, _ := strings.Cut(after, "]")
		return strings.TrimSpace(name)
	}
	return strings.TrimSpace(entry)
}

// StatusText returns the status remainder: the line without its label,
// surrounding whitespace, or '*' emphasis markers.
func StatusText(line string) string {
	rest := strings.TrimPrefix(line, strings.TrimSpace(labelStatus))
	return strings.TrimFunc(rest, func(r rune) bool {
		return r == '*' || unicode.IsSpace(r)
	})
}
