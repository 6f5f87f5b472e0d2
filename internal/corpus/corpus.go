// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus reads a directory of proposal documents and turns it into
// a sorted list of proposal records. It owns file access, word counting,
// source links and the batch policy; header parsing lives in package header.
package corpus

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/pdiddy/proposal-analyzer/internal/header"
	"github.com/pdiddy/proposal-analyzer/pkg/types"
)

// DefaultBaseURL is where proposal documents are published.
const DefaultBaseURL = "https://github.com/apple/swift-evolution/blob/master/proposals"

// DefaultInclude selects Markdown documents.
var DefaultInclude = []string{"*.md"}

// Document is the name and full text of one proposal file.
type Document struct {
	FileName string
	Contents string
}

// ReadDir loads every regular file in dir whose base name matches one of
// the doublestar patterns (DefaultInclude when empty). Documents are
// returned sorted by file name. Subdirectories are not descended.
func ReadDir(dir string, patterns []string) ([]Document, error) {
	if len(patterns) == 0 {
		patterns = DefaultInclude
	}
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("invalid include pattern %q", pat)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading proposals directory %s: %w", dir, err)
	}

	var docs []Document
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !Matches(entry.Name(), patterns) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		docs = append(docs, Document{FileName: entry.Name(), Contents: string(data)})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].FileName < docs[j].FileName })
	return docs, nil
}

// Matches reports whether name matches any of the doublestar patterns.
// Invalid patterns never match.
func Matches(name string, patterns []string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, name); err == nil && ok {
			return true
		}
	}
	return false
}

// WordCount approximates the number of words in text: whitespace-separated
// tokens with leading and trailing punctuation and symbols removed, ignoring
// tokens that are left empty.
func WordCount(text string) int {
	count := 0
	for _, token := range strings.Fields(text) {
		word := strings.TrimFunc(token, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if word != "" {
			count++
		}
	}
	return count
}

// SourceURL returns the published location of fileName under base
// (DefaultBaseURL when empty).
func SourceURL(base, fileName string) string {
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.JoinPath(base, fileName)
	if err != nil {
		return strings.TrimRight(base, "/") + "/" + url.PathEscape(fileName)
	}
	return u
}

// Build assembles the proposal record for doc from its parsed header.
func Build(doc Document, fields header.Fields) types.Proposal {
	authors := make([]string, len(fields.Authors))
	copy(authors, fields.Authors)

	return types.Proposal{
		Title:     fields.Title,
		SENumber:  fields.SENumber,
		Authors:   authors,
		Status:    fields.Status,
		FileName:  doc.FileName,
		WordCount: WordCount(doc.Contents),
	}
}

// SortByNumber orders proposals by identifier number, keeping the input
// order of proposals with equal numbers.
func SortByNumber(proposals []types.Proposal) {
	sort.SliceStable(proposals, func(i, j int) bool {
		return proposals[i].Number() < proposals[j].Number()
	})
}
