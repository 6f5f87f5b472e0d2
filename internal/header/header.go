// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package header parses the metadata block at the top of a Swift Evolution
// proposal document: title, identifier, authors, and review status.
//
// The header is a short list of labeled Markdown bullets written by hand:
//
//	# Expanding Swift `Self` to class members and value types
//
//	* Proposal: [SE-0068](0068-universal-self.md)
//	* Author: [Erica Sadun](http://github.com/erica)
//	* Status: **Implemented (Swift 3.0)**
//
// Parsing works line by line over a fixed window of leading lines. Labels
// are matched as literal prefixes and status text is classified by ordered,
// case-insensitive phrase rules. Everything here is pure and safe to call
// from many goroutines.
package header

import (
	"errors"

	"github.com/pdiddy/proposal-analyzer/pkg/types"
)

// Fields holds the values parsed from one document header.
type Fields struct {
	Title    string
	SENumber string
	Authors  []string
	Status   types.Status

	// Warnings lists non-fatal problems, such as a *MissingAuthorsWarning.
	Warnings []error
}

// Parse scans the first budget lines of contents and extracts every header
// field. fileName is only used to label errors. Fatal problems return one
// of *StructuralError, *UnrecognizedStatusError or *UnrecognizedVersionError.
func Parse(fileName, contents string, budget int) (Fields, error) {
	lines, err := Scan(contents, budget)
	if err != nil {
		return Fields{}, withFileName(err, fileName)
	}

	id, err := Identifier(lines.Proposal)
	if err != nil {
		return Fields{}, withFileName(err, fileName)
	}

	status, err := ResolveStatus(StatusText(lines.Status))
	if err != nil {
		var unknown *UnrecognizedStatusError
		if errors.As(err, &unknown) {
			unknown.Line = lines.Status
		}
		return Fields{}, withFileName(err, fileName)
	}

	fields := Fields{
		Title:    Title(lines.Title),
		SENumber: id,
		Authors:  []string{},
		Status:   status,
	}

	if line, multiple, ok := lines.AuthorLine(); ok {
		fields.Authors = Authors(line, multiple)
	} else {
		fields.Warnings = append(fields.Warnings, &MissingAuthorsWarning{FileName: fileName})
	}

	return fields, nil
}
