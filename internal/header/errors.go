// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package header

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks against the typed errors below.
var (
	ErrStructural          = errors.New("structural error")
	ErrUnrecognizedStatus  = errors.New("unrecognized status")
	ErrUnrecognizedVersion = errors.New("unrecognized version")
	ErrMissingAuthors      = errors.New("missing authors")
)

// StructuralError reports a required header line that is absent from the
// scanned lines or too malformed to extract.
type StructuralError struct {
	FileName string
	// Field is the header label, e.g. "Status" or "Proposal".
	Field string
	// Line is the offending raw line, empty when the line is absent.
	Line string
}

func (e *StructuralError) Error() string {
	if e.Line == "" {
		return fmt.Sprintf("%s: no %q line in header", e.source(), e.Field)
	}
	return fmt.Sprintf("%s: malformed %q line: %q", e.source(), e.Field, e.Line)
}

func (e *StructuralError) Unwrap() error { return ErrStructural }

func (e *StructuralError) source() string { return sourceName(e.FileName) }

// UnrecognizedStatusError reports a status line whose text matches none of
// the known status phrases.
type UnrecognizedStatusError struct {
	FileName string
	Line     string
	// Text is the status remainder after the label and markup were removed.
	Text string
}

func (e *UnrecognizedStatusError) Error() string {
	return fmt.Sprintf("%s: unknown status %q found in line: %q", sourceName(e.FileName), e.Text, e.Line)
}

func (e *UnrecognizedStatusError) Unwrap() error { return ErrUnrecognizedStatus }

// UnrecognizedVersionError reports an implemented status that names no
// known Swift release.
type UnrecognizedVersionError struct {
	FileName string
	Text     string
}

func (e *UnrecognizedVersionError) Error() string {
	return fmt.Sprintf("%s: unknown version number found: %q", sourceName(e.FileName), e.Text)
}

func (e *UnrecognizedVersionError) Unwrap() error { return ErrUnrecognizedVersion }

// MissingAuthorsWarning is attached to a successful parse whose header has
// no author line. The proposal is kept with an empty author list.
type MissingAuthorsWarning struct {
	FileName string
}

func (e *MissingAuthorsWarning) Error() string {
	return fmt.Sprintf("%s: no author line in header, authors left empty", sourceName(e.FileName))
}

func (e *MissingAuthorsWarning) Unwrap() error { return ErrMissingAuthors }

func sourceName(fileName string) string {
	if fileName == "" {
		return "<input>"
	}
	return fileName
}

// withFileName stamps fileName onto any typed error produced below Parse.
func withFileName(err error, fileName string) error {
	var (
		structural *StructuralError
		status     *UnrecognizedStatusError
		version    *UnrecognizedVersionError
	)
	switch {
	case errors.As(err, &structural):
		structural.FileName = fileName
	case errors.As(err, &status):
		status.FileName = fileName
	case errors.As(err, &version):
		version.FileName = fileName
	}
	return err
}
