// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strconv"
	"strings"
)

// SwiftVersion identifies a Swift release that shipped an implemented
// proposal. The set is closed; new releases are added here.
type SwiftVersion string

const (
	Swift2_2   SwiftVersion = "2.2"
	Swift2_3   SwiftVersion = "2.3"
	Swift3_0   SwiftVersion = "3.0"
	Swift3_0_1 SwiftVersion = "3.0.1"
	Swift3_1   SwiftVersion = "3.1"
)

// KnownVersions returns every SwiftVersion in release order.
func KnownVersions() []SwiftVersion {
	return []SwiftVersion{Swift2_2, Swift2_3, Swift3_0, Swift3_0_1, Swift3_1}
}

// IsValid reports whether v is one of the known releases.
func (v SwiftVersion) IsValid() bool {
	switch v {
	case Swift2_2, Swift2_3, Swift3_0, Swift3_0_1, Swift3_1:
		return true
	}
	return false
}

func (v SwiftVersion) String() string {
	return string(v)
}

// StatusKind is the review state of a proposal without its version payload.
type StatusKind string

const (
	KindInReview       StatusKind = "in-review"
	KindAwaitingReview StatusKind = "awaiting-review"
	KindAccepted       StatusKind = "accepted"
	KindImplemented    StatusKind = "implemented"
	KindDeferred       StatusKind = "deferred"
	KindRejected       StatusKind = "rejected"
	KindWithdrawn      StatusKind = "withdrawn"
)

// Status is the review state of a proposal. Version is set only when Kind
// is KindImplemented, so two statuses compare equal with == exactly when
// they have the same kind and, for implemented proposals, the same version.
type Status struct {
	Kind    StatusKind
	Version SwiftVersion
}

var (
	StatusInReview       = Status{Kind: KindInReview}
	StatusAwaitingReview = Status{Kind: KindAwaitingReview}
	StatusAccepted       = Status{Kind: KindAccepted}
	StatusDeferred       = Status{Kind: KindDeferred}
	StatusRejected       = Status{Kind: KindRejected}
	StatusWithdrawn      = Status{Kind: KindWithdrawn}
)

// Implemented returns the status of a proposal shipped in Swift v.
func Implemented(v SwiftVersion) Status {
	return Status{Kind: KindImplemented, Version: v}
}

// AllStatuses lists every status value, with one implemented status per
// known version.
func AllStatuses() []Status {
	all := []Status{StatusInReview, StatusAwaitingReview, StatusAccepted}
	all = append(all, AllImplemented()...)
	return append(all, StatusDeferred, StatusRejected, StatusWithdrawn)
}

// AllImplemented lists the implemented status for every known version.
func AllImplemented() []Status {
	versions := KnownVersions()
	all := make([]Status, len(versions))
	for i, v := range versions {
		all[i] = Implemented(v)
	}
	return all
}

// AllAccepted lists accepted plus every implemented status.
func AllAccepted() []Status {
	return append([]Status{StatusAccepted}, AllImplemented()...)
}

// IsAccepted reports whether the proposal was accepted, whether or not it
// has shipped yet.
func (s Status) IsAccepted() bool {
	return s.Kind == KindAccepted || s.Kind == KindImplemented
}

func (s Status) String() string {
	switch s.Kind {
	case KindInReview:
		return "In review"
	case KindAwaitingReview:
		return "Awaiting review"
	case KindAccepted:
		return "Accepted (awaiting implementation)"
	case KindImplemented:
		return fmt.Sprintf("Implemented (%s)", s.Version)
	case KindDeferred:
		return "Deferred"
	case KindRejected:
		return "Rejected"
	case KindWithdrawn:
		return "Withdrawn"
	}
	return "Unknown"
}

// Key returns the compact form used in exports and the catalog,
// e.g. "accepted" or "implemented-3.0.1".
func (s Status) Key() string {
	if s.Kind == KindImplemented {
		return string(s.Kind) + "-" + string(s.Version)
	}
	return string(s.Kind)
}

// ParseStatusKey is the inverse of Status.Key.
func ParseStatusKey(key string) (Status, error) {
	if v, ok := strings.CutPrefix(key, string(KindImplemented)+"-"); ok {
		version := SwiftVersion(v)
		if !version.IsValid() {
			return Status{}, fmt.Errorf("unknown swift version %q in status %q", v, key)
		}
		return Implemented(version), nil
	}
	switch kind := StatusKind(key); kind {
	case KindInReview, KindAwaitingReview, KindAccepted, KindDeferred, KindRejected, KindWithdrawn:
		return Status{Kind: kind}, nil
	}
	return Status{}, fmt.Errorf("unknown status %q", key)
}

// MarshalText encodes the status as its Key.
func (s Status) MarshalText() ([]byte, error) {
	if s.Kind == "" {
		return nil, fmt.Errorf("marshaling empty status")
	}
	return []byte(s.Key()), nil
}

// UnmarshalText decodes a Key produced by MarshalText.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatusKey(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Proposal is the metadata parsed from one proposal document. Values are
// built once per document and treated as read-only afterwards.
type Proposal struct {
	// Title is the document heading with Markdown markers removed.
	Title string `json:"title" yaml:"title"`

	// SENumber is the canonical identifier, e.g. "SE-0068".
	SENumber string `json:"se_number" yaml:"se_number"`

	// Authors lists author names in the order they appear in the header.
	Authors []string `json:"authors" yaml:"authors"`

	// Status is the review state from the header's status line.
	Status Status `json:"status" yaml:"status"`

	// FileName is the base name of the source document.
	FileName string `json:"file_name" yaml:"file_name"`

	// WordCount is an approximate count of words in the whole document.
	WordCount int `json:"word_count" yaml:"word_count"`
}

// Number returns the numeric suffix of SENumber ("SE-0068" is 68), or -1
// when SENumber is not in canonical form.
func (p Proposal) Number() int {
	digits, ok := strings.CutPrefix(p.SENumber, "SE-")
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return -1
	}
	return n
}

func (p Proposal) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", p.SENumber, p.Title)
	fmt.Fprintf(&b, "Author(s): %s\n", strings.Join(p.Authors, ", "))
	fmt.Fprintf(&b, "Status: %s\n", p.Status)
	fmt.Fprintf(&b, "Filename: %s\n", p.FileName)
	fmt.Fprintf(&b, "Word count: %d\n", p.WordCount)
	return b.String()
}
