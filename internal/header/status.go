// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package header

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/pdiddy/proposal-analyzer/pkg/types"
)

// statusRule maps a phrase found anywhere in the status remainder to a
// status kind.
type statusRule struct {
	phrase string
	kind   types.StatusKind
}

// statusRules is evaluated top to bottom and the first match wins. Accepted
// sits above Implemented, so "Accepted, later Implemented (Swift 3.0)" is
// Accepted.
var statusRules = []statusRule{
	{"Active Review", types.KindInReview},
	{"Awaiting Review", types.KindAwaitingReview},
	{"Accepted", types.KindAccepted},
	{"Implemented", types.KindImplemented},
	{"Deferred", types.KindDeferred},
	{"Rejected", types.KindRejected},
	{"Withdrawn", types.KindWithdrawn},
}

// versionRule maps a release phrase to a Swift version.
type versionRule struct {
	phrase  string
	version types.SwiftVersion
}

// versionRules lists longer phrases before any phrase they start with:
// "Swift 3.0.1" before "Swift 3.0" before "Swift 3".
var versionRules = []versionRule{
	{"Swift 2.2", types.Swift2_2},
	{"Swift 2.3", types.Swift2_3},
	{"Swift 3.1", types.Swift3_1},
	{"Swift 3.0.1", types.Swift3_0_1},
	{"Swift 3.0", types.Swift3_0},
	{"Swift 3", types.Swift3_0},
}

// containsFold reports whether phrase occurs in text under Unicode case
// folding. A Caser is stateful, so each call makes its own.
func containsFold(text, phrase string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(text), fold.String(phrase))
}

// ResolveStatus maps a status remainder onto a Status. An implemented
// status also resolves its Swift version. Text matching no rule yields an
// UnrecognizedStatusError.
func ResolveStatus(text string) (types.Status, error) {
	for _, rule := range statusRules {
		if !containsFold(text, rule.phrase) {
			continue
		}
		if rule.kind != types.KindImplemented {
			return types.Status{Kind: rule.kind}, nil
		}
		version, err := ResolveVersion(text)
		if err != nil {
			return types.Status{}, err
		}
		return types.Implemented(version), nil
	}
	return types.Status{}, &UnrecognizedStatusError{Text: text}
}

// ResolveVersion finds the Swift release named in text. Text naming no
// known release yields an UnrecognizedVersionError.
func ResolveVersion(text string) (types.SwiftVersion, error) {
	for _, rule := range versionRules {
		if containsFold(text, rule.phrase) {
			return rule.version, nil
		}
	}
	return "", &UnrecognizedVersionError{Text: text}
}
