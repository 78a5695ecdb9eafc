// Package feed lists package releases from external sources so they can be
// turned into changelog entries.
package feed

import (
	"fmt"
	"time"
)

// ReleaseType represents a GitHub release type
type ReleaseType string

// Release type constants
const (
	ReleaseTypeRelease    ReleaseType = "release"     // Normal release (not draft, not prerelease)
	ReleaseTypePrerelease ReleaseType = "pre-release" // Pre-release
	ReleaseTypeDraft      ReleaseType = "draft"       // Draft release
)

func (r ReleaseType) String() string {
	return string(r)
}

// ParseReleaseTypes converts release type names as given on the command line
// into ReleaseType constants.
func ParseReleaseTypes(names []string) ([]ReleaseType, error) {
	if len(names) == 0 {
		return nil, nil
	}

	types := make([]ReleaseType, 0, len(names))
	for _, name := range names {
		switch ReleaseType(name) {
		case ReleaseTypeRelease, ReleaseTypePrerelease, ReleaseTypeDraft:
			types = append(types, ReleaseType(name))
		default:
			return nil, fmt.Errorf("unknown release type %q, expected one of: release, pre-release, draft", name)
		}
	}

	return types, nil
}

// Release is one published release of a followed project
type Release struct {
	Tag         string      // Tag name, e.g. "v1.2.3"
	Title       string      // Release title
	Notes       string      // Release notes body
	URL         string      // Link to the release page
	PublishedAt time.Time   // Publication time, creation time for drafts
	Type        ReleaseType // Classified release type
}

// Options filters which releases a feed returns
type Options struct {
	// Release types to include, empty means only normal releases
	Releases []ReleaseType

	// Tag name filters (glob patterns, ! prefix for negation)
	Tags []string

	// Maximum number of releases to return, newest first. Zero means all.
	Limit int
}
