package changelog

import (
	"errors"
	"fmt"
)

// ErrNoBlocks is returned by document-level accessors and setters that
// need at least one entry to operate on.
var ErrNoBlocks = errors.New("changelog has no entries")

// VersionError reports a version string that does not match the
// [epoch:]upstream[-revision] grammar.
type VersionError struct {
	Version string // the offending string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("could not parse version: %s", e.Version)
}

// ParseError reports a changelog grammar violation. Strict parses abort
// with it; lenient parses record it as a warning on the document and
// continue.
type ParseError struct {
	Message string // includes the offending line and scanner state
}

func (e *ParseError) Error() string {
	return "could not parse changelog: " + e.Message
}

// CreateError reports a block that cannot be serialized because a
// mandatory field is unset. It is never produced while parsing.
type CreateError struct {
	Field string // name of the missing field
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("could not create changelog: %s not specified", e.Field)
}
