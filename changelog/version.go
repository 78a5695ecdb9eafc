package changelog

import "strings"

// Version is a Debian package version split into its three components.
// The composite form is [epoch:]upstream[-revision]; the epoch is rendered
// only when present and not "0".
type Version struct {
	full     string
	epoch    string
	upstream string
	revision string
}

// ParseVersion parses a composite version string. The input is preserved
// verbatim for String, so a parsed "0:1.0-1" renders unchanged even though
// recomposing its components would drop the zero epoch.
func ParseVersion(s string) (*Version, error) {
	m := defaultGrammar.version.FindStringSubmatch(s)
	if m == nil {
		return nil, &VersionError{Version: s}
	}
	return &Version{full: s, epoch: m[1], upstream: m[2], revision: m[3]}, nil
}

// NewVersion composes a version from its components. The composite string
// is validated against the version grammar, and the stored components are
// re-derived from it.
func NewVersion(epoch, upstream, revision string) (*Version, error) {
	return ParseVersion(composeVersion(epoch, upstream, revision))
}

func composeVersion(epoch, upstream, revision string) string {
	var b strings.Builder
	if epoch != "" && epoch != "0" {
		b.WriteString(epoch)
		b.WriteByte(':')
	}
	b.WriteString(upstream)
	if revision != "" {
		b.WriteByte('-')
		b.WriteString(revision)
	}
	return b.String()
}

// String returns the composite version string.
func (v *Version) String() string { return v.full }

// Epoch returns the epoch component, empty when absent.
func (v *Version) Epoch() string { return v.epoch }

// Upstream returns the upstream version component.
func (v *Version) Upstream() string { return v.upstream }

// Revision returns the package revision component, empty when absent.
func (v *Version) Revision() string { return v.revision }

// Set re-parses a full composite string, replacing all components. The
// value is left unchanged when the string does not match the grammar.
func (v *Version) Set(s string) error {
	parsed, err := ParseVersion(s)
	if err != nil {
		return err
	}
	*v = *parsed
	return nil
}

// SetEpoch replaces the epoch and recomposes the full string.
func (v *Version) SetEpoch(epoch string) error {
	return v.recompose(epoch, v.upstream, v.revision)
}

// SetUpstream replaces the upstream version and recomposes the full string.
func (v *Version) SetUpstream(upstream string) error {
	return v.recompose(v.epoch, upstream, v.revision)
}

// SetRevision replaces the package revision and recomposes the full string.
func (v *Version) SetRevision(revision string) error {
	return v.recompose(v.epoch, v.upstream, revision)
}

// recompose renders the candidate components and re-parses the result, so
// every mutation goes through the same grammar as a fresh parse.
func (v *Version) recompose(epoch, upstream, revision string) error {
	return v.Set(composeVersion(epoch, upstream, revision))
}
