package changelog

import (
	"fmt"
	"slices"
	"strings"
)

const (
	// defaultUrgency is assumed until a heading provides one.
	defaultUrgency = "unknown"
	// defaultSeparator sits between author and date in a canonical trailer.
	defaultSeparator = "  "
)

// Urgencies are the urgency keywords Debian policy defines for the heading
// urgency field.
var Urgencies = []string{"low", "medium", "high", "emergency", "critical"}

// KnownUrgency reports whether s is one of the policy urgency keywords.
func KnownUrgency(s string) bool {
	return slices.Contains(Urgencies, strings.ToLower(s))
}

// Pair is one additional key=value entry from a heading line.
type Pair struct {
	Key   string
	Value string
}

// ChangeBlock is a single changelog entry: the heading fields, the change
// notes, the author/date trailer and any annotation lines that follow the
// entry without belonging to the next one.
type ChangeBlock struct {
	Package        string
	Distributions  string
	Urgency        string
	UrgencyComment string
	Author         string
	Date           string

	rawVersion string
	changes    []string
	trailing   []string
	otherPairs []Pair
	noTrailer  bool
	trailerSep string
}

// NewChangeBlock returns an empty block with the default urgency and the
// canonical trailer separator.
func NewChangeBlock() *ChangeBlock {
	return &ChangeBlock{Urgency: defaultUrgency, trailerSep: defaultSeparator}
}

// Version parses the block's version string. Headings are stored verbatim,
// so the grammar is only applied here.
func (b *ChangeBlock) Version() (*Version, error) {
	return ParseVersion(b.rawVersion)
}

// RawVersion returns the version string exactly as it appeared in the
// heading.
func (b *ChangeBlock) RawVersion() string { return b.rawVersion }

// SetVersion replaces the block's version.
func (b *ChangeBlock) SetVersion(v *Version) { b.rawVersion = v.String() }

// SetRawVersion replaces the version string verbatim, without validation.
func (b *ChangeBlock) SetRawVersion(s string) { b.rawVersion = s }

// Changes returns the change-note lines. A nil result means the block has
// never had notes attached, which is distinct from an empty note body.
func (b *ChangeBlock) Changes() []string { return slices.Clone(b.changes) }

// AddChange inserts a change line. A run of blank lines at the end of the
// entry stays at the end: the line lands right after the last non-blank
// note.
func (b *ChangeBlock) AddChange(change string) {
	if b.changes == nil {
		b.changes = []string{change}
		return
	}
	for i := len(b.changes) - 1; i >= 0; i-- {
		if strings.TrimSpace(b.changes[i]) != "" {
			b.changes = slices.Insert(b.changes, i+1, change)
			return
		}
	}
	b.changes = append(b.changes, change)
}

// Trailing returns the annotation lines following the block.
func (b *ChangeBlock) Trailing() []string { return slices.Clone(b.trailing) }

// AddTrailingLine appends an annotation line after the block.
func (b *ChangeBlock) AddTrailingLine(line string) {
	b.trailing = append(b.trailing, line)
}

// NoTrailer reports whether the block was finalized without a trailer
// line, as happens when lenient parsing recovers a truncated document.
func (b *ChangeBlock) NoTrailer() bool { return b.noTrailer }

// TrailerSeparator returns the separator between author and date,
// preserved verbatim even when it is not the canonical two spaces.
func (b *ChangeBlock) TrailerSeparator() string { return b.trailerSep }

// OtherPairs returns the additional heading pairs in insertion order.
func (b *ChangeBlock) OtherPairs() []Pair { return slices.Clone(b.otherPairs) }

// SetOtherPair sets key to value, replacing an entry with the same exact
// key in place and appending otherwise.
func (b *ChangeBlock) SetOtherPair(key, value string) {
	for i, p := range b.otherPairs {
		if p.Key == key {
			b.otherPairs[i].Value = value
			return
		}
	}
	b.otherPairs = append(b.otherPairs, Pair{Key: key, Value: value})
}

// NormalizedPairs returns the additional pairs with keys case-normalized
// and an XS- prefix applied to keys outside the X{B,C,S}- convention.
func (b *ChangeBlock) NormalizedPairs() []Pair {
	pairs := make([]Pair, 0, len(b.otherPairs))
	for _, p := range b.otherPairs {
		key := p.Key
		if key != "" {
			key = strings.ToUpper(key[:1]) + strings.ToLower(key[1:])
			if !defaultGrammar.xbcsKey.MatchString(key) {
				key = "XS-" + key
			}
		}
		pairs = append(pairs, Pair{Key: key, Value: p.Value})
	}
	return pairs
}

// Render serializes the block with every line newline-terminated. It fails
// when a mandatory field is unset; author and date are only mandatory when
// the block carries a trailer.
func (b *ChangeBlock) Render() (string, error) {
	if b.Package == "" {
		return "", &CreateError{Field: "package"}
	}
	if b.rawVersion == "" {
		return "", &CreateError{Field: "version"}
	}
	if b.Distributions == "" {
		return "", &CreateError{Field: "distribution"}
	}
	if b.Urgency == "" {
		return "", &CreateError{Field: "urgency"}
	}
	if b.changes == nil {
		return "", &CreateError{Field: "changes"}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s) %s; urgency=%s%s", b.Package, b.rawVersion, b.Distributions, b.Urgency, b.UrgencyComment)
	for _, p := range b.otherPairs {
		fmt.Fprintf(&sb, ", %s=%s", p.Key, p.Value)
	}
	sb.WriteByte('\n')
	for _, change := range b.changes {
		sb.WriteString(change)
		sb.WriteByte('\n')
	}
	if !b.noTrailer {
		if b.Author == "" {
			return "", &CreateError{Field: "author"}
		}
		if b.Date == "" {
			return "", &CreateError{Field: "date"}
		}
		sb.WriteString(" -- ")
		sb.WriteString(b.Author)
		sb.WriteString(b.trailerSep)
		sb.WriteString(b.Date)
		sb.WriteByte('\n')
	}
	for _, line := range b.trailing {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
