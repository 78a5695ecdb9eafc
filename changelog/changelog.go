// Package changelog reads and writes Debian changelog files: ordered
// release entries carrying a package name, a structured version
// identifier, target distributions, an urgency classification, free-form
// change notes and an author/date trailer. Parsing is a single forward
// pass over in-memory lines, and a strictly parsed document renders back
// byte for byte.
//
// Version ordering is deliberately not implemented here; callers that need
// to compare versions should use a Debian version comparison such as
// aptly's deb.CompareVersions.
package changelog

import (
	"io"
	"slices"
	"strings"
)

// Changelog is an ordered sequence of change blocks, newest first, plus
// the blank lines that preceded the first heading.
type Changelog struct {
	blocks            []*ChangeBlock
	initialBlankLines []string
	warnings          []*ParseError
}

// New returns an empty changelog.
func New() *Changelog { return &Changelog{} }

// Blocks returns the change blocks, newest first.
func (c *Changelog) Blocks() []*ChangeBlock { return slices.Clone(c.blocks) }

// InitialBlankLines returns the lines that preceded the first heading.
func (c *Changelog) InitialBlankLines() []string {
	return slices.Clone(c.initialBlankLines)
}

// Warnings returns the recoverable errors recorded by a lenient parse.
func (c *Changelog) Warnings() []*ParseError { return slices.Clone(c.warnings) }

// Current returns the newest block, or nil for an empty changelog.
func (c *Changelog) Current() *ChangeBlock {
	if len(c.blocks) == 0 {
		return nil
	}
	return c.blocks[0]
}

// Version parses the newest block's version.
func (c *Changelog) Version() (*Version, error) {
	b := c.Current()
	if b == nil {
		return nil, ErrNoBlocks
	}
	return b.Version()
}

// RawVersion returns the newest block's version string verbatim, or the
// empty string for an empty changelog.
func (c *Changelog) RawVersion() string {
	if b := c.Current(); b != nil {
		return b.RawVersion()
	}
	return ""
}

// Package returns the newest block's package name.
func (c *Changelog) Package() string {
	if b := c.Current(); b != nil {
		return b.Package
	}
	return ""
}

// Distributions returns the newest block's distributions.
func (c *Changelog) Distributions() string {
	if b := c.Current(); b != nil {
		return b.Distributions
	}
	return ""
}

// Urgency returns the newest block's urgency.
func (c *Changelog) Urgency() string {
	if b := c.Current(); b != nil {
		return b.Urgency
	}
	return ""
}

// Author returns the newest block's author.
func (c *Changelog) Author() string {
	if b := c.Current(); b != nil {
		return b.Author
	}
	return ""
}

// Date returns the newest block's date string.
func (c *Changelog) Date() string {
	if b := c.Current(); b != nil {
		return b.Date
	}
	return ""
}

// Versions parses every block's version, newest first.
func (c *Changelog) Versions() ([]*Version, error) {
	versions := make([]*Version, 0, len(c.blocks))
	for _, b := range c.blocks {
		v, err := b.Version()
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, nil
}

// RawVersions returns every block's version string verbatim, newest first.
func (c *Changelog) RawVersions() []string {
	raw := make([]string, 0, len(c.blocks))
	for _, b := range c.blocks {
		raw = append(raw, b.RawVersion())
	}
	return raw
}

// SetVersion replaces the newest block's version.
func (c *Changelog) SetVersion(v *Version) error {
	b := c.Current()
	if b == nil {
		return ErrNoBlocks
	}
	b.SetVersion(v)
	return nil
}

// SetVersionString parses s and replaces the newest block's version.
func (c *Changelog) SetVersionString(s string) error {
	v, err := ParseVersion(s)
	if err != nil {
		return err
	}
	return c.SetVersion(v)
}

// SetPackage renames the newest block's package.
func (c *Changelog) SetPackage(name string) error {
	b := c.Current()
	if b == nil {
		return ErrNoBlocks
	}
	b.Package = name
	return nil
}

// SetDistributions replaces the newest block's distributions.
func (c *Changelog) SetDistributions(distributions string) error {
	b := c.Current()
	if b == nil {
		return ErrNoBlocks
	}
	b.Distributions = distributions
	return nil
}

// SetUrgency replaces the newest block's urgency.
func (c *Changelog) SetUrgency(urgency string) error {
	b := c.Current()
	if b == nil {
		return ErrNoBlocks
	}
	b.Urgency = urgency
	return nil
}

// SetAuthor replaces the newest block's author ("name <email>").
func (c *Changelog) SetAuthor(author string) error {
	b := c.Current()
	if b == nil {
		return ErrNoBlocks
	}
	b.Author = author
	return nil
}

// SetDate replaces the newest block's date string.
func (c *Changelog) SetDate(date string) error {
	b := c.Current()
	if b == nil {
		return ErrNoBlocks
	}
	b.Date = date
	return nil
}

// AddChange inserts a change line into the newest block, keeping any
// trailing blank run at the end of the entry.
func (c *Changelog) AddChange(change string) error {
	b := c.Current()
	if b == nil {
		return ErrNoBlocks
	}
	b.AddChange(change)
	return nil
}

// PrependBlock inserts b as the newest entry, appending one blank trailing
// line to it so entries stay separated when rendered.
func (c *Changelog) PrependBlock(b *ChangeBlock) {
	b.AddTrailingLine("")
	c.blocks = slices.Insert(c.blocks, 0, b)
}

// Render serializes the whole changelog: the leading blank lines first,
// then every block in order.
func (c *Changelog) Render() (string, error) {
	var sb strings.Builder
	for _, line := range c.initialBlankLines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	for _, b := range c.blocks {
		s, err := b.Render()
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// WriteTo implements io.WriterTo using Render.
func (c *Changelog) WriteTo(w io.Writer) (int64, error) {
	s, err := c.Render()
	if err != nil {
		return 0, err
	}
	n, err := io.WriteString(w, s)
	return int64(n), err
}
