package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aptly-dev/aptly/deb"

	"github.com/declog-dev/declog/changelog"
	"github.com/declog-dev/declog/internal/log"
)

// NewEntryOptions controls creating a changelog entry
type NewEntryOptions struct {
	Path         string    // Changelog file, created when missing
	Package      string    // Package name, defaults to the file's current one
	Version      string    // Explicit version for the entry
	Bump         bool      // Derive the version by bumping the newest entry
	Distribution string    // Target distribution, config default when empty
	Urgency      string    // Urgency keyword, config default when empty
	Changes      []string  // Change notes, a placeholder bullet when empty
	Author       string    // "Name <email>", resolved identity when empty
	Date         time.Time // Entry date, now when zero
}

// NewEntry prepends a new entry to a changelog file, creating the file
// when it does not exist yet.
func (a *Application) NewEntry(opts NewEntryOptions) error {
	doc := changelog.New()
	if _, err := os.Stat(opts.Path); err == nil {
		// Extending a broken changelog would bake the damage in, so
		// existing files are parsed strictly
		var loadErr error
		doc, loadErr = a.LoadChangelog(opts.Path, false)
		if loadErr != nil {
			return loadErr
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	pkg := opts.Package
	if pkg == "" {
		pkg = doc.Package()
	}
	if pkg == "" {
		return errors.New("package name required for a new changelog")
	}

	version, err := a.entryVersion(doc, opts)
	if err != nil {
		return err
	}

	urgency := opts.Urgency
	if urgency == "" {
		urgency = a.Config.Defaults.Urgency
	}
	if !changelog.KnownUrgency(urgency) {
		return fmt.Errorf("urgency %q is not one of %s", urgency, strings.Join(changelog.Urgencies, ", "))
	}

	distribution := opts.Distribution
	if distribution == "" {
		distribution = a.Config.Defaults.Distribution
	}

	author := opts.Author
	if author == "" {
		if !a.Identity.IsComplete() {
			return errors.New("no identity configured: set identity in the config file, DEBFULLNAME/DEBEMAIL or git config")
		}
		author = a.Identity.Author()
	}

	date := opts.Date
	if date.IsZero() {
		date = time.Now()
	}

	block := buildBlock(pkg, version, distribution, urgency, author, date, opts.Changes)
	doc.PrependBlock(block)

	if err := writeChangelog(opts.Path, doc); err != nil {
		return err
	}

	slog.Info("Added changelog entry", "package", pkg, "version", version, log.Success())

	return nil
}

// entryVersion picks the version for the new entry, either given
// explicitly or bumped from the newest existing one.
func (a *Application) entryVersion(doc *changelog.Changelog, opts NewEntryOptions) (string, error) {
	switch {
	case opts.Version != "" && opts.Bump:
		return "", errors.New("version and bump are mutually exclusive")
	case opts.Bump:
		current := doc.RawVersion()
		if current == "" {
			return "", errors.New("cannot bump: changelog has no entries")
		}
		return bumpVersion(current)
	case opts.Version != "":
		if _, err := changelog.ParseVersion(opts.Version); err != nil {
			return "", err
		}
		if current := doc.RawVersion(); current != "" && deb.CompareVersions(opts.Version, current) <= 0 {
			slog.Warn("New version does not sort above the current entry", "version", opts.Version, "current", current)
		}
		return opts.Version, nil
	default:
		return "", errors.New("a version or bump is required")
	}
}

// buildBlock assembles a canonical entry: blank line, notes, blank line
func buildBlock(pkg, version, distribution, urgency, author string, date time.Time, notes []string) *changelog.ChangeBlock {
	block := changelog.NewChangeBlock()
	block.Package = pkg
	block.SetRawVersion(version)
	block.Distributions = distribution
	block.Urgency = urgency
	block.Author = author
	block.Date = date.Format(debianDateLayout)

	block.AddChange("")
	if len(notes) == 0 {
		// Placeholder bullet for hand editing
		block.AddChange("  *")
	}
	for _, note := range notes {
		block.AddChange(formatChangeNote(note))
	}
	block.AddChange("")

	return block
}

// formatChangeNote turns a plain note into a changelog bullet line. Notes
// that already carry changelog indentation pass through verbatim.
func formatChangeNote(note string) string {
	if note == "" {
		return "  *"
	}
	if strings.HasPrefix(note, " ") {
		return note
	}
	return "  * " + note
}

// bumpVersion increments the revision of a version string. Without a
// revision one is started at 1, a trailing number is incremented and kept
// in place otherwise.
func bumpVersion(raw string) (string, error) {
	v, err := changelog.ParseVersion(raw)
	if err != nil {
		return "", err
	}

	if v.Revision() == "" {
		if err := v.SetRevision("1"); err != nil {
			return "", err
		}
		return v.String(), nil
	}

	if err := v.SetRevision(bumpNumericTail(v.Revision())); err != nil {
		return "", err
	}
	return v.String(), nil
}

// bumpNumericTail increments the trailing digit run, "1ubuntu3" becomes
// "1ubuntu4". Without trailing digits a 1 is appended.
func bumpNumericTail(s string) string {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s + "1"
	}

	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return s + "1"
	}
	return s[:i] + strconv.Itoa(n+1)
}

// writeChangelog serializes the document back to disk
func writeChangelog(path string, doc *changelog.Changelog) error {
	text, err := doc.Render()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("writing changelog: %w", err)
	}

	return nil
}
