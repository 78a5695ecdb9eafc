package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aptly-dev/aptly/deb"

	"github.com/declog-dev/declog/changelog"
	"github.com/declog-dev/declog/internal/feed"
	"github.com/declog-dev/declog/internal/log"
)

// ImportOptions controls turning project releases into changelog entries
type ImportOptions struct {
	Repository   string       // GitHub repository as "owner/repo"
	Path         string       // Changelog file to create or extend
	Package      string       // Package name, repo name when empty
	Distribution string       // Target distribution, config default when empty
	Urgency      string       // Urgency keyword, config default when empty
	Feed         feed.Options // Release type, tag and count filters
	All          bool         // Also import releases older than the current entry
}

// Import fetches the releases of a GitHub repository and prepends one
// changelog entry per release, oldest first. Releases whose version does
// not sort above the current entry are skipped unless All is set.
func (a *Application) Import(ctx context.Context, opts ImportOptions) error {
	source, err := feed.NewGithub(a.GitHubClient, opts.Repository, opts.Feed)
	if err != nil {
		return err
	}

	releases, err := source.Releases(ctx)
	if err != nil {
		return err
	}
	if len(releases) == 0 {
		return fmt.Errorf("no releases match in %s", source.Repository())
	}

	doc := changelog.New()
	if _, err := os.Stat(opts.Path); err == nil {
		doc, err = a.LoadChangelog(opts.Path, false)
		if err != nil {
			return err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	pkg := opts.Package
	if pkg == "" {
		pkg = doc.Package()
	}
	if pkg == "" {
		// Default to the repository name
		pkg = opts.Repository[strings.IndexByte(opts.Repository, '/')+1:]
	}

	distribution := opts.Distribution
	if distribution == "" {
		distribution = a.Config.Defaults.Distribution
	}
	urgency := opts.Urgency
	if urgency == "" {
		urgency = a.Config.Defaults.Urgency
	}

	if !a.Identity.IsComplete() {
		return errors.New("no identity configured: set identity in the config file, DEBFULLNAME/DEBEMAIL or git config")
	}
	author := a.Identity.Author()

	imported, skipped := 0, 0

	// Releases arrive newest first, prepending wants them oldest first
	for i := len(releases) - 1; i >= 0; i-- {
		release := releases[i]

		version, err := releaseVersion(release.Tag)
		if err != nil {
			slog.Warn("Skipping release with unusable tag", "tag", release.Tag, "error", err)
			skipped++
			continue
		}

		if !opts.All {
			if current := doc.RawVersion(); current != "" && deb.CompareVersions(version, current) <= 0 {
				slog.Debug("Skipping release at or below current entry", "tag", release.Tag, "current", current)
				skipped++
				continue
			}
		}

		block := buildBlock(pkg, version, distribution, urgency, author, release.PublishedAt, releaseNotes(release))
		doc.PrependBlock(block)
		imported++
	}

	if imported == 0 {
		slog.Info("Changelog already up to date", "repository", source.Repository(), "skipped", skipped)
		return nil
	}

	if err := writeChangelog(opts.Path, doc); err != nil {
		return err
	}

	slog.Info("Import complete", "repository", source.Repository(), "imported", imported, "skipped", skipped, log.Success())

	return nil
}

// releaseVersion derives a version string from a release tag. A leading v
// before a digit and any ref-style path prefix are stripped.
func releaseVersion(tag string) (string, error) {
	version := tag[strings.LastIndexByte(tag, '/')+1:]
	if len(version) > 1 && (version[0] == 'v' || version[0] == 'V') && version[1] >= '0' && version[1] <= '9' {
		version = version[1:]
	}

	if _, err := changelog.ParseVersion(version); err != nil {
		return "", err
	}
	return version, nil
}

// releaseNotes turns the release body into change notes, one bullet per
// non-blank line. Markdown list markers become the changelog bullet. Falls
// back to naming the release when the body is empty.
func releaseNotes(release feed.Release) []string {
	var notes []string
	for _, line := range strings.Split(strings.ReplaceAll(release.Notes, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		for _, marker := range []string{"- ", "* ", "+ "} {
			if rest, ok := strings.CutPrefix(trimmed, marker); ok {
				trimmed = strings.TrimSpace(rest)
				break
			}
		}
		notes = append(notes, trimmed)
	}

	if len(notes) == 0 {
		title := release.Title
		if title == "" {
			title = release.Tag
		}
		notes = []string{"New upstream release " + title + "."}
	}

	return notes
}
