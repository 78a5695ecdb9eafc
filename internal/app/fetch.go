package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/declog-dev/declog/changelog"
	"github.com/declog-dev/declog/internal/log"
)

// packageNamePattern is the Debian source package name syntax
var packageNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.+-]+$`)

// FetchOptions select which changelog of a package to download
type FetchOptions struct {
	Suite     string // Suite whose current changelog to fetch
	Component string // Archive component, e.g. main
	Version   string // Explicit version instead of the suite's current one
}

// FetchResult is one changelog fetched from the mirror
type FetchResult struct {
	Package string
	Path    string
}

// Fetch downloads package changelogs from the changelog mirror. Cached
// copies are reused, packages are fetched in parallel.
func (a *Application) Fetch(ctx context.Context, opts FetchOptions, packages []string) ([]*FetchResult, error) {
	results := make([]*FetchResult, len(packages))

	group := a.MainPool.NewGroupContext(ctx)
	for i, pkg := range packages {
		group.SubmitErr(func() error {
			fileURL, parts, err := a.mirrorURL(opts, pkg)
			if err != nil {
				return err
			}

			slog.Info("Fetching changelog", "package", pkg, "file", parts[len(parts)-1])

			path, err := a.Cache.Fetch(ctx, fileURL, "", parts...)
			if err != nil {
				return fmt.Errorf("fetching changelog of %s: %w", pkg, err)
			}

			results[i] = &FetchResult{Package: pkg, Path: path}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	slog.Info("Fetch complete", "changelogs", len(results), log.Success())

	return results, nil
}

// FetchURL downloads a changelog from an explicit URL, decompressing it
// when the URL names a compressed file.
func (a *Application) FetchURL(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid changelog URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("changelog URL must be an http or https URL: %s", rawURL)
	}

	parts := append([]string{u.Host}, strings.Split(strings.Trim(u.Path, "/"), "/")...)

	path, err := a.Cache.Fetch(ctx, rawURL, "", parts...)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}

	slog.Info("Fetch complete", "url", rawURL, log.Success())

	return path, nil
}

// mirrorURL builds the changelog location on the mirror and the relative
// cache path for it.
func (a *Application) mirrorURL(opts FetchOptions, pkg string) (string, []string, error) {
	if !packageNamePattern.MatchString(pkg) {
		return "", nil, fmt.Errorf("invalid package name: %q", pkg)
	}

	base, err := url.Parse(a.Config.HTTP.Mirror)
	if err != nil {
		return "", nil, fmt.Errorf("invalid changelog mirror: %w", err)
	}

	name := opts.Suite + "_changelog"
	if opts.Version != "" {
		fileVersion, err := mirrorFileVersion(opts.Version)
		if err != nil {
			return "", nil, err
		}
		name = pkg + "_" + fileVersion + "_changelog"
	}

	parts := []string{opts.Component, poolPrefix(pkg), pkg, name}
	return base.JoinPath(parts...).String(), parts, nil
}

// mirrorFileVersion renders a version the way mirror file names carry it,
// without the epoch.
func mirrorFileVersion(version string) (string, error) {
	v, err := changelog.ParseVersion(version)
	if err != nil {
		return "", err
	}

	name := v.Upstream()
	if v.Revision() != "" {
		name += "-" + v.Revision()
	}
	return name, nil
}

// poolPrefix returns the pool subdirectory for a source package. Library
// packages are sharded by their first four characters, everything else by
// the first one.
func poolPrefix(pkg string) string {
	if strings.HasPrefix(pkg, "lib") && len(pkg) > 3 {
		return pkg[:4]
	}
	return pkg[:1]
}
