package feed

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/go-github/v80/github"

	"github.com/declog-dev/declog/internal/common"
)

// Github lists releases of a GitHub repository
type Github struct {
	options Options
	client  *github.Client
	owner   string
	repo    string
}

// NewGithub creates a new Github feed for a repository given as "owner/repo"
func NewGithub(client *github.Client, repository string, options Options) (*Github, error) {
	parts := strings.SplitN(repository, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("repository must be in format 'owner/repo', got: %s", repository)
	}

	return &Github{
		options: options,
		client:  client,
		owner:   parts[0],
		repo:    parts[1],
	}, nil
}

// Repository returns the feed source as "owner/repo"
func (s *Github) Repository() string {
	return s.owner + "/" + s.repo
}

// Releases returns the repository releases that pass the configured type and
// tag filters, newest first as GitHub lists them.
func (s *Github) Releases(ctx context.Context) ([]Release, error) {
	var out []Release

	opt := &github.ListOptions{PerPage: 100}
	for {
		releases, resp, err := s.client.Repositories.ListReleases(ctx, s.owner, s.repo, opt)
		if err != nil {
			return nil, fmt.Errorf("listing releases of %s: %w", s.Repository(), err)
		}

		for _, release := range releases {
			if !s.matchesReleaseType(release) {
				continue
			}

			if !common.MatchesGlobPatterns(s.options.Tags, release.GetTagName()) {
				continue
			}

			out = append(out, newRelease(release))
			if s.options.Limit > 0 && len(out) == s.options.Limit {
				return out, nil
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	return out, nil
}

// matchesReleaseType checks if a release matches the configured release type filters.
func (s *Github) matchesReleaseType(release *github.RepositoryRelease) bool {
	// No filter = only normal releases
	if len(s.options.Releases) == 0 {
		return classifyRelease(release) == ReleaseTypeRelease
	}

	return slices.Contains(s.options.Releases, classifyRelease(release))
}

func classifyRelease(release *github.RepositoryRelease) ReleaseType {
	switch {
	case release.GetDraft():
		return ReleaseTypeDraft
	case release.GetPrerelease():
		return ReleaseTypePrerelease
	default:
		return ReleaseTypeRelease
	}
}

func newRelease(release *github.RepositoryRelease) Release {
	// Drafts have no publication time yet
	published := release.GetPublishedAt().Time
	if published.IsZero() {
		published = release.GetCreatedAt().Time
	}

	return Release{
		Tag:         release.GetTagName(),
		Title:       release.GetName(),
		Notes:       release.GetBody(),
		URL:         release.GetHTMLURL(),
		PublishedAt: published,
		Type:        classifyRelease(release),
	}
}
