package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a go-github client at a local test server
func newTestClient(t *testing.T, handler http.Handler) *github.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := github.NewClient(srv.Client())
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	return client
}

// releasesHandler serves two pages of releases for hydrant/hydrant-ng,
// newest first as the real API does
func releasesHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/hydrant/hydrant-ng/releases", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[
				{"tag_name": "v0.9.0", "name": "Hydrant 0.9", "published_at": "2026-01-01T12:00:00Z"}
			]`)
			return
		}

		w.Header().Set("Link", fmt.Sprintf(`<http://%s/repos/hydrant/hydrant-ng/releases?page=2>; rel="next"`, r.Host))
		fmt.Fprint(w, `[
			{"tag_name": "untagged-draft", "name": "Upcoming", "draft": true, "created_at": "2026-04-01T08:00:00Z"},
			{"tag_name": "v1.1.0-rc1", "name": "Hydrant 1.1 RC 1", "prerelease": true, "published_at": "2026-03-01T12:00:00Z"},
			{"tag_name": "v1.0.0", "name": "Hydrant 1.0", "body": "- First stable release", "html_url": "https://github.com/hydrant/hydrant-ng/releases/tag/v1.0.0", "published_at": "2026-02-01T12:00:00Z"},
			{"tag_name": "nightly-20260105", "name": "Nightly build", "published_at": "2026-01-05T00:00:00Z"}
		]`)
	})
	return mux
}

func TestNewGithub(t *testing.T) {
	t.Run("parses owner and repo", func(t *testing.T) {
		feed, err := NewGithub(github.NewClient(nil), "hydrant/hydrant-ng", Options{})
		require.NoError(t, err)
		assert.Equal(t, "hydrant/hydrant-ng", feed.Repository())
	})

	t.Run("rejects name without owner", func(t *testing.T) {
		_, err := NewGithub(github.NewClient(nil), "hydrant-ng", Options{})
		assert.ErrorContains(t, err, "owner/repo")
	})

	t.Run("rejects empty repo part", func(t *testing.T) {
		_, err := NewGithub(github.NewClient(nil), "hydrant/", Options{})
		assert.ErrorContains(t, err, "owner/repo")
	})
}

func TestGithubReleases(t *testing.T) {
	client := newTestClient(t, releasesHandler())

	t.Run("lists normal releases across pages", func(t *testing.T) {
		feed, err := NewGithub(client, "hydrant/hydrant-ng", Options{})
		require.NoError(t, err)

		releases, err := feed.Releases(context.Background())
		require.NoError(t, err)
		require.Len(t, releases, 3)

		assert.Equal(t, "v1.0.0", releases[0].Tag)
		assert.Equal(t, "nightly-20260105", releases[1].Tag)
		assert.Equal(t, "v0.9.0", releases[2].Tag)

		assert.Equal(t, ReleaseTypeRelease, releases[0].Type)
		assert.Equal(t, "Hydrant 1.0", releases[0].Title)
		assert.Equal(t, "- First stable release", releases[0].Notes)
		assert.Equal(t, "https://github.com/hydrant/hydrant-ng/releases/tag/v1.0.0", releases[0].URL)
		assert.Equal(t, time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC), releases[0].PublishedAt)
	})

	t.Run("includes prereleases when configured", func(t *testing.T) {
		feed, err := NewGithub(client, "hydrant/hydrant-ng", Options{
			Releases: []ReleaseType{ReleaseTypeRelease, ReleaseTypePrerelease},
		})
		require.NoError(t, err)

		releases, err := feed.Releases(context.Background())
		require.NoError(t, err)
		require.Len(t, releases, 4)
		assert.Equal(t, "v1.1.0-rc1", releases[0].Tag)
		assert.Equal(t, ReleaseTypePrerelease, releases[0].Type)
	})

	t.Run("drafts fall back to creation time", func(t *testing.T) {
		feed, err := NewGithub(client, "hydrant/hydrant-ng", Options{
			Releases: []ReleaseType{ReleaseTypeDraft},
		})
		require.NoError(t, err)

		releases, err := feed.Releases(context.Background())
		require.NoError(t, err)
		require.Len(t, releases, 1)
		assert.Equal(t, "untagged-draft", releases[0].Tag)
		assert.Equal(t, time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC), releases[0].PublishedAt)
	})

	t.Run("filters tags with glob patterns", func(t *testing.T) {
		feed, err := NewGithub(client, "hydrant/hydrant-ng", Options{
			Releases: []ReleaseType{ReleaseTypeRelease, ReleaseTypePrerelease, ReleaseTypeDraft},
			Tags:     []string{"v*", "!*-rc*"},
		})
		require.NoError(t, err)

		releases, err := feed.Releases(context.Background())
		require.NoError(t, err)
		require.Len(t, releases, 2)
		assert.Equal(t, "v1.0.0", releases[0].Tag)
		assert.Equal(t, "v0.9.0", releases[1].Tag)
	})

	t.Run("limit returns newest matches only", func(t *testing.T) {
		feed, err := NewGithub(client, "hydrant/hydrant-ng", Options{Limit: 1})
		require.NoError(t, err)

		releases, err := feed.Releases(context.Background())
		require.NoError(t, err)
		require.Len(t, releases, 1)
		assert.Equal(t, "v1.0.0", releases[0].Tag)
	})
}
