package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/alitto/pond/v2"
	"github.com/google/go-github/v80/github"

	"github.com/declog-dev/declog/changelog"
	"github.com/declog-dev/declog/internal/common"
	"github.com/declog-dev/declog/internal/config"
)

// Application holds the initialized runtime components and configuration
type Application struct {
	Config       *config.Config
	MainPool     pond.Pool
	Downloader   *common.Downloader
	DeCompressor *common.DeCompressor
	Cache        *common.Cache
	GitHubClient *github.Client
	HTTPClient   *http.Client
	Identity     config.Identity
}

// New creates and initializes a new Application from configuration
func New(ctx context.Context, cfg *config.Config) *Application {
	// Worker pool sizes are already validated and defaulted in config
	mainPool := pond.NewPool(int(cfg.Workers.Lint), pond.WithContext(ctx), pond.WithoutPanicRecovery())

	httpClient := &http.Client{}

	var transport http.RoundTripper = &http.Transport{}
	if cfg.HTTP.UserAgent != "" {
		transport = &userAgentTransport{
			Base:      transport,
			UserAgent: cfg.HTTP.UserAgent,
		}
	}
	httpClient.Transport = transport

	if cfg.HTTP.Timeout > 0 {
		httpClient.Timeout = cfg.HTTP.Timeout
	}

	decompressor := common.NewDeCompressor(ctx, int(cfg.Workers.Download))
	downloader := common.NewDownloader(ctx, httpClient, int(cfg.Workers.Download), decompressor)
	cache := common.NewCache(downloader, cfg.GetCacheDir())

	githubClient := github.NewClient(httpClient)
	if cfg.GitHub.Token != "" {
		githubClient = githubClient.WithAuthToken(cfg.GitHub.Token)
	}

	return &Application{
		Config:       cfg,
		MainPool:     mainPool,
		Downloader:   downloader,
		DeCompressor: decompressor,
		Cache:        cache,
		GitHubClient: githubClient,
		HTTPClient:   httpClient,
		Identity:     cfg.ResolveIdentity(),
	}
}

// Shutdown gracefully stops all application components
func (a *Application) Shutdown() {
	if a.MainPool != nil {
		a.MainPool.StopAndWait()
	}
	if a.Downloader != nil {
		a.Downloader.Shutdown()
	}
	if a.DeCompressor != nil {
		a.DeCompressor.Shutdown()
	}
}

// parseOptions converts the configured parse settings into parser options.
// Leniency is decided per operation, the rest comes from config.
func (a *Application) parseOptions(lenient bool) []changelog.ParseOption {
	var opts []changelog.ParseOption
	if lenient {
		opts = append(opts, changelog.WithLenient())
	}
	if a.Config.Parse.AllowEmptyAuthor {
		opts = append(opts, changelog.WithAllowEmptyAuthor())
	}
	if a.Config.Parse.MaxBlocks > 0 {
		opts = append(opts, changelog.WithMaxBlocks(a.Config.Parse.MaxBlocks))
	}
	return opts
}

// LoadChangelog reads and parses a changelog file. The path "-" reads from
// standard input.
func (a *Application) LoadChangelog(path string, lenient bool) (*changelog.Changelog, error) {
	text, err := readInput(path)
	if err != nil {
		return nil, err
	}

	doc, err := changelog.Parse(text, a.parseOptions(lenient)...)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", displayPath(path), err)
	}

	return doc, nil
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading changelog: %w", err)
	}
	return string(data), nil
}

func displayPath(path string) string {
	if path == "-" {
		return "stdin"
	}
	return path
}

// userAgentTransport wraps an http.RoundTripper to set a custom User-Agent header
type userAgentTransport struct {
	Base      http.RoundTripper
	UserAgent string
}

// RoundTrip implements http.RoundTripper
func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())

	// Set User-Agent header if not already set
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}

	return t.Base.RoundTrip(req)
}
