package cmd

import (
	"github.com/spf13/cobra"

	"github.com/declog-dev/declog/internal/app"
	"github.com/declog-dev/declog/internal/config"
	"github.com/declog-dev/declog/internal/feed"
)

var (
	importTypes   []string
	importTags    []string
	importLimit   int
	importAll     bool
	importPackage string
	importDist    string
	importUrgency string
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import releases as changelog entries",
	Long:  `Commands for importing package releases from external sources as changelog entries.`,
}

// importGithubCmd imports GitHub releases
var importGithubCmd = &cobra.Command{
	Use:   "github <owner>/<repo> [file]",
	Short: "Import GitHub releases as changelog entries",
	Long: `Import the releases of a GitHub repository as changelog entries.

Each release becomes one entry: the version comes from the tag with a
leading v stripped, the change notes from the release body and the date
from the publish time. Releases at or below the changelog's current
version are skipped unless --all is given; entries are prepended oldest
first so the changelog stays ordered. Only normal releases are listed by
default; use --type to include pre-releases or drafts. Set github.token
in the configuration or GITHUB_TOKEN for private repositories and higher
rate limits.

Examples:
  declog import github hydrant/hydrant-ng
  declog import github hydrant/hydrant-ng --tags 'v*' --tags '!*-rc*'
  declog import github hydrant/hydrant-ng --type release --type pre-release
  declog import github hydrant/hydrant-ng --limit 5 ./changelog`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runImportGithub,
}

func init() {
	importGithubCmd.Flags().StringArrayVar(&importTypes, "type", nil, "release types to include: release, pre-release, draft (repeatable)")
	importGithubCmd.Flags().StringArrayVar(&importTags, "tags", nil, "tag glob patterns, prefix ! to exclude (repeatable)")
	importGithubCmd.Flags().IntVar(&importLimit, "limit", 0, "stop after this many matching releases")
	importGithubCmd.Flags().BoolVar(&importAll, "all", false, "import releases even at or below the current version")
	importGithubCmd.Flags().StringVar(&importPackage, "package", "", "package name (default: the file's, then the repository name)")
	importGithubCmd.Flags().StringVar(&importDist, "dist", "", "target distribution (default from config)")
	importGithubCmd.Flags().StringVar(&importUrgency, "urgency", "", "urgency keyword (default from config)")

	importCmd.AddCommand(importGithubCmd)
	rootCmd.AddCommand(importCmd)
}

func runImportGithub(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	releaseTypes, err := feed.ParseReleaseTypes(importTypes)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	application := app.New(ctx, cfg)
	defer application.Shutdown()

	path := defaultChangelog
	if len(args) == 2 {
		path = args[1]
	}

	return application.Import(ctx, app.ImportOptions{
		Repository:   args[0],
		Path:         path,
		Package:      importPackage,
		Distribution: importDist,
		Urgency:      importUrgency,
		All:          importAll,
		Feed: feed.Options{
			Releases: releaseTypes,
			Tags:     importTags,
			Limit:    importLimit,
		},
	})
}
