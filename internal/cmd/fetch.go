package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/declog-dev/declog/internal/app"
	"github.com/declog-dev/declog/internal/config"
)

var (
	fetchSuite     string
	fetchComponent string
	fetchFromURL   string
	fetchOut       string
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch <package> [version]",
	Short: "Download a changelog from the Debian mirror",
	Long: `Download a package's changelog from the Debian changelog mirror.

Without a version the changelog of the package's current version in the
given suite is fetched. Downloads land in the cache directory and are
reused; compressed files are decompressed transparently.

Examples:
  declog fetch hydrant                      # Current changelog in unstable
  declog fetch hydrant 0.9.3-1              # A specific version
  declog fetch hydrant --suite stable       # Current changelog in stable
  declog fetch --url https://example.com/changelog.gz`,
	Args: cobra.MaximumNArgs(2),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchSuite, "suite", "unstable", "suite whose current changelog to fetch")
	fetchCmd.Flags().StringVar(&fetchComponent, "component", "main", "archive component")
	fetchCmd.Flags().StringVar(&fetchFromURL, "url", "", "download from this URL instead of the mirror")
	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "write the changelog to this file instead of stdout")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	application := app.New(ctx, cfg)
	defer application.Shutdown()

	var path string
	switch {
	case fetchFromURL != "":
		if len(args) > 0 {
			return errors.New("cannot combine --url with a package name")
		}
		path, err = application.FetchURL(ctx, fetchFromURL)
		if err != nil {
			return err
		}
	case len(args) == 0:
		return errors.New("specify a package name or --url")
	default:
		opts := app.FetchOptions{Suite: fetchSuite, Component: fetchComponent}
		if len(args) == 2 {
			opts.Version = args[1]
		}

		results, err := application.Fetch(ctx, opts, args[:1])
		if err != nil {
			return err
		}
		path = results[0].Path
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return writeOutput(fetchOut, data)
}
