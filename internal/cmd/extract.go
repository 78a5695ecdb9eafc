package cmd

import (
	"github.com/spf13/cobra"

	"github.com/declog-dev/declog/internal/app"
	"github.com/declog-dev/declog/internal/config"
)

var extractOut string

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <package.deb>",
	Short: "Extract the changelog from a Debian package",
	Long: `Extract the changelog shipped inside a Debian binary package.

The package's data archive is searched for the documentation directory;
changelog.Debian is preferred over the plain upstream changelog. Compressed
members are decompressed transparently.

Examples:
  declog extract hydrant_0.9.4-1_amd64.deb
  declog extract hydrant_0.9.4-1_amd64.deb -o changelog`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "write the changelog to this file instead of stdout")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	application := app.New(cmd.Context(), cfg)
	defer application.Shutdown()

	chl, err := application.ExtractChangelog(args[0])
	if err != nil {
		return err
	}

	return writeOutput(extractOut, []byte(chl.Content))
}
