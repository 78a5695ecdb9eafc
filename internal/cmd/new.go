package cmd

import (
	"github.com/spf13/cobra"

	"github.com/declog-dev/declog/internal/app"
	"github.com/declog-dev/declog/internal/config"
)

var (
	newPackage  string
	newVersion  string
	newBump     bool
	newDist     string
	newUrgency  string
	newMessages []string
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new [file]",
	Short: "Prepend a new changelog entry",
	Long: `Prepend a new entry to a changelog file, creating the file when it does
not exist yet.

The version is given explicitly with --version or derived from the newest
entry with --bump, which increments the trailing number of the revision.
The author comes from the configured identity, the DEBFULLNAME/DEBEMAIL or
NAME/EMAIL environment variables, or the global git config.

Examples:
  declog new --bump -m "Fix hose coupling."
  declog new --version 1.2.0-1 -m "New upstream release."
  declog new --package hydrant --version 0.1.0-1 ./changelog
  declog new --bump --dist UNRELEASED`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNew,
}

func init() {
	newCmd.Flags().StringVar(&newPackage, "package", "", "package name (default: the file's current one)")
	newCmd.Flags().StringVar(&newVersion, "version", "", "version of the new entry")
	newCmd.Flags().BoolVar(&newBump, "bump", false, "derive the version by bumping the newest entry")
	newCmd.Flags().StringVar(&newDist, "dist", "", "target distribution (default from config)")
	newCmd.Flags().StringVar(&newUrgency, "urgency", "", "urgency keyword (default from config)")
	newCmd.Flags().StringArrayVarP(&newMessages, "message", "m", nil, "change note (repeatable)")
}

func runNew(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	application := app.New(cmd.Context(), cfg)
	defer application.Shutdown()

	return application.NewEntry(app.NewEntryOptions{
		Path:         changelogArg(args),
		Package:      newPackage,
		Version:      newVersion,
		Bump:         newBump,
		Distribution: newDist,
		Urgency:      newUrgency,
		Changes:      newMessages,
	})
}
