package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/declog-dev/declog/internal/app"
	"github.com/declog-dev/declog/internal/config"
)

var addMessages []string

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add -m <note> [file]",
	Short: "Add change notes to the newest entry",
	Long: `Add change notes to the newest entry of a changelog file.

Notes are appended after the existing ones, before the blank line that
separates them from the trailer. Each note becomes a "  * " bullet unless
it already carries changelog indentation.

Examples:
  declog add -m "Fix hose coupling."
  declog add -m "First change." -m "Second change." ./changelog`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringArrayVarP(&addMessages, "message", "m", nil, "change note (repeatable)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	if len(addMessages) == 0 {
		return errors.New("at least one -m note is required")
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	application := app.New(cmd.Context(), cfg)
	defer application.Shutdown()

	return application.AddChanges(changelogArg(args), addMessages)
}
