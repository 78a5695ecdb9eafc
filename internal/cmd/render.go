package cmd

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/declog-dev/declog/internal/app"
	"github.com/declog-dev/declog/internal/config"
)

var renderOutput string

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render a changelog as an HTML page",
	Long: `Render a changelog file as a self-contained HTML page.

Parsing is lenient so damaged history still renders; problems are logged
as warnings. The page title defaults to the package name and can be set
in the configuration.

Examples:
  declog render -o changelog.html
  declog render ./changelog > page.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "write the page to this file instead of stdout")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	application := app.New(cmd.Context(), cfg)
	defer application.Shutdown()

	var buf bytes.Buffer
	if err := application.RenderHTML(&buf, changelogArg(args)); err != nil {
		return err
	}

	return writeOutput(renderOutput, buf.Bytes())
}
