package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/declog-dev/declog/internal/app"
	"github.com/declog-dev/declog/internal/config"
)

var (
	lintNoOrder bool
	lintWatch   bool
)

// lintCmd represents the lint command
var lintCmd = &cobra.Command{
	Use:   "lint [files...]",
	Short: "Check changelog files for problems",
	Long: `Check changelog files for syntax and policy problems.

Files are parsed leniently so one syntax problem does not hide the rest of
the findings. Checked per entry: the version grammar, the urgency keyword,
UNRELEASED distributions, missing change details and the trailer date
format. Versions must descend from the newest entry downwards unless
--no-order is given. Files are checked in parallel.

Examples:
  declog lint                        # Check debian/changelog
  declog lint a/changelog b/changelog
  declog lint --watch ./changelog    # Re-check whenever the file changes`,
	RunE: runLint,
}

func init() {
	lintCmd.Flags().BoolVar(&lintNoOrder, "no-order", false, "skip the version ordering check")
	lintCmd.Flags().BoolVar(&lintWatch, "watch", false, "watch the files and re-check on changes")
}

func runLint(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	application := app.New(ctx, cfg)
	defer application.Shutdown()

	paths := args
	if len(paths) == 0 {
		paths = []string{defaultChangelog}
	}
	opts := app.LintOptions{NoOrder: lintNoOrder}

	if lintWatch {
		for _, path := range paths {
			if path == "-" {
				return errors.New("cannot watch stdin")
			}
		}
		return application.Watch(ctx, paths, func(ctx context.Context, changed []string) error {
			results, err := application.Lint(ctx, changed, opts)
			if err != nil {
				return err
			}
			printLintResults(results)
			return nil
		})
	}

	results, err := application.Lint(ctx, paths, opts)
	if err != nil {
		return err
	}
	if flagged := printLintResults(results); flagged > 0 {
		return fmt.Errorf("%d of %d files have problems", flagged, len(results))
	}

	return nil
}

// printLintResults writes the findings per file and returns how many files
// had any
func printLintResults(results []*app.LintResult) int {
	flagged := 0
	for _, res := range results {
		if res.Ok() {
			continue
		}
		flagged++
		fmt.Fprintf(realStdout, "%s:\n", res.Path)
		for _, problem := range res.Problems {
			fmt.Fprintf(realStdout, "  %s\n", problem)
		}
	}
	return flagged
}
