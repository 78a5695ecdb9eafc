package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/declog-dev/declog/internal/log"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	verbose    bool
	realStdout *os.File // Real stdout saved before redirection
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "declog",
	Short: "Debian changelog toolkit",
	Long: `declog reads, checks and writes Debian changelog files.

It parses changelogs strictly or leniently with recovery, lints entries,
prepends new ones, renders HTML pages, downloads changelogs from the Debian
changelog mirror, extracts them from .deb packages and imports GitHub
releases as changelog entries.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Save the real stdout before redirecting
		realStdout = os.Stdout

		// Redirect os.Stdout to discard so stray library output cannot mix
		// into command output
		os.Stdout, _ = os.Open(os.DevNull)

		// Configure logging based on verbose flag
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		handler := log.NewHandler(realStdout, level)
		slog.SetDefault(slog.New(handler))

		// Set Cobra's output to real stdout (not redirected)
		cmd.SetOut(realStdout)
		cmd.SetErr(realStdout)
	},
}

// ExecuteContext runs the root command with context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/declog/config.yaml or /etc/declog/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "", "v", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(configCmd)
}
