package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/declog-dev/declog/changelog"
	"github.com/declog-dev/declog/internal/app"
	"github.com/declog-dev/declog/internal/config"
)

var (
	showStrict bool
	showAll    bool
	showFormat string
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Show the newest changelog entry",
	Long: `Parse a changelog file and print the newest entry.

Parsing is lenient by default: recoverable problems are logged as warnings
and the rest of the file is still shown. The file defaults to
debian/changelog; use - to read from stdin.

Examples:
  declog show                       # Newest entry of debian/changelog
  declog show --all ./changelog     # One line per entry
  declog show --format yaml -       # Machine readable, from stdin`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showStrict, "strict", false, "fail on any parse problem")
	showCmd.Flags().BoolVar(&showAll, "all", false, "list every entry instead of the newest")
	showCmd.Flags().StringVar(&showFormat, "format", "text", "output format: text or yaml")
}

// entrySummary is the printable form of one changelog entry
type entrySummary struct {
	Package       string `yaml:"package"`
	Version       string `yaml:"version"`
	Epoch         string `yaml:"epoch,omitempty"`
	Upstream      string `yaml:"upstream,omitempty"`
	Revision      string `yaml:"revision,omitempty"`
	Distributions string `yaml:"distributions"`
	Urgency       string `yaml:"urgency"`
	Author        string `yaml:"author,omitempty"`
	Date          string `yaml:"date,omitempty"`
	Notes         int    `yaml:"notes"`
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	application := app.New(cmd.Context(), cfg)
	defer application.Shutdown()

	doc, err := application.LoadChangelog(changelogArg(args), !showStrict)
	if err != nil {
		return err
	}
	for _, warning := range doc.Warnings() {
		slog.Warn("Parse problem", "problem", warning.Message)
	}
	if len(doc.Blocks()) == 0 {
		return changelog.ErrNoBlocks
	}

	var summaries []entrySummary
	if showAll {
		for _, block := range doc.Blocks() {
			summaries = append(summaries, summarize(block))
		}
	} else {
		summaries = []entrySummary{summarize(doc.Current())}
	}

	switch showFormat {
	case "text":
		printSummariesText(summaries)
	case "yaml":
		var out []byte
		if showAll {
			out, err = yaml.Marshal(summaries)
		} else {
			out, err = yaml.Marshal(summaries[0])
		}
		if err != nil {
			return err
		}
		fmt.Fprint(realStdout, string(out))
	default:
		return fmt.Errorf("unknown format: %s", showFormat)
	}

	return nil
}

func summarize(block *changelog.ChangeBlock) entrySummary {
	s := entrySummary{
		Package:       block.Package,
		Version:       block.RawVersion(),
		Distributions: block.Distributions,
		Urgency:       block.Urgency,
		Author:        block.Author,
		Date:          strings.TrimRight(block.Date, " \t"),
		Notes:         countNotes(block.Changes()),
	}
	if v, err := block.Version(); err == nil {
		s.Epoch = v.Epoch()
		s.Upstream = v.Upstream()
		s.Revision = v.Revision()
	}
	return s
}

func printSummariesText(summaries []entrySummary) {
	if showAll {
		for _, s := range summaries {
			fmt.Fprintf(realStdout, "%s %s %s\n", s.Package, s.Version, s.Date)
		}
		return
	}

	s := summaries[0]
	fmt.Fprintf(realStdout, "Package:       %s\n", s.Package)
	fmt.Fprintf(realStdout, "Version:       %s\n", s.Version)
	if s.Epoch != "" {
		fmt.Fprintf(realStdout, "  Epoch:       %s\n", s.Epoch)
	}
	if s.Upstream != "" {
		fmt.Fprintf(realStdout, "  Upstream:    %s\n", s.Upstream)
	}
	if s.Revision != "" {
		fmt.Fprintf(realStdout, "  Revision:    %s\n", s.Revision)
	}
	fmt.Fprintf(realStdout, "Distributions: %s\n", s.Distributions)
	fmt.Fprintf(realStdout, "Urgency:       %s\n", s.Urgency)
	fmt.Fprintf(realStdout, "Author:        %s\n", s.Author)
	fmt.Fprintf(realStdout, "Date:          %s\n", s.Date)
	fmt.Fprintf(realStdout, "Notes:         %d\n", s.Notes)
}

func countNotes(changes []string) int {
	n := 0
	for _, line := range changes {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
