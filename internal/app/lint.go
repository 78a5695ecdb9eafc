package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aptly-dev/aptly/deb"

	"github.com/declog-dev/declog/changelog"
	"github.com/declog-dev/declog/internal/log"
)

// debianDateLayout is the trailer date format Debian policy mandates
const debianDateLayout = "Mon, 02 Jan 2006 15:04:05 -0700"

// LintOptions control which checks run
type LintOptions struct {
	NoOrder bool // Skip the version ordering check between entries
}

// LintResult is the outcome of linting one changelog file
type LintResult struct {
	Path     string
	Problems []string
}

// Ok reports whether the file passed without findings
func (r *LintResult) Ok() bool { return len(r.Problems) == 0 }

func (r *LintResult) addf(format string, args ...any) {
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

// Lint checks changelog files in parallel and reports the findings per
// file in input order. Unreadable files fail the whole run.
func (a *Application) Lint(ctx context.Context, paths []string, opts LintOptions) ([]*LintResult, error) {
	results := make([]*LintResult, len(paths))

	group := a.MainPool.NewGroupContext(ctx)
	for i, path := range paths {
		group.SubmitErr(func() error {
			text, err := readInput(path)
			if err != nil {
				return err
			}
			results[i] = a.lintText(displayPath(path), text, opts)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	clean := 0
	for _, res := range results {
		if res.Ok() {
			clean++
		}
	}
	if clean == len(results) {
		slog.Info("Lint complete", "files", len(results), log.Success())
	} else {
		slog.Info("Lint complete", "files", len(results), "flagged", len(results)-clean)
	}

	return results, nil
}

// lintText checks a single changelog. Parsing is always lenient here so
// one syntax problem does not hide the rest of the findings.
func (a *Application) lintText(path, text string, opts LintOptions) *LintResult {
	res := &LintResult{Path: path}

	doc, err := changelog.Parse(text, a.parseOptions(true)...)
	if err != nil {
		res.addf("%v", err)
		return res
	}

	for _, warning := range doc.Warnings() {
		res.addf("%s", warning.Message)
	}

	blocks := doc.Blocks()
	for i, block := range blocks {
		label := blockLabel(block, i)

		if _, err := block.Version(); err != nil {
			res.addf("%s: %v", label, err)
		}

		if !changelog.KnownUrgency(block.Urgency) {
			res.addf("%s: urgency %q is not one of %s", label, block.Urgency, strings.Join(changelog.Urgencies, ", "))
		}

		if strings.EqualFold(block.Distributions, "UNRELEASED") {
			res.addf("%s: entry is not marked for release", label)
		}

		if allBlankLines(block.Changes()) {
			res.addf("%s: entry has no change details", label)
		}

		if !block.NoTrailer() {
			// The parser keeps trailing whitespace so rendering round-trips
			date := strings.TrimRight(block.Date, " \t")
			if _, err := time.Parse(debianDateLayout, date); err != nil {
				res.addf("%s: date %q does not match %q", label, date, debianDateLayout)
			}
		}
	}

	if opts.NoOrder {
		return res
	}

	// Entries are newest first, so each version must compare higher than
	// the one below it
	for i := 0; i+1 < len(blocks); i++ {
		newer, older := blocks[i].RawVersion(), blocks[i+1].RawVersion()
		if newer == "" || older == "" {
			continue
		}
		switch cmp := deb.CompareVersions(newer, older); {
		case cmp < 0:
			res.addf("%s: version is lower than the following entry %s", blockLabel(blocks[i], i), older)
		case cmp == 0:
			res.addf("%s: version repeats the following entry", blockLabel(blocks[i], i))
		}
	}

	return res
}

func blockLabel(block *changelog.ChangeBlock, index int) string {
	if v := block.RawVersion(); v != "" {
		return v
	}
	return fmt.Sprintf("entry %d", index+1)
}

func allBlankLines(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return true
}
