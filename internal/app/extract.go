package app

import (
	"fmt"
	"log/slog"

	"github.com/declog-dev/declog/internal/debfile"
)

// ExtractChangelog pulls the changelog out of a Debian binary package
func (a *Application) ExtractChangelog(debPath string) (*debfile.Changelog, error) {
	found, err := debfile.ExtractFile(debPath)
	if err != nil {
		return nil, fmt.Errorf("extracting changelog from %s: %w", debPath, err)
	}

	slog.Debug("Extracted changelog", "package", debPath, "member", found.Path)

	return found, nil
}
