package app

import (
	"log/slog"

	"github.com/declog-dev/declog/internal/log"
)

// AddChanges appends change notes to the newest entry of a changelog file
func (a *Application) AddChanges(path string, notes []string) error {
	doc, err := a.LoadChangelog(path, false)
	if err != nil {
		return err
	}

	for _, note := range notes {
		if err := doc.AddChange(formatChangeNote(note)); err != nil {
			return err
		}
	}

	if err := writeChangelog(path, doc); err != nil {
		return err
	}

	slog.Info("Added change notes", "version", doc.RawVersion(), "notes", len(notes), log.Success())

	return nil
}
