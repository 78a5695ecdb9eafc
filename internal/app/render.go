package app

import (
	"io"
	"log/slog"

	"github.com/declog-dev/declog/internal/compose"
	"github.com/declog-dev/declog/internal/log"
)

// RenderHTML renders a changelog file as an HTML page. Parsing is lenient
// so damaged history still renders.
func (a *Application) RenderHTML(out io.Writer, path string) error {
	doc, err := a.LoadChangelog(path, true)
	if err != nil {
		return err
	}

	for _, warning := range doc.Warnings() {
		slog.Warn("Rendering despite parse problem", "file", displayPath(path), "problem", warning.Message)
	}

	composer, err := compose.NewHTML(compose.HTMLOptions{Title: a.Config.Render.Title})
	if err != nil {
		return err
	}

	if err := composer.Render(out, doc); err != nil {
		return err
	}

	slog.Info("Render complete", "entries", len(doc.Blocks()), log.Success())

	return nil
}
