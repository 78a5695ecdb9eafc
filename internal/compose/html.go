// Package compose turns parsed changelogs into rendered output documents.
package compose

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/sprig/v3"

	"github.com/declog-dev/declog/changelog"
)

//go:embed templates/*.html
var templatesFS embed.FS

// HTMLOptions contains configuration for HTML page generation
type HTMLOptions struct {
	// Title overrides the page title, default is "<package> changelog"
	Title string
}

// HTML renders a changelog as a standalone HTML page
type HTML struct {
	opts HTMLOptions
	tmpl *template.Template
}

// NewHTML creates an HTML composer with all templates parsed
func NewHTML(opts HTMLOptions) (*HTML, error) {
	tmpl, err := template.New("").Funcs(sprig.FuncMap()).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &HTML{opts: opts, tmpl: tmpl}, nil
}

// page is the root data passed to the changelog template
type page struct {
	Title     string
	Package   string
	Entries   []entry
	Generated time.Time
}

// entry is one changelog block prepared for rendering
type entry struct {
	Package       string
	Version       string
	Distributions string
	Urgency       string
	UrgencyClass  string
	Pairs         []changelog.Pair
	Changes       []string
	AuthorName    string
	AuthorEmail   string
	Date          string
	Incomplete    bool
}

// Render writes the changelog as an HTML page to out
func (h *HTML) Render(out io.Writer, log *changelog.Changelog) error {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "changelog.html", h.page(log)); err != nil {
		return fmt.Errorf("executing changelog template: %w", err)
	}

	_, err := out.Write(buf.Bytes())
	return err
}

// RenderFile writes the changelog as an HTML page to the given path
func (h *HTML) RenderFile(path string, log *changelog.Changelog) error {
	var buf bytes.Buffer
	if err := h.Render(&buf, log); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

func (h *HTML) page(log *changelog.Changelog) page {
	blocks := log.Blocks()

	entries := make([]entry, 0, len(blocks))
	for _, b := range blocks {
		name, email := splitAuthor(b.Author)
		entries = append(entries, entry{
			Package:       b.Package,
			Version:       b.RawVersion(),
			Distributions: b.Distributions,
			Urgency:       b.Urgency,
			UrgencyClass:  "urgency-" + strings.ToLower(b.Urgency),
			Pairs:         b.NormalizedPairs(),
			Changes:       trimBlankEdges(b.Changes()),
			AuthorName:    name,
			AuthorEmail:   email,
			Date:          b.Date,
			Incomplete:    b.NoTrailer(),
		})
	}

	title := h.opts.Title
	if title == "" {
		if pkg := log.Package(); pkg != "" {
			title = pkg + " changelog"
		} else {
			title = "changelog"
		}
	}

	return page{
		Title:     title,
		Package:   log.Package(),
		Entries:   entries,
		Generated: time.Now(),
	}
}

// splitAuthor separates "Name <email>" into its parts. Without angle
// brackets everything is the name.
func splitAuthor(author string) (string, string) {
	open := strings.LastIndexByte(author, '<')
	if open < 0 || !strings.HasSuffix(author, ">") {
		return author, ""
	}

	name := strings.TrimSpace(author[:open])
	email := strings.TrimSpace(author[open+1 : len(author)-1])
	return name, email
}

// trimBlankEdges drops the blank padding lines around the change notes,
// inner blank lines stay untouched
func trimBlankEdges(lines []string) []string {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}

	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}

	return lines[start:end]
}
