package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTML(t *testing.T) {
	a := newTestApp(t)

	t.Run("renders a changelog page", func(t *testing.T) {
		path := writeFile(t, "changelog", sampleChangelog)

		var buf bytes.Buffer
		require.NoError(t, a.RenderHTML(&buf, path))

		html := buf.String()
		assert.Contains(t, html, "<title>hydrant changelog</title>")
		assert.Contains(t, html, "hydrant (0.9.4-1)")
		assert.Contains(t, html, "Support resumable downloads.")
	})

	t.Run("renders damaged input leniently", func(t *testing.T) {
		path := writeFile(t, "changelog",
			"hydrant (0.9.4-1) unstable; urgency=medium\n\n"+
				"  * Cut off mid-entry.\n")

		var buf bytes.Buffer
		require.NoError(t, a.RenderHTML(&buf, path))
		assert.Contains(t, buf.String(), "Cut off mid-entry.")
	})

	t.Run("honors the configured title", func(t *testing.T) {
		fresh := newTestApp(t)
		fresh.Config.Render.Title = "Fire Brigade Tools"
		path := writeFile(t, "changelog", sampleChangelog)

		var buf bytes.Buffer
		require.NoError(t, fresh.RenderHTML(&buf, path))
		assert.Contains(t, buf.String(), "<title>Fire Brigade Tools</title>")
	})
}
