package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddChanges(t *testing.T) {
	a := newTestApp(t)

	t.Run("appends notes to the newest entry", func(t *testing.T) {
		path := writeFile(t, "changelog", sampleChangelog)

		err := a.AddChanges(path, []string{"Tighten the valve.", "Replace the gasket."})
		require.NoError(t, err)

		doc, err := a.LoadChangelog(path, false)
		require.NoError(t, err)
		changes := doc.Blocks()[0].Changes()
		assert.Contains(t, changes, "  * Support resumable downloads.")
		assert.Contains(t, changes, "  * Tighten the valve.")
		assert.Contains(t, changes, "  * Replace the gasket.")

		// The older entry stays untouched
		assert.NotContains(t, doc.Blocks()[1].Changes(), "  * Tighten the valve.")
	})

	t.Run("fails on a missing file", func(t *testing.T) {
		err := a.AddChanges(filepath.Join(t.TempDir(), "absent"), []string{"Note."})
		assert.Error(t, err)
	})

	t.Run("fails on an empty changelog", func(t *testing.T) {
		path := writeFile(t, "changelog", "")

		err := a.AddChanges(path, []string{"Note."})
		assert.Error(t, err)
	})
}
