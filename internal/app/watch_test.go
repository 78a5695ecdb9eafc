package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch(t *testing.T) {
	a := newTestApp(t)

	t.Run("runs the action once on start", func(t *testing.T) {
		path := writeFile(t, "changelog", sampleChangelog)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var got []string
		err := a.Watch(ctx, []string{path}, func(ctx context.Context, changed []string) error {
			got = changed
			cancel()
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{path}, got)
	})

	t.Run("propagates a failing initial run", func(t *testing.T) {
		path := writeFile(t, "changelog", sampleChangelog)

		err := a.Watch(context.Background(), []string{path}, func(ctx context.Context, changed []string) error {
			return errors.New("boom")
		})
		assert.EqualError(t, err, "boom")
	})

	t.Run("fails when the directory cannot be watched", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "absent", "changelog")

		err := a.Watch(context.Background(), []string{path}, func(ctx context.Context, changed []string) error {
			return nil
		})
		assert.ErrorContains(t, err, "watching")
	})

	t.Run("reruns when the file content changes", func(t *testing.T) {
		path := writeFile(t, "changelog", sampleChangelog)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		calls := make(chan []string, 8)
		done := make(chan error, 1)
		go func() {
			done <- a.Watch(ctx, []string{path}, func(ctx context.Context, changed []string) error {
				calls <- changed
				return nil
			})
		}()

		// Initial run covers all files
		select {
		case changed := <-calls:
			assert.Equal(t, []string{path}, changed)
		case <-time.After(5 * time.Second):
			t.Fatal("initial run did not happen")
		}

		updated := "hydrant (0.9.5-1) unstable; urgency=medium\n\n" +
			"  * Something new.\n\n" +
			" -- Beno Tester <beno@example.com>  Tue, 03 Feb 2026 10:30:00 +0100\n"
		require.NoError(t, os.WriteFile(path, []byte(updated), 0644))

		select {
		case changed := <-calls:
			assert.Equal(t, []string{path}, changed)
		case <-time.After(5 * time.Second):
			t.Fatal("change did not trigger a rerun")
		}

		// Rewriting identical content must not trigger another run
		require.NoError(t, os.WriteFile(path, []byte(updated), 0644))
		select {
		case <-calls:
			t.Fatal("unchanged content triggered a rerun")
		case <-time.After(600 * time.Millisecond):
		}

		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("watch did not stop on cancel")
		}
	})
}
