package common

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dsnet/compress/bzip2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func TestDetectCompressionFormat(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     CompressionFormat
	}{
		{
			name:     "gzip extension",
			filename: "changelog.Debian.gz",
			want:     CompressionGzip,
		},
		{
			name:     "bzip2 extension",
			filename: "data.tar.bz2",
			want:     CompressionBzip2,
		},
		{
			name:     "xz extension",
			filename: "data.tar.xz",
			want:     CompressionXZ,
		},
		{
			name:     "no compression",
			filename: "data.tar",
			want:     CompressionNone,
		},
		{
			name:     "unknown extension",
			filename: "archive.zip",
			want:     CompressionNone,
		},
		{
			name:     "multiple dots",
			filename: "hydrant_1.0-1_changelog.gz",
			want:     CompressionGzip,
		},
		{
			name:     "no extension",
			filename: "changelog",
			want:     CompressionNone,
		},
		{
			name:     "empty filename",
			filename: "",
			want:     CompressionNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectCompressionFormat(tt.filename)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompressionFormat_Extension(t *testing.T) {
	tests := []struct {
		name   string
		format CompressionFormat
		want   string
	}{
		{
			name:   "gzip",
			format: CompressionGzip,
			want:   ".gz",
		},
		{
			name:   "bzip2",
			format: CompressionBzip2,
			want:   ".bz2",
		},
		{
			name:   "xz",
			format: CompressionXZ,
			want:   ".xz",
		},
		{
			name:   "none",
			format: CompressionNone,
			want:   ".",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.format.Extension()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewReader(t *testing.T) {
	const content = "hydrant (1:0.9.3-2) unstable; urgency=high\n"

	writers := map[CompressionFormat]func(io.Writer) (io.WriteCloser, error){
		CompressionGzip: func(w io.Writer) (io.WriteCloser, error) {
			return gzip.NewWriter(w), nil
		},
		CompressionBzip2: func(w io.Writer) (io.WriteCloser, error) {
			return bzip2.NewWriter(w, nil)
		},
		CompressionXZ: func(w io.Writer) (io.WriteCloser, error) {
			return xz.NewWriter(w)
		},
	}

	for format, newWriter := range writers {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := newWriter(&buf)
			require.NoError(t, err)
			_, err = w.Write([]byte(content))
			require.NoError(t, err)
			require.NoError(t, w.Close())

			r, err := NewReader(format, &buf)
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, content, string(got))
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		_, err := NewReader(CompressionNone, strings.NewReader("x"))
		assert.Error(t, err)
	})
}

func TestDeCompressorDecompress(t *testing.T) {
	tmpDir := t.TempDir()
	const content = "hydrant (1:0.9.3-2) unstable; urgency=high\n"

	srcPath := filepath.Join(tmpDir, "changelog.Debian.gz")
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(srcPath, buf.Bytes(), 0644))

	d := NewDeCompressor(context.Background(), 2)
	defer d.Shutdown()

	results, err := d.Decompress(context.Background(), srcPath).Wait()
	require.NoError(t, err)
	require.Len(t, results, 1)

	dest := results[0].Destination()
	assert.Equal(t, filepath.Join(tmpDir, "changelog.Debian"), dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))

	t.Run("unknown format", func(t *testing.T) {
		_, err := d.Decompress(context.Background(), filepath.Join(tmpDir, "plain.txt")).Wait()
		assert.Error(t, err)
	})
}
