package common

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alitto/pond/v2"
	"gopkg.in/yaml.v3"
)

// Cache stores fetched changelog files below a single directory and keeps an
// index of where each file came from. Changelog URLs embed the package
// version, so a cached copy never goes stale and is reused as-is.
type Cache struct {
	dir        string
	downloader *Downloader
	indexMu    sync.Mutex // Protects index.yaml read-modify-write operations
}

// NewCache creates a cache rooted at dir
func NewCache(downloader *Downloader, dir string) *Cache {
	return &Cache{
		dir:        dir,
		downloader: downloader,
	}
}

// Dir returns the cache root directory
func (c *Cache) Dir() string {
	return c.dir
}

// Path returns the full path for a file below the cache directory
func (c *Cache) Path(pathParts ...string) string {
	return filepath.Join(append([]string{c.dir}, pathParts...)...)
}

// Fetch returns the local path of url, downloading into the cache when no
// usable copy exists. A destination with a compression extension is
// decompressed next to the original and the decompressed path is returned.
func (c *Cache) Fetch(ctx context.Context, url, checksum string, pathParts ...string) (string, error) {
	relDest := filepath.Join(pathParts...)
	format := DetectCompressionFormat(relDest)

	// The final artifact is the decompressed file
	finalPath := c.Path(relDest)
	if format != CompressionNone {
		finalPath = strings.TrimSuffix(finalPath, format.Extension())
	}

	if c.cachedFileUsable(finalPath, checksum, format) {
		slog.Debug("Cache hit", "file", relDest)
		return finalPath, nil
	}
	slog.Debug("Cache miss, downloading", "file", relDest, "url", url)

	req := &DownloadRequest{
		URL:         url,
		Destination: c.Path(relDest),
		Checksum:    checksum,
	}

	var group pond.ResultTaskGroup[Result]
	if format != CompressionNone {
		group = c.downloader.DownloadAndDecompress(ctx, req)
	} else {
		group = c.downloader.Download(ctx, req)
	}

	results, err := group.Wait()
	if err != nil {
		return "", err
	}

	path := results[0].Destination()
	if err := c.writeIndex(map[string]string{relDest: url}); err != nil {
		return "", err
	}
	return path, nil
}

// cachedFileUsable reports whether the cached copy can be reused. With a
// checksum the plain file must match it; a compressed fetch verifies the
// checksum during download only, so the decompressed file just has to exist.
func (c *Cache) cachedFileUsable(path, checksum string, format CompressionFormat) bool {
	if checksum != "" && format == CompressionNone {
		return fileExistsWithHash(path, checksum)
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}

// fileExistsWithHash checks if a file exists with the expected SHA256 hash
func fileExistsWithHash(path, expectedHash string) bool {
	if expectedHash == "" {
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return false
	}

	actualHash := hex.EncodeToString(h.Sum(nil))

	return strings.EqualFold(actualHash, expectedHash)
}

// writeIndex records the source URL of each cached file in index.yaml at the
// cache root. Merges with existing entries to support incremental updates.
func (c *Cache) writeIndex(entries map[string]string) error {
	// Protect read-modify-write with mutex to prevent concurrent updates
	c.indexMu.Lock()
	defer c.indexMu.Unlock()

	indexFile := filepath.Join(c.dir, "index.yaml")

	// Load existing index if the file exists
	existing := make(map[string]string)
	if data, err := os.ReadFile(indexFile); err == nil {
		if err := yaml.Unmarshal(data, &existing); err != nil {
			return fmt.Errorf("failed to unmarshal cache index: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read cache index: %w", err)
	}

	// Merge new entries into existing ones
	maps.Copy(existing, entries)

	data, err := yaml.Marshal(existing)
	if err != nil {
		return fmt.Errorf("failed to marshal cache index: %w", err)
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(indexFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache index %s: %w", indexFile, err)
	}

	return nil
}

// Index returns the recorded source URL per cached file
func (c *Cache) Index() (map[string]string, error) {
	c.indexMu.Lock()
	defer c.indexMu.Unlock()

	data, err := os.ReadFile(filepath.Join(c.dir, "index.yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	index := make(map[string]string)
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache index: %w", err)
	}
	return index, nil
}
