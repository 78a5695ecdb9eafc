// Package debfile extracts changelog files from Debian binary packages.
//
// A .deb is an ar archive with a data.tar member (possibly gz/xz/bz2
// compressed) that carries the installed file tree. Packages ship their
// changelog below usr/share/doc/<package>/, compressed and named
// changelog.Debian for non-native packages or changelog for native ones.
package debfile

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/blakesmith/ar"

	"github.com/declog-dev/declog/internal/common"
)

var (
	// ErrNoDataArchive means the ar archive had no data.tar member at all,
	// so the input is likely not a .deb
	ErrNoDataArchive = errors.New("no data.tar member found in package")
	// ErrNoChangelog means the package carries no changelog in its doc
	// directory
	ErrNoChangelog = errors.New("no changelog found in package")
)

// Candidate ranks, higher wins
const (
	rankNone = iota
	rankNative
	rankDebian
)

// Changelog is a changelog file found inside a package
type Changelog struct {
	Path    string // Member path inside data.tar, without the leading ./
	Content string // Decompressed changelog text
}

// ExtractFile opens a .deb file and extracts its changelog
func ExtractFile(path string) (*Changelog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return Extract(f)
}

// Extract reads a .deb archive and returns the changelog from its doc
// directory. The changelog.Debian variant wins over the plain changelog
// name used by native packages.
func Extract(r io.Reader) (*Changelog, error) {
	arReader := ar.NewReader(r)
	sawData := false

	for {
		header, err := arReader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading ar header: %w", err)
		}

		// Some ar writers terminate member names with a slash
		name := strings.TrimSuffix(strings.TrimSpace(header.Name), "/")
		if !strings.HasPrefix(name, "data.tar") {
			continue
		}
		sawData = true

		reader, err := dataReader(name, arReader)
		if err != nil {
			return nil, err
		}

		found, err := scanDataArchive(tar.NewReader(reader))
		if err != nil {
			return nil, err
		}
		if found != nil {
			return found, nil
		}
	}

	if !sawData {
		return nil, ErrNoDataArchive
	}
	return nil, ErrNoChangelog
}

// dataReader wraps the raw data.tar member with the matching decompressor
func dataReader(name string, r io.Reader) (io.Reader, error) {
	format := common.DetectCompressionFormat(name)
	if format == common.CompressionNone {
		if name != "data.tar" {
			return nil, fmt.Errorf("unsupported data archive: %s", name)
		}
		return r, nil
	}
	return common.NewReader(format, r)
}

// scanDataArchive walks the data tarball and keeps the best-ranked changelog.
// Returns nil when no member qualifies.
func scanDataArchive(tr *tar.Reader) (*Changelog, error) {
	var best *Changelog
	bestRank := rankNone

	for {
		th, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading data tar header: %w", err)
		}
		if th.Typeflag != tar.TypeReg {
			continue
		}

		rank := changelogRank(th.Name)
		if rank <= bestRank {
			continue
		}

		content, err := readMember(th.Name, tr)
		if err != nil {
			return nil, err
		}

		best = &Changelog{
			Path:    strings.TrimPrefix(path.Clean(th.Name), "./"),
			Content: content,
		}
		bestRank = rank
		if bestRank == rankDebian {
			break
		}
	}

	return best, nil
}

// changelogRank scores a data.tar member path. Only direct children of a
// usr/share/doc/<package> directory qualify.
func changelogRank(memberPath string) int {
	clean := strings.TrimPrefix(path.Clean(memberPath), "./")
	dir, base := path.Split(clean)

	rest, ok := strings.CutPrefix(dir, "usr/share/doc/")
	if !ok {
		return rankNone
	}
	rest = strings.TrimSuffix(rest, "/")
	if rest == "" || strings.Contains(rest, "/") {
		return rankNone
	}

	stem := base
	if format := common.DetectCompressionFormat(base); format != common.CompressionNone {
		stem = strings.TrimSuffix(base, format.Extension())
	}

	switch stem {
	case "changelog.Debian":
		return rankDebian
	case "changelog":
		return rankNative
	}
	return rankNone
}

// readMember reads one tar member, decompressing when the name says so
func readMember(name string, r io.Reader) (string, error) {
	reader := io.Reader(r)
	if format := common.DetectCompressionFormat(name); format != common.CompressionNone {
		var err error
		reader, err = common.NewReader(format, r)
		if err != nil {
			return "", fmt.Errorf("opening %s: %w", name, err)
		}
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return string(data), nil
}
