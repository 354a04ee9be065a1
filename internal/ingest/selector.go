package ingest

import (
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"time"
)

// Selector filters a directory listing down to files worth importing:
// base name matches the glob pattern and the last modification is within
// the recency window.
type Selector struct {
	Source FileSource

	// MaxAge is the recency window. A file modified exactly MaxAge ago
	// is still included.
	MaxAge time.Duration

	// Now is the clock, overridable in tests. Defaults to time.Now.
	Now func() time.Time
}

// Select returns the eligible files in dir, sorted lexically by path so
// report ordering is reproducible. A missing or unreadable directory
// yields an empty result: absence of work is not a failure.
func (s Selector) Select(dir, pattern string) []FileInfo {
	entries, err := s.Source.List(dir)
	if err != nil {
		slog.Debug("directory not listable, selecting nothing", "dir", dir, "error", err)
		return nil
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	cutoff := now.Add(-s.MaxAge)

	var selected []FileInfo
	for _, f := range entries {
		ok, err := path.Match(pattern, filepath.Base(f.Path))
		if err != nil || !ok {
			continue
		}
		if f.ModTime.Before(cutoff) {
			continue
		}
		selected = append(selected, f)
	}

	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Path < selected[j].Path
	})
	return selected
}

var dirLayout = regexp.MustCompile(`\{[^{}]+\}`)

// ExpandDirectory substitutes brace-wrapped Go reference-time layouts in
// a definition's directory with the given time. "/drops/{2006_01}" at a
// March 2026 run becomes "/drops/2026_03". Directories without braces
// pass through unchanged.
func ExpandDirectory(dir string, now time.Time) string {
	return dirLayout.ReplaceAllStringFunc(dir, func(m string) string {
		return now.Format(m[1 : len(m)-1])
	})
}

// osFileSource reads the local filesystem.
type osFileSource struct{}

// OSFileSource returns a FileSource backed by the local filesystem.
func OSFileSource() FileSource {
	return osFileSource{}
}

func (osFileSource) List(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Raced with a delete; skip the entry.
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(dir, entry.Name()),
			ModTime: info.ModTime(),
		})
	}
	return files, nil
}

func (osFileSource) Open(p string) (io.ReadCloser, error) {
	return os.Open(p)
}
