// ABOUTME: Folder scanner that yields the SVG files of a directory as records
// ABOUTME: Reads files concurrently with a bounded errgroup and skips oversized or unreadable files

package scan

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent file reads when no limit is configured.
const DefaultWorkers = 4

// File is one SVG file found by Scan.
type File struct {
	Name    string // file name without extension
	Path    string
	Content string
	Size    int64
}

// Scanner reads the SVG files directly inside a directory.
type Scanner struct {
	workers     int
	maxFileSize int64 // 0 means unlimited
	logger      *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithWorkers sets the number of files read concurrently.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithMaxFileSize skips files larger than n bytes. Zero disables the limit.
func WithMaxFileSize(n int64) Option {
	return func(s *Scanner) {
		s.maxFileSize = n
	}
}

// WithLogger sets the logger used for skipped files.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = l
	}
}

// New creates a Scanner.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		workers: DefaultWorkers,
		logger:  slog.Default().With("component", "scan"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan lists dir without recursing and returns its .svg files sorted by name.
// Only a failure to read the directory itself is an error; files that cannot
// be read or exceed the size limit are logged and left out.
func (s *Scanner) Scan(ctx context.Context, dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading folder: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !IsSVG(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}

	// Each worker owns one slot, so no locking is needed.
	results := make([]*File, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.readFile(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	files := make([]File, 0, len(results))
	for _, f := range results {
		if f != nil {
			files = append(files, *f)
		}
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].Name != files[j].Name {
			return files[i].Name < files[j].Name
		}
		return files[i].Path < files[j].Path
	})

	s.logger.Debug("scanned folder", "dir", dir, "candidates", len(paths), "files", len(files))
	return files, nil
}

func (s *Scanner) readFile(path string) *File {
	info, err := os.Stat(path)
	if err != nil {
		s.logger.Warn("skipping unreadable file", "path", path, "error", err)
		return nil
	}
	if s.maxFileSize > 0 && info.Size() > s.maxFileSize {
		s.logger.Warn("skipping oversized file", "path", path, "size", info.Size(), "limit", s.maxFileSize)
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn("skipping unreadable file", "path", path, "error", err)
		return nil
	}

	base := filepath.Base(path)
	return &File{
		Name:    strings.TrimSuffix(base, filepath.Ext(base)),
		Path:    path,
		Content: string(data),
		Size:    int64(len(data)),
	}
}

// IsSVG reports whether name has an .svg extension, ignoring case.
func IsSVG(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".svg")
}
