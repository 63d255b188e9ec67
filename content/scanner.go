// Package content loads blog posts from a directory of Markdown files and
// renders them into post records.
//
// The Scanner reads raw files, the Renderer turns raw text into a PostRecord,
// and a Library combines the two for callers that serve pages.
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

var (
	// ErrStoreUnavailable is returned when the content directory cannot be
	// read.
	ErrStoreUnavailable = errors.New("content store unavailable")
	// ErrNotFound is returned when a slug does not resolve to a post file.
	ErrNotFound = errors.New("post not found")
)

// DefaultExt is the file extension of post files.
const DefaultExt = ".md"

// Scanner enumerates and reads post files. It never writes and never caches.
type Scanner struct {
	fsys fs.FS
	ext  string
	name string // for error messages
}

// NewScanner returns a Scanner over the directory dir.
func NewScanner(dir string) *Scanner {
	return &Scanner{fsys: os.DirFS(dir), ext: DefaultExt, name: dir}
}

// NewScannerFS returns a Scanner over fsys, with name used in errors.
func NewScannerFS(fsys fs.FS, name string) *Scanner {
	return &Scanner{fsys: fsys, ext: DefaultExt, name: name}
}

// WithExt returns a copy of the scanner that matches ext instead of ".md".
func (s *Scanner) WithExt(ext string) *Scanner {
	cp := *s
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if ext != "" {
		cp.ext = ext
	}
	return &cp
}

// ListSlugs returns the slug of every post file in directory order.
func (s *Scanner) ListSlugs() ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, s.name, err)
	}
	slugs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, s.ext) || strings.HasPrefix(name, ".") {
			continue
		}
		slug := strings.TrimSuffix(name, s.ext)
		if slug == "" {
			continue
		}
		slugs = append(slugs, slug)
	}
	return slugs, nil
}

// ReadRaw returns the full text of the post file for slug.
func (s *Scanner) ReadRaw(slug string) (string, error) {
	name, err := s.resolve(slug)
	if err != nil {
		return "", err
	}
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return "", s.mapError(slug, err)
	}
	return string(data), nil
}

// Stat returns file info for the post file of slug.
func (s *Scanner) Stat(slug string) (fs.FileInfo, error) {
	name, err := s.resolve(slug)
	if err != nil {
		return nil, err
	}
	info, err := fs.Stat(s.fsys, name)
	if err != nil {
		return nil, s.mapError(slug, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	return info, nil
}

func (s *Scanner) resolve(slug string) (string, error) {
	if !ValidSlug(slug) {
		return "", fmt.Errorf("%w: %q", ErrNotFound, slug)
	}
	name := slug + s.ext
	if !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: %q", ErrNotFound, slug)
	}
	return name, nil
}

func (s *Scanner) mapError(slug string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	// A directory named like a post reads as EISDIR on most platforms.
	if info, statErr := fs.Stat(s.fsys, slug+s.ext); statErr == nil && info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	return fmt.Errorf("%w: read %s: %w", ErrStoreUnavailable, slug, err)
}

// ValidSlug reports whether slug can name a file inside the content
// directory. Slugs with path separators, dot segments or a leading dot are
// rejected.
func ValidSlug(slug string) bool {
	if slug == "" || strings.HasPrefix(slug, ".") {
		return false
	}
	if strings.ContainsAny(slug, "/\\\x00") {
		return false
	}
	return !strings.Contains(slug, "..")
}
