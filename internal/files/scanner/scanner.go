package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/TeoZler/epub-series-metadata-editor/internal/files/filesystem"
	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

// Scanner discovers EPUB files and implements epubseries.BookFinder.
type Scanner struct {
	fsProvider filesystem.FileSystemProvider
}

var _ epubseries.BookFinder = (*Scanner)(nil)

// NewScanner creates a scanner over the OS filesystem.
func NewScanner() *Scanner {
	return &Scanner{fsProvider: filesystem.NewOSFileSystem()}
}

// NewScannerWithFS creates a scanner over a custom filesystem provider.
// Panics if fsProvider is nil.
func NewScannerWithFS(fsProvider filesystem.FileSystemProvider) *Scanner {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Scanner{fsProvider: fsProvider}
}

// FindBooks returns the EPUB files at path.
//
// A file path is returned as is when it has the .epub extension. For a
// directory, only its direct children are considered unless recursive is
// set. An empty result is not an error.
func (s *Scanner) FindBooks(path string, recursive bool) ([]string, error) {
	info, err := s.fsProvider.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", path, err)
	}

	if !info.IsDir() {
		if !IsBook(info.Name()) {
			return nil, fmt.Errorf("%s is not an EPUB file: %w", path, epubseries.ErrNoBooksFound)
		}
		return []string{path}, nil
	}

	var books []string
	if recursive {
		books, err = s.walk(path)
	} else {
		books, err = s.list(path)
	}
	if err != nil {
		return nil, err
	}

	sort.Strings(books)
	return books, nil
}

func (s *Scanner) list(dir string) ([]string, error) {
	entries, err := s.fsProvider.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var books []string
	for _, e := range entries {
		if !e.IsDir() && IsBook(e.Name()) {
			books = append(books, filepath.Join(dir, e.Name()))
		}
	}
	return books, nil
}

func (s *Scanner) walk(root string) ([]string, error) {
	dir, err := s.fsProvider.Open(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}

	var books []string
	err = dir.Walk(func(file filesystem.File, err error) error {
		if err != nil {
			return fmt.Errorf("error walking path: %w", err)
		}

		info := file.Info()
		if info.IsDir() {
			if file.RelativePath() != "." && isHidden(info.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if IsBook(info.Name()) {
			books = append(books, filepath.Join(root, filepath.FromSlash(file.RelativePath())))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return books, nil
}

// IsBook reports whether name looks like an EPUB file (case-insensitive
// extension, not hidden).
func IsBook(name string) bool {
	if isHidden(name) {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), epubseries.BookExt)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
