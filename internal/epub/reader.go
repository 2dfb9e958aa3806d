package epub

import (
	"archive/zip"
	"fmt"
)

// PackageDocument is the package document of one book, as read from disk.
type PackageDocument struct {
	Path    string // archive path on disk
	Entry   string // entry name inside the archive
	Content []byte
}

// ReadPackageDocument opens the archive at path and returns its package document.
func ReadPackageDocument(path string) (*PackageDocument, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer zr.Close()

	entry, err := LocatePackageDocument(&zr.Reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	content, err := readEntry(&zr.Reader, entry)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &PackageDocument{
		Path:    path,
		Entry:   entry,
		Content: content,
	}, nil
}
