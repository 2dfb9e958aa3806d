package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// OSFileSystem is the FileSystemProvider backed by the real disk.
type OSFileSystem struct{}

// NewOSFileSystem returns the disk-backed provider.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// Open resolves path to an absolute directory.
func (OSFileSystem) Open(path string) (Directory, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", path)
	}
	return diskDir(root), nil
}

// ReadDir lists the children of path sorted by name.
func (OSFileSystem) ReadDir(path string) ([]FileInfo, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	infos := make([]FileInfo, len(entries))
	for i, entry := range entries {
		if infos[i], err = entry.Info(); err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Join(path, entry.Name()), err)
		}
	}
	return infos, nil
}

// Stat follows symlinks, so a linked book or folder is treated like the target.
func (OSFileSystem) Stat(path string) (FileInfo, error) {
	return os.Stat(path)
}

type diskDir string

func (d diskDir) Path() string { return string(d) }

func (d diskDir) Walk(fn func(File, error) error) error {
	root := string(d)
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fn(nil, walkErr)
		}
		info, err := entry.Info()
		if err != nil {
			return fn(nil, fmt.Errorf("%s: %w", path, err))
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fn(nil, err)
		}
		return fn(diskFile{path: path, rel: rel, info: info}, nil)
	})
}

type diskFile struct {
	path string
	rel  string
	info fs.FileInfo
}

func (e diskFile) Path() string         { return e.path }
func (e diskFile) RelativePath() string { return e.rel }
func (e diskFile) Info() FileInfo       { return e.info }
