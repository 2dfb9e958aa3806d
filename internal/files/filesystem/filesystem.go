package filesystem

import (
	"io/fs"
)

// FileInfo is fs.FileInfo under a local name.
type FileInfo = fs.FileInfo

// File is one file or directory found while walking.
type File interface {
	// Path returns the full path of the entry.
	Path() string

	// RelativePath returns the path relative to the walked directory.
	RelativePath() string

	Info() FileInfo
}

// Directory is a directory tree that can be walked.
type Directory interface {
	Path() string

	// Walk visits the directory and everything below it in lexical order.
	// Returning fs.SkipDir from fn for a directory skips its contents;
	// any other error stops the walk.
	Walk(fn func(File, error) error) error
}

// FileSystemProvider opens directories and answers metadata queries.
type FileSystemProvider interface {
	Open(path string) (Directory, error)

	// ReadDir lists the direct children of a directory, sorted by name.
	ReadDir(path string) ([]FileInfo, error)

	Stat(path string) (FileInfo, error)
}
