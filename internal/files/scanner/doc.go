// Package scanner finds EPUB files.
//
// A path may name a single book or a directory. Directories are listed flat
// by default or walked recursively on request. Hidden entries, backups and
// leftover temporary files are ignored. Results are sorted by path.
//
// The scanner works against filesystem.FileSystemProvider so discovery can be
// tested with an in-memory tree.
package scanner
