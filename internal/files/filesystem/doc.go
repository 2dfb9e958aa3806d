// Package filesystem provides a small filesystem abstraction so that book
// discovery can be tested without touching the disk.
//
// Implementations:
//   - OSFileSystem: the real filesystem
//   - MemoryFileSystem: an in-memory tree for tests
package filesystem
