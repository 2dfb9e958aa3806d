package epubseries

import "context"

// Book is one archive taking part in a folder-grouped ordering.
type Book struct {
	Path  string
	Title string // display label, usually the file name
	Index Index
}

// Reorderer lets a collaborator put the books of one series in order.
// It returns the books in their final order with Index assigned.
//
// Implementations:
//   - tui.ReorderWidget: full-screen bubbletea list on a terminal
//   - library.NaturalOrder: natural file-name order, no interaction
type Reorderer interface {
	Reorder(ctx context.Context, series string, books []Book) ([]Book, error)
}

// BookFinder discovers .epub archives below a path.
type BookFinder interface {
	// FindBooks returns the archive paths for a single file or a directory.
	// Directories are searched flat unless recursive is true.
	FindBooks(path string, recursive bool) ([]string, error)
}
