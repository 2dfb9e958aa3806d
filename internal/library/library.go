package library

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

// Group is the set of books sharing one folder.
type Group struct {
	Dir    string
	Series string
	Books  []string
}

// SeriesName derives a series name from the folder containing bookPath.
// Returns "" when the folder has no usable name.
func SeriesName(bookPath string) string {
	dir := filepath.Dir(bookPath)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	name := filepath.Base(dir)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return ""
	}
	return norm.NFC.String(strings.TrimSpace(name))
}

// Title returns the display label of a book: its file name without extension.
func Title(bookPath string) string {
	base := filepath.Base(bookPath)
	return norm.NFC.String(strings.TrimSuffix(base, filepath.Ext(base)))
}

// GroupByFolder splits paths by parent directory. Groups are sorted by
// directory and books within a group are in natural order.
func GroupByFolder(paths []string) []Group {
	byDir := map[string]*Group{}
	var dirs []string
	for _, p := range paths {
		dir := filepath.Dir(p)
		g, ok := byDir[dir]
		if !ok {
			g = &Group{Dir: dir, Series: SeriesName(p)}
			byDir[dir] = g
			dirs = append(dirs, dir)
		}
		g.Books = append(g.Books, p)
	}

	sort.Strings(dirs)
	groups := make([]Group, 0, len(dirs))
	for _, dir := range dirs {
		g := byDir[dir]
		SortNatural(g.Books)
		groups = append(groups, *g)
	}
	return groups
}

// SortNatural sorts paths by file name, comparing digit runs numerically and
// ignoring case.
func SortNatural(paths []string) {
	c := newCollator()
	sort.SliceStable(paths, func(i, j int) bool {
		return c.CompareString(filepath.Base(paths[i]), filepath.Base(paths[j])) < 0
	})
}

func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.Numeric, collate.IgnoreCase)
}

// BookList builds the Book list for a group, in the group's order.
func (g Group) BookList() []epubseries.Book {
	books := make([]epubseries.Book, len(g.Books))
	for i, p := range g.Books {
		books[i] = epubseries.Book{Path: p, Title: Title(p)}
	}
	return books
}

// AssignIndices numbers books 1..n in their current order.
func AssignIndices(books []epubseries.Book) []epubseries.Book {
	out := make([]epubseries.Book, len(books))
	for i, b := range books {
		b.Index = epubseries.IndexOf(i + 1)
		out[i] = b
	}
	return out
}

// NaturalOrder is a Reorderer that keeps natural file-name order.
type NaturalOrder struct{}

var _ epubseries.Reorderer = NaturalOrder{}

func (NaturalOrder) Reorder(ctx context.Context, series string, books []epubseries.Book) ([]epubseries.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sorted := append([]epubseries.Book(nil), books...)
	c := newCollator()
	sort.SliceStable(sorted, func(i, j int) bool {
		return c.CompareString(filepath.Base(sorted[i].Path), filepath.Base(sorted[j].Path)) < 0
	})
	return AssignIndices(sorted), nil
}
