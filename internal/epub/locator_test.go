package epub

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

func withContainer(container string, extra ...testEntry) []testEntry {
	entries := []testEntry{{Name: "mimetype", Body: "application/epub+zip"}}
	if container != "" {
		entries = append(entries, testEntry{Name: "META-INF/container.xml", Body: container, Method: 8})
	}
	return append(entries, extra...)
}

func TestLocatePackageDocument(t *testing.T) {
	tests := []struct {
		name    string
		entries []testEntry
		want    string
		wantErr error
	}{
		{
			name:    "container reference",
			entries: defaultEntries(),
			want:    "OEBPS/content.opf",
		},
		{
			name: "prefers package media type",
			entries: withContainer(`<container><rootfiles>
<rootfile full-path="book.pdf" media-type="application/pdf"/>
<rootfile full-path="book/package.opf" media-type="application/oebps-package+xml"/>
</rootfiles></container>`,
				testEntry{Name: "book.pdf", Body: "%PDF"},
				testEntry{Name: "book/package.opf", Body: testOPF}),
			want: "book/package.opf",
		},
		{
			name: "accepts rootfile without media type",
			entries: withContainer(`<container><rootfiles><rootfile full-path="pkg.xml"/></rootfiles></container>`,
				testEntry{Name: "pkg.xml", Body: testOPF},
				testEntry{Name: "other.opf", Body: testOPF}),
			want: "pkg.xml",
		},
		{
			name:    "missing container falls back to scan",
			entries: withContainer("", testEntry{Name: "a.txt"}, testEntry{Name: "OPS/Book.OPF", Body: testOPF}),
			want:    "OPS/Book.OPF",
		},
		{
			name:    "unparsable container falls back to scan",
			entries: withContainer("<container><rootfiles>", testEntry{Name: "content.opf", Body: testOPF}),
			want:    "content.opf",
		},
		{
			name: "dangling reference falls back to scan",
			entries: withContainer(`<container><rootfiles><rootfile full-path="missing.opf" media-type="application/oebps-package+xml"/></rootfiles></container>`,
				testEntry{Name: "x/first.opf"}, testEntry{Name: "y/second.opf"}),
			want: "x/first.opf",
		},
		{
			name:    "nothing found",
			entries: withContainer("", testEntry{Name: "a.xhtml"}),
			wantErr: epubseries.ErrPackageNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zr := openZip(t, buildZip(t, tt.entries, ""))
			got, err := LocatePackageDocument(zr)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadPackageDocument(t *testing.T) {
	path := writeBook(t, t.TempDir(), "book.epub", buildZip(t, defaultEntries(), ""))

	doc, err := ReadPackageDocument(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, "OEBPS/content.opf", doc.Entry)
	assert.Equal(t, testOPF, string(doc.Content))
}

func TestReadPackageDocument_NotAZip(t *testing.T) {
	path := writeBook(t, t.TempDir(), "book.epub", []byte("not a zip"))
	_, err := ReadPackageDocument(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
