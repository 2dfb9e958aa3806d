package services

import (
	"github.com/TeoZler/epub-series-metadata-editor/internal/epub"
	"github.com/TeoZler/epub-series-metadata-editor/internal/opf"
)

// BookInfo is what a book currently declares.
type BookInfo struct {
	Path  string
	Entry string
	// Series is the winning declaration; valid only when HasSeries is set.
	Series       opf.Declaration
	HasSeries    bool
	Declarations []opf.Declaration
}

// Inspect reads the series declarations of one book without changing it.
func Inspect(path string) (*BookInfo, error) {
	doc, err := epub.ReadPackageDocument(path)
	if err != nil {
		return nil, err
	}

	decls, err := opf.Inspect(doc.Content, doc.Entry)
	if err != nil {
		return nil, err
	}

	info := &BookInfo{
		Path:         path,
		Entry:        doc.Entry,
		Declarations: decls.Found,
	}
	info.Series, info.HasSeries = decls.Series()
	return info, nil
}
