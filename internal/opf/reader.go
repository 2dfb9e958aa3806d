package opf

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

// Source identifies the vocabulary a declaration was read from.
// Lower values take precedence.
type Source int

const (
	// SourceCollection is <meta property="belongs-to-collection">.
	SourceCollection Source = iota
	// SourceCalibreElement is the namespaced <calibre:series> element.
	SourceCalibreElement
	// SourceCalibreMeta is <meta name="calibre:series" content="..."/>.
	SourceCalibreMeta
)

func (s Source) String() string {
	switch s {
	case SourceCollection:
		return "collection"
	case SourceCalibreElement:
		return "calibre-element"
	case SourceCalibreMeta:
		return "calibre-meta"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// Declaration is one series declaration found in a package document.
type Declaration struct {
	Source Source
	Name   string
	Index  string // raw index text, empty when absent
	ID     string // collection id (structured only)
	Type   string // collection-type (structured only), e.g. "series" or "set"
}

// Declarations holds every declaration found, in document order per source.
type Declarations struct {
	Found []Declaration
}

// Series returns the declaration that names the book's existing series.
// Precedence is by vocabulary: structured collections first, then the
// namespaced calibre element, then calibre meta tags. Empty names are ignored.
func (d *Declarations) Series() (Declaration, bool) {
	for _, src := range []Source{SourceCollection, SourceCalibreElement, SourceCalibreMeta} {
		for _, decl := range d.Found {
			if decl.Source == src && strings.TrimSpace(decl.Name) != "" {
				return decl, true
			}
		}
	}
	return Declaration{}, false
}

// BySource returns the declarations read from one vocabulary.
func (d *Declarations) BySource(src Source) []Declaration {
	var out []Declaration
	for _, decl := range d.Found {
		if decl.Source == src {
			out = append(out, decl)
		}
	}
	return out
}

// ReadSeries returns the existing series name of a package document, if any.
func ReadSeries(doc []byte, path string) (string, bool, error) {
	decls, err := Inspect(doc, path)
	if err != nil {
		return "", false, err
	}
	decl, ok := decls.Series()
	return decl.Name, ok, nil
}

// Inspect parses a package document and collects its series declarations.
//
// Error cases:
//   - Not well-formed, even after Sanitize → DocumentError wrapping ErrParseFailed
//     and the original decoder error
//   - No <metadata> element → DocumentError wrapping ErrMissingMetadata
func Inspect(doc []byte, path string) (*Declarations, error) {
	decls, err := scan(doc)
	if err == nil {
		return decls, nil
	}
	if errors.Is(err, epubseries.ErrMissingMetadata) {
		return nil, &DocumentError{
			Path:    path,
			Message: "no <metadata> element",
			Hint:    "Every EPUB package document needs a <metadata> element; this file cannot carry a series.",
			Kind:    epubseries.ErrMissingMetadata,
		}
	}

	if sanitized := Sanitize(doc); !bytes.Equal(sanitized, doc) {
		if decls, retryErr := scan(sanitized); retryErr == nil {
			return decls, nil
		}
	}
	return nil, wrapXMLError(err, path)
}

// metaNode captures attributes and text of one element inside <metadata>.
type metaNode struct {
	Attrs []xml.Attr `xml:",any,attr"`
	Text  string     `xml:",chardata"`
}

func (n metaNode) attr(local string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func isCalibre(name xml.Name) bool {
	return name.Space == epubseries.CalibreNamespace || name.Space == "calibre"
}

// scan walks the whole document so that syntax errors after </metadata> are
// still reported.
func scan(doc []byte) (*Declarations, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	dec.CharsetReader = charsetReader

	var (
		decls        Declarations
		found        bool
		inMetadata   bool
		depth        int
		metaDepth    int
		calibreIndex []string
		metaIndex    []string
		positions    = map[string]string{}
		types        = map[string]string{}
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if err := checkDuplicateAttrs(dec, t); err != nil {
				return nil, err
			}
			if !found && t.Name.Local == "metadata" {
				found, inMetadata, metaDepth = true, true, depth
				continue
			}
			if !inMetadata {
				continue
			}

			switch {
			case t.Name.Local == "meta":
				var n metaNode
				if err := dec.DecodeElement(&n, &t); err != nil {
					return nil, err
				}
				depth--
				collectMeta(&decls, n, &metaIndex, positions, types)
			case t.Name.Local == "series" && isCalibre(t.Name):
				var n metaNode
				if err := dec.DecodeElement(&n, &t); err != nil {
					return nil, err
				}
				depth--
				decls.Found = append(decls.Found, Declaration{
					Source: SourceCalibreElement,
					Name:   strings.TrimSpace(n.Text),
				})
			case t.Name.Local == "series_index" && isCalibre(t.Name):
				var n metaNode
				if err := dec.DecodeElement(&n, &t); err != nil {
					return nil, err
				}
				depth--
				calibreIndex = append(calibreIndex, strings.TrimSpace(n.Text))
			}
		case xml.EndElement:
			if inMetadata && depth == metaDepth {
				inMetadata = false
			}
			depth--
		}
	}

	if !found {
		return nil, epubseries.ErrMissingMetadata
	}

	for i := range decls.Found {
		d := &decls.Found[i]
		switch d.Source {
		case SourceCollection:
			d.Index = positions[d.ID]
			d.Type = types[d.ID]
		case SourceCalibreElement:
			if len(calibreIndex) > 0 {
				d.Index = calibreIndex[0]
			}
		case SourceCalibreMeta:
			if len(metaIndex) > 0 {
				d.Index = metaIndex[0]
			}
		}
	}
	return &decls, nil
}

func collectMeta(decls *Declarations, n metaNode, metaIndex *[]string, positions, types map[string]string) {
	property := n.attr("property")
	name := n.attr("name")

	if refines := strings.TrimPrefix(n.attr("refines"), "#"); refines != "" {
		switch property {
		case "group-position":
			positions[refines] = strings.TrimSpace(n.Text)
		case "collection-type":
			types[refines] = strings.TrimSpace(n.Text)
		}
		return
	}

	switch {
	case property == epubseries.CollectionProperty:
		decls.Found = append(decls.Found, Declaration{
			Source: SourceCollection,
			Name:   strings.TrimSpace(n.Text),
			ID:     n.attr("id"),
		})
	case name == epubseries.LegacySeriesName || property == epubseries.LegacySeriesName:
		value := n.attr("content")
		if value == "" {
			value = n.Text
		}
		decls.Found = append(decls.Found, Declaration{
			Source: SourceCalibreMeta,
			Name:   strings.TrimSpace(value),
		})
	case name == epubseries.LegacySeriesIndexName || property == epubseries.LegacySeriesIndexName:
		value := n.attr("content")
		if value == "" {
			value = n.Text
		}
		*metaIndex = append(*metaIndex, strings.TrimSpace(value))
	}
}

// checkDuplicateAttrs rejects start tags that repeat an attribute, which
// encoding/xml accepts but XML forbids.
func checkDuplicateAttrs(dec *xml.Decoder, t xml.StartElement) error {
	if len(t.Attr) < 2 {
		return nil
	}
	seen := make(map[xml.Name]bool, len(t.Attr))
	for _, a := range t.Attr {
		if seen[a.Name] {
			line, _ := dec.InputPos()
			qname := a.Name.Local
			if a.Name.Space != "" {
				qname = a.Name.Space + ":" + qname
			}
			return &xml.SyntaxError{
				Msg:  fmt.Sprintf("attribute %s redefined on <%s>", qname, t.Name.Local),
				Line: line,
			}
		}
		seen[a.Name] = true
	}
	return nil
}

// charsetReader decodes package documents that declare a non-UTF-8 encoding.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}
