// Package opf reads and patches series metadata in EPUB package documents.
//
// # Overview
//
// The package document (OPF) describes a publication. Series membership can be
// declared in two independent vocabularies:
//
//	<!-- structured (EPUB 3 collections) -->
//	<meta property="belongs-to-collection" id="series-1">Discworld</meta>
//	<meta refines="#series-1" property="collection-type">series</meta>
//	<meta refines="#series-1" property="group-position">2</meta>
//
//	<!-- legacy (calibre) -->
//	<meta name="calibre:series" content="Discworld"/>
//	<meta name="calibre:series_index" content="2"/>
//
// Older calibre output also uses namespaced <calibre:series> elements; those are
// read and removed as part of the legacy vocabulary but never written.
//
// # Reading
//
// Inspect parses the document with encoding/xml and reports every declaration it
// finds. Series picks one by vocabulary precedence, not document order:
// structured collection, then namespaced calibre element, then calibre meta.
// When the first parse fails, Sanitize removes duplicate attributes from the
// <package> and <metadata> start tags and the parse is retried once.
//
// # Patching
//
// Inject never re-serializes the document. It locates the <metadata> element body
// as a text span, removes prior declarations of the selected vocabularies, and
// splices freshly rendered lines in front of the remaining body. Every byte
// outside that span is returned unchanged, so diffs stay minimal and formatting,
// comments and entity usage elsewhere in the file survive.
//
// # Usage
//
//	decls, err := opf.Inspect(doc, "OEBPS/content.opf")
//	if err != nil {
//	    return err
//	}
//	if existing, ok := decls.Series(); ok {
//	    // ask before replacing existing.Name
//	}
//	patched, err := opf.Inject(doc, series, opf.InjectOptions{
//	    Vocabularies: epubseries.Vocabularies{Structured: true},
//	})
package opf
