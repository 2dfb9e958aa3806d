package opf

import "fmt"

// sampleOPF is a typical EPUB 3 package document with calibre leftovers.
const sampleOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="uid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:opf="http://www.idpf.org/2007/opf">
    <dc:identifier id="uid">urn:uuid:1234</dc:identifier>
    <dc:title>Guards! Guards!</dc:title>
    <dc:language>en</dc:language>
    <meta property="dcterms:modified">2024-01-01T00:00:00Z</meta>
  </metadata>
  <manifest>
    <item id="c1" href="c1.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="c1"/>
  </spine>
</package>
`

// fixedIDs returns an ID generator yielding series-1, series-2, ...
func fixedIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("series-%d", n)
	}
}
