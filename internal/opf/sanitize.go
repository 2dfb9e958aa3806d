package opf

import (
	"bytes"
	"regexp"
)

// Sanitize repairs the start tags of the root <package> element and the
// <metadata> element when they declare the same attribute more than once, which
// encoding/xml rejects. The first occurrence of each attribute wins. Nothing
// outside the two attribute lists is changed.
//
// Sanitize is a fallback for documents that failed to parse; it does not attempt
// any other repair.
func Sanitize(doc []byte) []byte {
	out := doc
	for _, re := range []*regexp.Regexp{packageStartTag, metadataStartTag} {
		out = dedupeFirstTag(out, re)
	}
	return out
}

func dedupeFirstTag(doc []byte, start *regexp.Regexp) []byte {
	loc := start.FindSubmatchIndex(doc)
	if loc == nil {
		return doc
	}

	attrs := doc[loc[4]:loc[5]]
	cleaned := dedupeAttributes(attrs)
	if len(cleaned) == len(attrs) {
		return doc
	}

	out := make([]byte, 0, len(doc)-len(attrs)+len(cleaned))
	out = append(out, doc[:loc[4]]...)
	out = append(out, cleaned...)
	out = append(out, doc[loc[5]:]...)
	return out
}

// dedupeAttributes drops repeated attributes, with their leading whitespace,
// from an attribute run.
func dedupeAttributes(attrs []byte) []byte {
	matches := attrRE.FindAllSubmatchIndex(attrs, -1)
	seen := make(map[string]bool, len(matches))

	var b bytes.Buffer
	last := 0
	for _, m := range matches {
		name := string(attrs[m[2]:m[3]])
		if !seen[name] {
			seen[name] = true
			continue
		}
		b.Write(attrs[last:m[0]])
		last = m[1]
	}
	if last == 0 {
		return attrs
	}
	b.Write(attrs[last:])
	return b.Bytes()
}
