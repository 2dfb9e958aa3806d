package opf

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

// defaultIndent is used when the metadata body does not start on its own line.
const defaultIndent = "  "

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	// Attribute values are written in double quotes, so '"' is escaped as well.
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

	calibreNSDecl = regexp.MustCompile(`xmlns:([A-Za-z_][\w.\-]*)\s*=\s*["']` + regexp.QuoteMeta(epubseries.CalibreNamespace) + `["']`)
)

// InjectOptions controls which vocabularies Inject rewrites.
type InjectOptions struct {
	Vocabularies epubseries.Vocabularies

	// Path names the document in error messages.
	Path string

	// NewID generates the collection linking identifier.
	// Defaults to "series-" followed by a random UUID.
	NewID func() string
}

// Inject writes a series declaration into the <metadata> element of doc and
// returns the new document.
//
// Algorithm:
//  1. Locate <metadata>…</metadata> (same prefix on both tags) as a text span
//  2. Remove every existing declaration of each selected vocabulary from the body
//  3. Take the indentation of the body's first line, or two spaces
//  4. Insert the rendered declarations in front of the remaining body
//
// Bytes outside the body, including the element's own tags, are never changed.
// Vocabularies that are not selected are left exactly as they were.
//
// Error cases:
//   - No matching <metadata> element → DocumentError wrapping ErrMalformedDocument
//   - Empty series name or no vocabulary selected → ErrInvalidConfig
func Inject(doc []byte, series epubseries.Series, opts InjectOptions) ([]byte, error) {
	if strings.TrimSpace(series.Name) == "" {
		return nil, fmt.Errorf("series name is empty: %w", epubseries.ErrInvalidConfig)
	}
	if !opts.Vocabularies.Any() {
		return nil, fmt.Errorf("no vocabulary selected: %w", epubseries.ErrInvalidConfig)
	}

	text := string(doc)
	bodyStart, bodyEnd, ok := locateMetadata(text)
	if !ok {
		return nil, &DocumentError{
			Path:    opts.Path,
			Message: "no <metadata>…</metadata> element found",
			Hint:    "The opening and closing metadata tags must use the same namespace prefix, e.g. <opf:metadata>…</opf:metadata>.",
			Kind:    epubseries.ErrMalformedDocument,
		}
	}

	body := text[bodyStart:bodyEnd]
	body = removeSpans(body, declarationSpans(body, opts.Vocabularies, calibrePrefixes(text)))

	newline := "\n"
	if strings.Contains(text, "\r\n") {
		newline = "\r\n"
	}
	leadingBreak, indent := bodyLayout(body)

	newID := opts.NewID
	if newID == nil {
		newID = defaultID
	}

	var lines []string
	if opts.Vocabularies.Structured {
		remaining := text[:bodyStart] + body + text[bodyEnd:]
		lines = append(lines, renderStructured(series, uniqueID(remaining, newID))...)
	}
	if opts.Vocabularies.Legacy {
		lines = append(lines, renderLegacy(series)...)
	}

	var b strings.Builder
	b.Grow(len(text) + 256)
	b.WriteString(text[:bodyStart])
	if leadingBreak != "" {
		b.WriteString(leadingBreak)
	}
	for i, line := range lines {
		if i > 0 {
			b.WriteString(newline)
		}
		b.WriteString(indent)
		b.WriteString(line)
	}
	if leadingBreak == "" {
		b.WriteString(newline)
		b.WriteString(body)
	} else {
		b.WriteString(body)
	}
	b.WriteString(text[bodyEnd:])
	return []byte(b.String()), nil
}

// locateMetadata returns the body span of the first <metadata> element whose
// closing tag carries the same prefix. Self-closing elements have no body and
// are not matched.
func locateMetadata(text string) (int, int, bool) {
	for _, m := range metadataStartTag.FindAllStringSubmatchIndex(text, -1) {
		if m[6] != m[7] {
			continue
		}
		prefix := ""
		if m[2] >= 0 {
			prefix = text[m[2]:m[3]]
		}
		loc := closeTagRE(prefix, "metadata").FindStringIndex(text[m[1]:])
		if loc == nil {
			continue
		}
		return m[1], m[1] + loc[0], true
	}
	return 0, 0, false
}

// bodyLayout reports the line break the body starts with (empty if none) and
// the indentation to use for inserted lines. The indentation comes from the
// line following that break.
func bodyLayout(body string) (string, string) {
	var lb string
	switch {
	case strings.HasPrefix(body, "\r\n"):
		lb = "\r\n"
	case strings.HasPrefix(body, "\n"):
		lb = "\n"
	default:
		return "", defaultIndent
	}

	rest := body[len(lb):]
	end := 0
	for end < len(rest) && (rest[end] == ' ' || rest[end] == '\t') {
		end++
	}
	return lb, rest[:end]
}

// declarationSpans finds the spans of all declarations belonging to the
// selected vocabularies, sorted by position.
func declarationSpans(body string, vocab epubseries.Vocabularies, calibre map[string]bool) [][2]int {
	var spans [][2]int

	metas := findElements(body, metaStartTag, "meta")
	if vocab.Structured {
		ids := map[string]bool{}
		for _, el := range metas {
			if p, _ := el.Attr("property"); p == epubseries.CollectionProperty {
				spans = append(spans, [2]int{el.Start, el.End})
				if id, ok := el.Attr("id"); ok && id != "" {
					ids[id] = true
				}
			}
		}
		for _, el := range metas {
			if ref, ok := el.Attr("refines"); ok && ids[strings.TrimPrefix(ref, "#")] {
				spans = append(spans, [2]int{el.Start, el.End})
			}
		}
	}

	if vocab.Legacy {
		for _, el := range metas {
			name, _ := el.Attr("name")
			property, _ := el.Attr("property")
			if isLegacyName(name) || isLegacyName(property) {
				spans = append(spans, [2]int{el.Start, el.End})
			}
		}
		for _, pair := range []struct {
			re    *regexp.Regexp
			local string
		}{{seriesStartTag, "series"}, {indexStartTag, "series_index"}} {
			for _, el := range findElements(body, pair.re, pair.local) {
				if calibre[el.Prefix] {
					spans = append(spans, [2]int{el.Start, el.End})
				}
			}
		}
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i][0] < spans[j][0] })
	return dedupeSpans(spans)
}

// dedupeSpans drops spans contained in, or equal to, an earlier span.
func dedupeSpans(spans [][2]int) [][2]int {
	out := spans[:0]
	end := -1
	for _, sp := range spans {
		if sp[0] < end {
			continue
		}
		out = append(out, sp)
		end = sp[1]
	}
	return out
}

func isLegacyName(s string) bool {
	return s == epubseries.LegacySeriesName || s == epubseries.LegacySeriesIndexName
}

// calibrePrefixes returns the prefixes bound to the calibre namespace, always
// including "calibre" itself.
func calibrePrefixes(text string) map[string]bool {
	prefixes := map[string]bool{"calibre": true}
	for _, m := range calibreNSDecl.FindAllStringSubmatch(text, -1) {
		prefixes[m[1]] = true
	}
	return prefixes
}

func renderStructured(s epubseries.Series, id string) []string {
	lines := []string{
		fmt.Sprintf(`<meta property="%s" id="%s">%s</meta>`,
			epubseries.CollectionProperty, attrEscaper.Replace(id), textEscaper.Replace(s.Name)),
		fmt.Sprintf(`<meta refines="#%s" property="collection-type">%s</meta>`,
			attrEscaper.Replace(id), epubseries.CollectionTypeSeries),
	}
	if s.HasIndex() {
		lines = append(lines, fmt.Sprintf(`<meta refines="#%s" property="group-position">%s</meta>`,
			attrEscaper.Replace(id), textEscaper.Replace(s.Index.String())))
	}
	return lines
}

func renderLegacy(s epubseries.Series) []string {
	lines := []string{
		fmt.Sprintf(`<meta name="%s" content="%s"/>`, epubseries.LegacySeriesName, attrEscaper.Replace(s.Name)),
	}
	if s.HasIndex() {
		lines = append(lines, fmt.Sprintf(`<meta name="%s" content="%s"/>`,
			epubseries.LegacySeriesIndexName, attrEscaper.Replace(s.Index.String())))
	}
	return lines
}

func defaultID() string {
	return "series-" + uuid.NewString()
}

// uniqueID draws identifiers until one is not already used as an id in text.
func uniqueID(text string, newID func() string) string {
	id := newID()
	for i := 0; i < 8 && idInUse(text, id); i++ {
		id = newID()
	}
	return id
}

func idInUse(text, id string) bool {
	return strings.Contains(text, `id="`+id+`"`) || strings.Contains(text, `id='`+id+`'`)
}
