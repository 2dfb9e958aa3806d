package opf

import (
	"regexp"
	"strings"
	"sync"
)

// attrsPattern matches a run of quoted attributes, each preceded by whitespace.
// Quoted values may contain '>' without ending the tag.
const attrsPattern = `(?:\s+[^\s=/>]+\s*=\s*(?:"[^"]*"|'[^']*'))*`

var (
	// attrRE matches one attribute together with its leading whitespace.
	attrRE = regexp.MustCompile(`\s+([^\s=/>]+)\s*=\s*("[^"]*"|'[^']*')`)

	packageStartTag  = startTagRE("package")
	metadataStartTag = startTagRE("metadata")
	metaStartTag     = startTagRE("meta")
	seriesStartTag   = startTagRE("series")
	indexStartTag    = startTagRE("series_index")

	closeTagCache sync.Map // "prefix:local" -> *regexp.Regexp

	attrUnescaper = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'", "&amp;", "&")
)

// startTagRE builds a pattern for an opening or self-closing tag with the given
// local name and an optional namespace prefix.
// Submatches: 1 prefix, 2 attribute run, 3 "/" when self-closing.
func startTagRE(local string) *regexp.Regexp {
	return regexp.MustCompile(`<(?:([A-Za-z_][\w.\-]*):)?` + regexp.QuoteMeta(local) +
		`(` + attrsPattern + `)\s*(/?)>`)
}

// closeTagRE returns the pattern for the closing tag matching prefix and local name.
func closeTagRE(prefix, local string) *regexp.Regexp {
	qname := local
	if prefix != "" {
		qname = prefix + ":" + local
	}
	if re, ok := closeTagCache.Load(qname); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`</` + regexp.QuoteMeta(qname) + `\s*>`)
	closeTagCache.Store(qname, re)
	return re
}

// attribute is one parsed attribute of a start tag.
type attribute struct {
	Name  string // qualified name as written, e.g. "opf:role"
	Value string // unquoted and unescaped
}

func parseAttrs(s string) []attribute {
	matches := attrRE.FindAllStringSubmatch(s, -1)
	attrs := make([]attribute, 0, len(matches))
	for _, m := range matches {
		attrs = append(attrs, attribute{
			Name:  m[1],
			Value: attrUnescaper.Replace(m[2][1 : len(m[2])-1]),
		})
	}
	return attrs
}

// element is an element located by text scanning.
type element struct {
	Start, End int // byte span including the closing tag, if any
	Prefix     string
	Attrs      []attribute
	Inner      string // raw content between open and close tag
}

// Attr returns the value of the first attribute whose local name matches.
func (e element) Attr(local string) (string, bool) {
	for _, a := range e.Attrs {
		name := a.Name
		if i := strings.IndexByte(name, ':'); i >= 0 {
			name = name[i+1:]
		}
		if name == local {
			return a.Value, true
		}
	}
	return "", false
}

// findElements returns the non-overlapping elements matched by start in text.
// An open tag without a closing tag of the same prefix is ignored.
func findElements(text string, start *regexp.Regexp, local string) []element {
	var out []element
	pos := 0
	for _, m := range start.FindAllStringSubmatchIndex(text, -1) {
		if m[0] < pos {
			continue
		}
		prefix := ""
		if m[2] >= 0 {
			prefix = text[m[2]:m[3]]
		}
		el := element{
			Start:  m[0],
			End:    m[1],
			Prefix: prefix,
			Attrs:  parseAttrs(text[m[4]:m[5]]),
		}
		if m[6] == m[7] {
			loc := closeTagRE(prefix, local).FindStringIndex(text[m[1]:])
			if loc == nil {
				continue
			}
			el.Inner = text[m[1] : m[1]+loc[0]]
			el.End = m[1] + loc[1]
		}
		out = append(out, el)
		pos = el.End
	}
	return out
}

// removeSpans deletes the given sorted, non-overlapping spans from text.
// A span that is the only thing on its line is removed together with its
// indentation and line break. The start of text counts as a line start.
func removeSpans(text string, spans [][2]int) string {
	if len(spans) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, sp := range spans {
		start, end := expandToLine(text, sp[0], sp[1])
		if start < last {
			start = last
		}
		b.WriteString(text[last:start])
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}

func expandToLine(text string, start, end int) (int, int) {
	i := start
	for i > 0 && (text[i-1] == ' ' || text[i-1] == '\t') {
		i--
	}
	if i > 0 && text[i-1] != '\n' {
		return start, end
	}

	j := end
	for j < len(text) && (text[j] == ' ' || text[j] == '\t') {
		j++
	}
	switch {
	case strings.HasPrefix(text[j:], "\r\n"):
		return i, j + 2
	case strings.HasPrefix(text[j:], "\n"):
		return i, j + 1
	default:
		return start, end
	}
}
