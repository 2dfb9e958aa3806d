package opf

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

var (
	structuredOnly = epubseries.Vocabularies{Structured: true}
	legacyOnly     = epubseries.Vocabularies{Legacy: true}
	bothVocabs     = epubseries.Vocabularies{Structured: true, Legacy: true}
)

func inject(t *testing.T, doc string, s epubseries.Series, vocab epubseries.Vocabularies) string {
	t.Helper()
	out, err := Inject([]byte(doc), s, InjectOptions{Vocabularies: vocab, NewID: fixedIDs()})
	require.NoError(t, err)
	return string(out)
}

func TestInject_MinimalDocument(t *testing.T) {
	doc := `<package><metadata><title>T</title></metadata></package>`
	got := inject(t, doc, epubseries.NewSeries("Foo", epubseries.IndexOf(2)), structuredOnly)

	want := `<package><metadata>` +
		`  <meta property="belongs-to-collection" id="series-1">Foo</meta>` + "\n" +
		`  <meta refines="#series-1" property="collection-type">series</meta>` + "\n" +
		`  <meta refines="#series-1" property="group-position">2</meta>` + "\n" +
		`<title>T</title></metadata></package>`
	assert.Equal(t, want, got)
}

func TestInject_PreservesIndentation(t *testing.T) {
	got := inject(t, sampleOPF, epubseries.NewSeries("Discworld", epubseries.IndexOf(8)), structuredOnly)

	assert.Contains(t, got, "<metadata xmlns:dc=\"http://purl.org/dc/elements/1.1/\" xmlns:opf=\"http://www.idpf.org/2007/opf\">\n"+
		"    <meta property=\"belongs-to-collection\" id=\"series-1\">Discworld</meta>\n"+
		"    <meta refines=\"#series-1\" property=\"collection-type\">series</meta>\n"+
		"    <meta refines=\"#series-1\" property=\"group-position\">8</meta>\n"+
		"    <dc:identifier id=\"uid\">")

	// everything outside the metadata body is untouched
	head := sampleOPF[:strings.Index(sampleOPF, "<dc:identifier")]
	assert.True(t, strings.HasPrefix(got, strings.TrimRight(head, " ")))
	tail := sampleOPF[strings.Index(sampleOPF, "</metadata>"):]
	assert.True(t, strings.HasSuffix(got, tail))
}

func TestInject_WithoutIndex(t *testing.T) {
	got := inject(t, sampleOPF, epubseries.Series{Name: "Dune"}, bothVocabs)
	assert.NotContains(t, got, "group-position")
	assert.NotContains(t, got, "series_index")
	assert.Contains(t, got, `<meta name="calibre:series" content="Dune"/>`)
}

func TestInject_Legacy(t *testing.T) {
	got := inject(t, sampleOPF, epubseries.NewSeries("Dune", epubseries.MustParseIndex("1.5")), legacyOnly)
	assert.Contains(t, got, "    <meta name=\"calibre:series\" content=\"Dune\"/>\n"+
		"    <meta name=\"calibre:series_index\" content=\"1.5\"/>\n"+
		"    <dc:identifier")
	assert.NotContains(t, got, "belongs-to-collection")
}

func TestInject_ExactIndex(t *testing.T) {
	tests := []struct {
		index string
		want  string
	}{
		{"1/3", "1/3"},
		{"5/2", "2.5"},
		{"0.1", "0.1"},
		{"12345678901234567891", "12345678901234567891"},
	}

	for _, tt := range tests {
		t.Run(tt.index, func(t *testing.T) {
			s := epubseries.NewSeries("Foo", epubseries.MustParseIndex(tt.index))
			got := inject(t, sampleOPF, s, bothVocabs)
			assert.Contains(t, got, `property="group-position">`+tt.want+`</meta>`)
			assert.Contains(t, got, `<meta name="calibre:series_index" content="`+tt.want+`"/>`)
		})
	}
}

func TestInject_BothOrder(t *testing.T) {
	got := inject(t, sampleOPF, epubseries.NewSeries("Dune", epubseries.IndexOf(1)), bothVocabs)
	structured := strings.Index(got, "belongs-to-collection")
	legacy := strings.Index(got, "calibre:series")
	require.Positive(t, structured)
	require.Positive(t, legacy)
	assert.Less(t, structured, legacy)
}

func TestInject_Idempotent(t *testing.T) {
	docs := map[string]string{
		"indented": sampleOPF,
		"inline":   `<package><metadata><title>T</title></metadata></package>`,
		"empty":    `<package><metadata></metadata></package>`,
		"crlf":     strings.ReplaceAll(sampleOPF, "\n", "\r\n"),
		"tabs":     "<package>\n\t<metadata>\n\t\t<dc:title>T</dc:title>\n\t</metadata>\n</package>",
	}
	vocabs := map[string]epubseries.Vocabularies{
		"structured": structuredOnly,
		"legacy":     legacyOnly,
		"both":       bothVocabs,
	}

	for docName, doc := range docs {
		for vocabName, vocab := range vocabs {
			t.Run(docName+"/"+vocabName, func(t *testing.T) {
				s := epubseries.NewSeries("Foundation", epubseries.IndexOf(3))
				once := inject(t, doc, s, vocab)
				twice := inject(t, once, s, vocab)
				assert.Equal(t, once, twice)
			})
		}
	}
}

func TestInject_ReplacesPreviousSeries(t *testing.T) {
	first := inject(t, sampleOPF, epubseries.NewSeries("Old", epubseries.IndexOf(1)), bothVocabs)
	second := inject(t, first, epubseries.NewSeries("New", epubseries.IndexOf(2)), bothVocabs)

	assert.NotContains(t, second, "Old")
	assert.Equal(t, 1, strings.Count(second, "belongs-to-collection"))
	assert.Equal(t, 1, strings.Count(second, `name="calibre:series"`))
	assert.Equal(t, 1, strings.Count(second, `name="calibre:series_index"`))

	fresh := inject(t, sampleOPF, epubseries.NewSeries("New", epubseries.IndexOf(2)), bothVocabs)
	assert.Equal(t, fresh, second)
}

func TestInject_LeavesOtherVocabularyAlone(t *testing.T) {
	doc := withMetadata(`    <meta name="calibre:series" content="Legacy Name"/>
    <meta name="calibre:series_index" content="4"/>
    <calibre:series>Element Name</calibre:series>`)

	got := inject(t, doc, epubseries.NewSeries("Structured Name", epubseries.IndexOf(1)), structuredOnly)
	assert.Contains(t, got, `<meta name="calibre:series" content="Legacy Name"/>`)
	assert.Contains(t, got, `<meta name="calibre:series_index" content="4"/>`)
	assert.Contains(t, got, `<calibre:series>Element Name</calibre:series>`)

	doc = withMetadata(`    <meta property="belongs-to-collection" id="c9">Kept</meta>
    <meta refines="#c9" property="group-position">7</meta>`)
	got = inject(t, doc, epubseries.NewSeries("Legacy", epubseries.IndexOf(1)), legacyOnly)
	assert.Contains(t, got, `<meta property="belongs-to-collection" id="c9">Kept</meta>`)
	assert.Contains(t, got, `<meta refines="#c9" property="group-position">7</meta>`)
}

func TestInject_RemovesAllLegacyForms(t *testing.T) {
	doc := `<package xmlns:cal="http://calibre.kovidgoyal.net/2009/metadata">
  <metadata>
    <meta name="calibre:series" content="A"/>
    <meta property="calibre:series_index">2</meta>
    <cal:series>B</cal:series>
    <cal:series_index>2</cal:series_index>
    <series>Unrelated</series>
    <dc:title>T</dc:title>
  </metadata>
</package>`

	got := inject(t, doc, epubseries.NewSeries("C", epubseries.IndexOf(3)), legacyOnly)
	assert.NotContains(t, got, `content="A"`)
	assert.NotContains(t, got, "<cal:series")
	assert.NotContains(t, got, "<meta property=\"calibre:series_index\">")
	assert.Contains(t, got, "<series>Unrelated</series>")

	name, ok, err := ReadSeries([]byte(got), "content.opf")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "C", name)
}

func TestInject_RemovesRefinesOfCollections(t *testing.T) {
	doc := withMetadata(`    <meta property="belongs-to-collection" id="c1">Old</meta>
    <meta refines="#c1" property="collection-type">series</meta>
    <meta refines="#c1" property="group-position">1</meta>
    <meta refines="#uid" property="identifier-type">uuid</meta>`)

	got := inject(t, doc, epubseries.NewSeries("New", epubseries.IndexOf(2)), structuredOnly)
	assert.NotContains(t, got, "#c1")
	assert.Contains(t, got, `<meta refines="#uid" property="identifier-type">uuid</meta>`)
}

func TestInject_RoundTrip(t *testing.T) {
	for _, vocab := range []epubseries.Vocabularies{structuredOnly, legacyOnly, bothVocabs} {
		t.Run(vocab.String(), func(t *testing.T) {
			got := inject(t, sampleOPF, epubseries.NewSeries(`Tom & Jerry's "Best" <1>`, epubseries.IndexOf(2)), vocab)
			name, ok, err := ReadSeries([]byte(got), "content.opf")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `Tom & Jerry's "Best" <1>`, name)
		})
	}
}

func TestInject_Escaping(t *testing.T) {
	got := inject(t, sampleOPF, epubseries.Series{Name: `A & "B" <C>`}, bothVocabs)
	assert.Contains(t, got, `>A &amp; "B" &lt;C&gt;</meta>`)
	assert.Contains(t, got, `content="A &amp; &quot;B&quot; &lt;C&gt;"`)
}

func TestInject_LegacyQuoteInName(t *testing.T) {
	got := inject(t, sampleOPF, epubseries.Series{Name: `The "Expanse"`}, legacyOnly)
	assert.Contains(t, got, `<meta name="calibre:series" content="The &quot;Expanse&quot;"/>`)
	assert.NotContains(t, got, `content="The "Expanse""`)

	name, ok, err := ReadSeries([]byte(got), "content.opf")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `The "Expanse"`, name)
}

func TestInject_PrefixedMetadata(t *testing.T) {
	doc := `<opf:package xmlns:opf="http://www.idpf.org/2007/opf">
  <opf:metadata>
    <dc:title>T</dc:title>
  </opf:metadata>
</opf:package>`

	got := inject(t, doc, epubseries.NewSeries("X", epubseries.IndexOf(1)), legacyOnly)
	assert.Contains(t, got, "<opf:metadata>\n    <meta name=\"calibre:series\" content=\"X\"/>")
	assert.True(t, strings.HasSuffix(got, "  </opf:metadata>\n</opf:package>"))
}

func TestInject_MalformedDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no metadata", `<package><manifest/></package>`},
		{"prefix mismatch", `<opf:package><opf:metadata><dc:title>T</dc:title></metadata></opf:package>`},
		{"self-closing", `<package><metadata/></package>`},
		{"unclosed", `<package><metadata><dc:title>T</dc:title>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Inject([]byte(tt.doc), epubseries.NewSeries("X", epubseries.IndexOf(1)),
				InjectOptions{Vocabularies: structuredOnly, Path: "OEBPS/content.opf"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, epubseries.ErrMalformedDocument))
			assert.Contains(t, err.Error(), "OEBPS/content.opf")
		})
	}
}

func TestInject_InvalidInput(t *testing.T) {
	_, err := Inject([]byte(sampleOPF), epubseries.Series{Name: "  "}, InjectOptions{Vocabularies: structuredOnly})
	assert.True(t, errors.Is(err, epubseries.ErrInvalidConfig))

	_, err = Inject([]byte(sampleOPF), epubseries.Series{Name: "X"}, InjectOptions{})
	assert.True(t, errors.Is(err, epubseries.ErrInvalidConfig))
}

func TestInject_CRLF(t *testing.T) {
	doc := strings.ReplaceAll(sampleOPF, "\n", "\r\n")
	got := inject(t, doc, epubseries.NewSeries("Dune", epubseries.IndexOf(1)), bothVocabs)
	assert.NotContains(t, strings.ReplaceAll(got, "\r\n", ""), "\n")
}

func TestInject_AvoidsIDCollision(t *testing.T) {
	doc := withMetadata(`    <meta property="dcterms:modified" id="series-1">2024</meta>`)
	got := inject(t, doc, epubseries.NewSeries("X", epubseries.IndexOf(1)), structuredOnly)
	assert.Contains(t, got, `id="series-2">X</meta>`)
}

func TestInject_DefaultIDIsUnique(t *testing.T) {
	a, err := Inject([]byte(sampleOPF), epubseries.Series{Name: "X"}, InjectOptions{Vocabularies: structuredOnly})
	require.NoError(t, err)
	b, err := Inject([]byte(sampleOPF), epubseries.Series{Name: "X"}, InjectOptions{Vocabularies: structuredOnly})
	require.NoError(t, err)
	assert.NotEqual(t, string(a), string(b))
	assert.Contains(t, string(a), `id="series-`)
}
