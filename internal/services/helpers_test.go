package services

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

const testContainer = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const plainMetadata = `
    <dc:title>Dune</dc:title>
  `

const legacyMetadata = `
    <dc:title>Dune</dc:title>
    <meta name="calibre:series" content="Old Series"/>
  `

func opfWith(metadata string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">` + metadata + `</metadata>
</package>
`
}

func buildBook(t *testing.T, opf string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := []struct {
		name   string
		body   string
		method uint16
	}{
		{"mimetype", "application/epub+zip", zip.Store},
		{"META-INF/container.xml", testContainer, zip.Deflate},
		{"OEBPS/content.opf", opf, zip.Deflate},
		{"OEBPS/c1.xhtml", "<html><body><p>One</p></body></html>", zip.Deflate},
	}
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: e.method})
		require.NoError(t, err)
		_, err = io.WriteString(w, e.body)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func writeBook(t *testing.T, dir, name, opf string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buildBook(t, opf), 0o644))
	return path
}

func readOPF(t *testing.T, path string) string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name == "OEBPS/content.opf" {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(data)
		}
	}
	t.Fatalf("no package document in %s", path)
	return ""
}

func fixedIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("series-%d", n)
	}
}

type fakeApprover struct {
	decisions []epubseries.Decision
	err       error
	requests  []epubseries.ReplaceRequest
}

func (a *fakeApprover) ConfirmReplace(_ context.Context, req epubseries.ReplaceRequest) (epubseries.Decision, error) {
	a.requests = append(a.requests, req)
	if a.err != nil {
		return epubseries.DecisionDecline, a.err
	}
	if len(a.decisions) == 0 {
		return epubseries.DecisionDecline, nil
	}
	d := a.decisions[0]
	a.decisions = a.decisions[1:]
	return d, nil
}

type recordingLogger struct {
	infos  []string
	errors []string
}

func (l *recordingLogger) Verbose(string, ...interface{}) {}

func (l *recordingLogger) Info(format string, args ...interface{}) {
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Error(format string, args ...interface{}) {
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}
