package epub

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testContainer = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const testOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>T</dc:title>
  </metadata>
</package>
`

type testEntry struct {
	Name    string
	Body    string
	Method  uint16
	Comment string
}

func defaultEntries() []testEntry {
	return []testEntry{
		{Name: "mimetype", Body: "application/epub+zip", Method: zip.Store},
		{Name: "META-INF/container.xml", Body: testContainer, Method: zip.Deflate},
		{Name: "OEBPS/content.opf", Body: testOPF, Method: zip.Deflate, Comment: "package"},
		{Name: "OEBPS/c1.xhtml", Body: "<html><body><p>One</p></body></html>", Method: zip.Deflate},
		{Name: "OEBPS/cover.jpg", Body: string(bytes.Repeat([]byte{0xff, 0xd8, 0x00}, 300)), Method: zip.Store},
	}
}

func buildZip(t *testing.T, entries []testEntry, comment string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	modified := time.Date(2020, 5, 17, 10, 30, 0, 0, time.UTC)
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Name,
			Method:   e.Method,
			Modified: modified,
			Comment:  e.Comment,
		})
		require.NoError(t, err)
		_, err = io.WriteString(w, e.Body)
		require.NoError(t, err)
	}
	if comment != "" {
		require.NoError(t, zw.SetComment(comment))
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func writeBook(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o640))
	return path
}

func openZip(t *testing.T, data []byte) *zip.Reader {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	return zr
}

func rawEntry(t *testing.T, f *zip.File) []byte {
	t.Helper()
	rc, err := f.OpenRaw()
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return data
}

func entryContent(t *testing.T, f *zip.File) string {
	t.Helper()
	rc, err := f.Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}
