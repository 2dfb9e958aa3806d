package epub

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

// container mirrors META-INF/container.xml.
type container struct {
	Rootfiles []rootfile `xml:"rootfiles>rootfile"`
}

type rootfile struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

// LocatePackageDocument returns the archive path of the package document.
//
// The container manifest is authoritative: its first rootfile with the OPF
// media type that exists in the archive wins, then any other listed rootfile.
// If the manifest is missing, unparsable or points nowhere, the first entry
// whose name ends in ".opf" (any case) is used instead.
func LocatePackageDocument(zr *zip.Reader) (string, error) {
	names := make(map[string]bool, len(zr.File))
	for _, f := range zr.File {
		names[f.Name] = true
	}

	if path, ok := fromContainer(zr, names); ok {
		return path, nil
	}

	for _, f := range zr.File {
		if strings.HasSuffix(strings.ToLower(f.Name), epubseries.PackageDocumentExt) {
			return f.Name, nil
		}
	}
	return "", fmt.Errorf("no package document in archive: %w", epubseries.ErrPackageNotFound)
}

func fromContainer(zr *zip.Reader, names map[string]bool) (string, bool) {
	data, err := readEntry(zr, epubseries.ContainerPath)
	if err != nil {
		return "", false
	}

	var c container
	if err := xml.Unmarshal(data, &c); err != nil {
		return "", false
	}

	for _, preferMediaType := range []bool{true, false} {
		for _, rf := range c.Rootfiles {
			path := strings.TrimPrefix(strings.TrimSpace(rf.FullPath), "/")
			if path == "" || !names[path] {
				continue
			}
			if preferMediaType && rf.MediaType != epubseries.PackageDocumentMediaType {
				continue
			}
			return path, true
		}
	}
	return "", false
}

// readEntry returns the decompressed content of the named entry.
func readEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("entry %s not found", name)
}
