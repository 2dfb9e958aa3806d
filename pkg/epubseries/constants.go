package epubseries

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Every book was applied or skipped
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration, flags or series index
	ExitBatchIncomplete = 11 // At least one book failed to patch
	ExitNoBooksFound    = 12 // No .epub files under the given path
)

const (
	// ContainerPath is the fixed location of the container manifest inside an EPUB.
	ContainerPath = "META-INF/container.xml"

	// PackageDocumentExt is the extension used by the locator fallback scan.
	PackageDocumentExt = ".opf"

	// PackageDocumentMediaType identifies the preferred rootfile in container.xml.
	PackageDocumentMediaType = "application/oebps-package+xml"

	// BookExt is the extension used when discovering books on disk.
	BookExt = ".epub"

	// DefaultBackupSuffix is appended to backup copies of patched archives.
	DefaultBackupSuffix = ".bak"

	// TempSuffix names the sibling archive written before the atomic replace.
	TempSuffix = ".tmp"

	// LockSuffix names the sibling file locked while an archive is rewritten.
	LockSuffix = ".lock"

	// CalibreNamespace is the namespace URI of the legacy calibre series element.
	CalibreNamespace = "http://calibre.kovidgoyal.net/2009/metadata"

	// CollectionProperty marks a structured collection declaration.
	CollectionProperty = "belongs-to-collection"

	// CollectionTypeSeries is the collection-type value written for series.
	CollectionTypeSeries = "series"

	// LegacySeriesName and LegacySeriesIndexName name the legacy meta declarations.
	LegacySeriesName      = "calibre:series"
	LegacySeriesIndexName = "calibre:series_index"
)
