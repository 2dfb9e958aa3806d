package epubseries

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	res, err := patcher.PatchFile(ctx, job, policy)
//	if errors.Is(err, epubseries.ErrMissingMetadata) {
//	    // The OPF has no <metadata> element
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidIndex indicates a series index could not be parsed.
	ErrInvalidIndex = errors.New("invalid series index")

	// ErrPackageNotFound indicates neither container.xml nor any .opf entry locates the package document.
	ErrPackageNotFound = errors.New("package document not found")

	// ErrParseFailed indicates the package document is not well-formed, even after sanitizing.
	ErrParseFailed = errors.New("package document is not well-formed")

	// ErrMissingMetadata indicates a well-formed package document without a metadata element.
	ErrMissingMetadata = errors.New("package document has no metadata element")

	// ErrMalformedDocument indicates the injector could not locate a metadata element span.
	ErrMalformedDocument = errors.New("malformed package document")

	// ErrArchiveLocked indicates another process holds the lock on an archive.
	ErrArchiveLocked = errors.New("archive is locked by another process")

	// ErrApprovalDenied indicates the operator declined to replace an existing series.
	ErrApprovalDenied = errors.New("approval denied")

	// ErrNoBooksFound indicates the given path contains no .epub files.
	ErrNoBooksFound = errors.New("no epub files found")

	// ErrBatchIncomplete indicates at least one book in a batch failed.
	ErrBatchIncomplete = errors.New("one or more books failed")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrInvalidIndex):
		return ExitConfigError
	case errors.Is(err, ErrBatchIncomplete):
		return ExitBatchIncomplete
	case errors.Is(err, ErrNoBooksFound):
		return ExitNoBooksFound
	}

	// cobra reports usage problems as plain errors
	errStr := err.Error()
	if strings.HasPrefix(errStr, "unknown flag") ||
		strings.HasPrefix(errStr, "unknown shorthand flag") ||
		strings.HasPrefix(errStr, "unknown command") ||
		strings.HasPrefix(errStr, "invalid argument") ||
		strings.HasPrefix(errStr, "required flag") ||
		strings.HasPrefix(errStr, "missing required argument") ||
		strings.Contains(errStr, "arg(s), received") {
		return ExitUsageError
	}

	return ExitGeneralError
}
