package opf

import (
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

// DocumentError is a structured error about one package document.
// It carries the entry path, an optional line number and a hint, and unwraps
// to both its sentinel (epubseries.ErrParseFailed, ...) and the underlying cause.
type DocumentError struct {
	Path    string // entry path inside the archive
	Line    int    // line number (0 if unknown)
	Message string
	Hint    string
	Kind    error // sentinel from package epubseries
	Cause   error
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	location := e.Path
	if location == "" {
		location = "package document"
	}
	if e.Line > 0 {
		location = fmt.Sprintf("%s (line %d)", location, e.Line)
	}

	msg := fmt.Sprintf("%s: %s", location, e.Message)
	if e.Hint != "" {
		msg += "\n\nHint: " + e.Hint
	}
	return msg
}

// Unwrap exposes the sentinel and the cause to errors.Is and errors.As.
func (e *DocumentError) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// wrapXMLError converts decoder errors to a DocumentError with line numbers.
func wrapXMLError(err error, path string) error {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &DocumentError{
			Path:    path,
			Line:    syntaxErr.Line,
			Message: syntaxErr.Msg,
			Hint:    "The package document is not well-formed XML. Open it in an EPUB editor and fix the reported line.",
			Kind:    epubseries.ErrParseFailed,
			Cause:   err,
		}
	}

	return &DocumentError{
		Path:    path,
		Message: err.Error(),
		Kind:    epubseries.ErrParseFailed,
		Cause:   err,
	}
}
