// Package checksum fingerprints package documents.
//
// The patcher compares the fingerprint of a document before and after
// injection; when they match the archive is left alone, so re-applying the
// same series to a book never rewrites it.
//
// # Example Usage
//
//	calculator := checksum.New()
//	if calculator.CalculateRaw(before) == calculator.CalculateRaw(after) {
//	    // nothing to write
//	}
//
// # Thread Safety
//
// SHA256 is safe for concurrent use by multiple goroutines.
package checksum
