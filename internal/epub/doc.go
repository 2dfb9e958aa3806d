// Package epub handles the zip container side of an EPUB: finding the package
// document inside the archive and rewriting the archive with a replacement
// for that one entry.
//
// Every entry other than the package document is copied with its compressed
// bytes untouched, in its original order, so a patched book differs from the
// original only in the entry that was actually edited.
package epub
