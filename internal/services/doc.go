// Package services orchestrates patch runs.
//
// Patcher handles one book: it reads the package document, asks the
// Approver when a series already exists, injects the new declaration and
// rewrites the archive. Batch runs a Patcher over many books, carrying the
// on-existing Policy from one book to the next and never stopping on a
// per-book failure.
package services
