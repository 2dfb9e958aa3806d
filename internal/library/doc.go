// Package library groups books into series by folder.
//
// A folder of EPUB files is treated as one series whose default name is the
// folder name, normalized to NFC so that names typed on one system match
// names read from another. Books within a folder are ordered naturally:
// "Book 2" sorts before "Book 10".
package library
