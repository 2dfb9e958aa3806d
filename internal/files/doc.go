// Package files groups the book discovery code.
//
// Sub-packages:
//   - filesystem: filesystem abstraction with OS and in-memory implementations
//   - scanner: finds EPUB files below a path, flat or recursive
//
// # Usage
//
//	finder := scanner.NewScanner()
//	books, err := finder.FindBooks("./library", true)
package files
