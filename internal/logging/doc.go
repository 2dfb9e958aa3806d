// Package logging provides implementations of the epubseries.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: writes formatted messages to stderr (or any writer)
//   - NullLogger: discards all messages
//
// All implementations are safe for concurrent use.
package logging
