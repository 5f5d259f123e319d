// Package note provides parsing and validation of plain-text release
// notes as shipped in editor-plugin message directories.
//
// This package implements:
//   - Loose parsing of the message text format (title line, "Features:"
//     style section headers, indented bullet lines)
//   - Byte-exact retention of the original document content
//   - Validation of version identifiers and document structure
//   - An embedded snapshot of relnote's own messages via go:embed
//
// A messages directory holds one document per shipped version
// (messages/2.19.0.txt), optionally indexed by a messages.json file
// mapping version identifiers to filenames.
package note
