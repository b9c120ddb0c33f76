// Package domain defines the core business entities for docqa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: The single ingested document and its text
//   - Chunk: A retrieval unit cut from the document
//   - IndexEntry: A chunk together with its embedding
//   - AnswerResult: The tagged outcome of asking a question
//   - AppSettings: Provider, chunking, retrieval and index configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
