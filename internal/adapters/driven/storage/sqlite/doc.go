// Package sqlite persists the vector index and the ingested document's
// record in a single SQLite database.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Embeddings are stored as little-endian float32 BLOBs and
// queried with a brute-force cosine scan, which is adequate for the chunk
// counts of one document.
//
// # Schema
//
// The schema is managed through versioned migrations in the migrations/
// directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.docqa/data/index.db
package sqlite
