// Package memory provides in-process implementations of the storage ports.
//
// The vector index here is the "memory" backend: it lives only as long as
// the process, which suits the MCP server and tests. ConfigStore backs
// settings in tests.
package memory
