// Package mcp provides an MCP (Model Context Protocol) server adapter for docqa.
// It lets AI assistants load a document and ask questions about it.
package mcp

import "errors"

// ErrMissingPipelineService is returned when the pipeline service is not provided.
var ErrMissingPipelineService = errors.New("mcp: pipeline service is required")
