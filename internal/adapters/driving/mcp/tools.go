package mcp

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// IngestDocumentInput is the input schema for the ingest_document tool.
type IngestDocumentInput struct {
	Path string `json:"path" jsonschema:"path of a local file to load, replacing the current document"`
}

// IngestTextInput is the input schema for the ingest_text tool.
type IngestTextInput struct {
	Text string `json:"text" jsonschema:"plain text to load, replacing the current document"`
	Name string `json:"name,omitempty" jsonschema:"display name for the document"`
}

// IngestOutput is the output schema for the ingest tools.
type IngestOutput struct {
	DocumentID string `json:"document_id"`
	FileName   string `json:"file_name,omitempty"`
	CharCount  int    `json:"char_count"`
	ChunkCount int    `json:"chunk_count"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the loaded document"`
}

// AskOutput is the output schema for the ask tool.
// Status is one of answer, not_processed or no_context.
type AskOutput struct {
	Status  string          `json:"status"`
	Answer  string          `json:"answer,omitempty"`
	Sources []domain.Source `json:"sources,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_document",
		Description: "Load a local file (txt, md, html, docx, pdf) as the document to answer questions about",
	}, s.handleIngestDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_text",
		Description: "Load plain text as the document to answer questions about",
	}, s.handleIngestText)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only the loaded document",
	}, s.handleAsk)
}

func (s *Server) handleIngestDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestDocumentInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if input.Path == "" {
		return nil, IngestOutput{}, fmt.Errorf("%w: path is required", domain.ErrInvalidParameter)
	}

	data, err := s.readFile(input.Path)
	if err != nil {
		return nil, IngestOutput{}, fmt.Errorf("reading %s: %w", input.Path, err)
	}

	stats, err := s.ports.Pipeline.IngestFile(ctx, filepath.Base(input.Path), data)
	if err != nil {
		return nil, IngestOutput{}, ingestError(err)
	}
	return nil, toIngestOutput(stats), nil
}

func (s *Server) handleIngestText(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestTextInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	stats, err := s.ports.Pipeline.Ingest(ctx, input.Text)
	if err != nil {
		return nil, IngestOutput{}, ingestError(err)
	}
	out := toIngestOutput(stats)
	if out.FileName == "" {
		out.FileName = input.Name
	}
	return nil, out, nil
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	// stdout carries the protocol, so retry notices go to the log.
	ctx = driving.WithNoticeSink(ctx, func(notice string) {
		logger.Warn("ask: %s", notice)
	})

	result, err := s.ports.Pipeline.Ask(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Status:  result.Kind.String(),
		Answer:  result.Text,
		Sources: result.Sources,
	}, nil
}

func ingestError(err error) error {
	if errors.Is(err, domain.ErrNoExtractableText) {
		return fmt.Errorf("could not extract text, the file may be scanned or image-based: %w", err)
	}
	return err
}

func toIngestOutput(stats domain.IngestStats) IngestOutput {
	return IngestOutput{
		DocumentID: stats.DocumentID,
		FileName:   stats.FileName,
		CharCount:  stats.CharCount,
		ChunkCount: stats.ChunkCount,
	}
}
