package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func newTestServer(t *testing.T, pipeline *mockPipelineService) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Pipeline: pipeline})
	require.NoError(t, err)
	return server
}

func TestServer_handleIngestDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("reads the file and ingests it by base name", func(t *testing.T) {
		pipeline := &mockPipelineService{
			stats: domain.IngestStats{DocumentID: "doc-1", FileName: "policy.md", CharCount: 120, ChunkCount: 2},
		}
		server := newTestServer(t, pipeline)
		server.readFile = func(path string) ([]byte, error) {
			assert.Equal(t, "/srv/docs/policy.md", path)
			return []byte("# Policy"), nil
		}

		_, out, err := server.handleIngestDocument(ctx, nil, IngestDocumentInput{Path: "/srv/docs/policy.md"})

		require.NoError(t, err)
		assert.Equal(t, "policy.md", pipeline.ingestedName)
		assert.Equal(t, []byte("# Policy"), pipeline.ingestedData)
		assert.Equal(t, IngestOutput{DocumentID: "doc-1", FileName: "policy.md", CharCount: 120, ChunkCount: 2}, out)
	})

	t.Run("empty path", func(t *testing.T) {
		server := newTestServer(t, &mockPipelineService{})

		_, _, err := server.handleIngestDocument(ctx, nil, IngestDocumentInput{})

		assert.ErrorIs(t, err, domain.ErrInvalidParameter)
	})

	t.Run("unreadable file", func(t *testing.T) {
		server := newTestServer(t, &mockPipelineService{})
		server.readFile = func(string) ([]byte, error) { return nil, errors.New("no such file") }

		_, _, err := server.handleIngestDocument(ctx, nil, IngestDocumentInput{Path: "missing.pdf"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading missing.pdf")
	})

	t.Run("no extractable text", func(t *testing.T) {
		server := newTestServer(t, &mockPipelineService{err: domain.ErrNoExtractableText})
		server.readFile = func(string) ([]byte, error) { return []byte("%PDF"), nil }

		_, _, err := server.handleIngestDocument(ctx, nil, IngestDocumentInput{Path: "scan.pdf"})

		assert.ErrorIs(t, err, domain.ErrNoExtractableText)
		assert.Contains(t, err.Error(), "scanned or image-based")
	})
}

func TestServer_handleIngestText(t *testing.T) {
	ctx := context.Background()

	t.Run("ingests text and echoes the name", func(t *testing.T) {
		pipeline := &mockPipelineService{stats: domain.IngestStats{DocumentID: "doc-2", CharCount: 5, ChunkCount: 1}}
		server := newTestServer(t, pipeline)

		_, out, err := server.handleIngestText(ctx, nil, IngestTextInput{Text: "hello", Name: "greeting"})

		require.NoError(t, err)
		assert.Equal(t, "hello", pipeline.ingestedText)
		assert.Equal(t, "greeting", out.FileName)
		assert.Equal(t, 1, out.ChunkCount)
	})

	t.Run("empty document", func(t *testing.T) {
		server := newTestServer(t, &mockPipelineService{err: domain.ErrEmptyDocument})

		_, _, err := server.handleIngestText(ctx, nil, IngestTextInput{Text: "  "})

		assert.ErrorIs(t, err, domain.ErrEmptyDocument)
	})
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		answer domain.AnswerResult
		want   AskOutput
	}{
		{
			name:   "answer",
			answer: domain.Answer("Thirty days.", []domain.Source{{ChunkID: "chunk_1", Similarity: 0.8}}),
			want: AskOutput{
				Status:  "answer",
				Answer:  "Thirty days.",
				Sources: []domain.Source{{ChunkID: "chunk_1", Similarity: 0.8}},
			},
		},
		{
			name:   "not processed",
			answer: domain.NotProcessed(),
			want:   AskOutput{Status: "not_processed"},
		},
		{
			name:   "no context",
			answer: domain.NoContext(),
			want:   AskOutput{Status: "no_context"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := &mockPipelineService{answer: tt.answer}
			server := newTestServer(t, pipeline)

			_, out, err := server.handleAsk(ctx, nil, AskInput{Question: "refund window?"})

			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
			assert.Equal(t, "refund window?", pipeline.question)
		})
	}
}

func TestServer_handleAsk_AttachesNoticeSink(t *testing.T) {
	pipeline := &mockPipelineService{answer: domain.NoContext()}
	server := newTestServer(t, pipeline)

	_, _, err := server.handleAsk(context.Background(), nil, AskInput{Question: "q"})

	require.NoError(t, err)
	assert.Len(t, pipeline.notices, 1)
}

func TestServer_handleAsk_Error(t *testing.T) {
	server := newTestServer(t, &mockPipelineService{err: domain.ErrRateLimited})

	_, _, err := server.handleAsk(context.Background(), nil, AskInput{Question: "q"})

	assert.ErrorIs(t, err, domain.ErrRateLimited)
}
