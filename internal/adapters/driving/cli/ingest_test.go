package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestIngestCmd_File(t *testing.T) {
	var gotName string
	var gotData []byte
	p := &mockPipeline{
		ingestFileFunc: func(_ context.Context, name string, data []byte) (domain.IngestStats, error) {
			gotName, gotData = name, data
			return domain.IngestStats{DocumentID: "doc-1", FileName: name, CharCount: 11, ChunkCount: 1}, nil
		},
	}
	out, _ := setupTestServices(t, p, nil)
	path := writeTempFile(t, "notes.txt", "hello world")

	err := execute("ingest", path)

	require.NoError(t, err)
	assert.Equal(t, "notes.txt", gotName)
	assert.Equal(t, "hello world", string(gotData))
	assert.Contains(t, out.String(), "notes.txt")
	assert.Contains(t, out.String(), "Characters: 11")
	assert.Contains(t, out.String(), "Chunks:     1")
}

func TestIngestCmd_JSON(t *testing.T) {
	out, _ := setupTestServices(t, &mockPipeline{}, nil)
	path := writeTempFile(t, "notes.txt", "abc")

	err := execute("ingest", "--json", path)

	require.NoError(t, err)
	var stats domain.IngestStats
	require.NoError(t, json.Unmarshal(out.Bytes(), &stats))
	assert.Equal(t, "notes.txt", stats.FileName)
	assert.Equal(t, 3, stats.CharCount)
}

func TestIngestCmd_Stdin(t *testing.T) {
	var got string
	p := &mockPipeline{
		ingestFunc: func(_ context.Context, content string) (domain.IngestStats, error) {
			got = content
			return domain.IngestStats{CharCount: len(content), ChunkCount: 1}, nil
		},
	}
	out, _ := setupTestServices(t, p, nil)
	rootCmd.SetIn(strings.NewReader("piped text"))

	err := execute("ingest", "-")

	require.NoError(t, err)
	assert.Equal(t, "piped text", got)
	assert.Contains(t, out.String(), "stdin")
}

func TestIngestCmd_MissingFile(t *testing.T) {
	setupTestServices(t, &mockPipeline{}, nil)

	err := execute("ingest", "/nonexistent/file.txt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading")
}

func TestIngestCmd_NoExtractableText(t *testing.T) {
	p := &mockPipeline{
		ingestFileFunc: func(context.Context, string, []byte) (domain.IngestStats, error) {
			return domain.IngestStats{}, domain.ErrNoExtractableText
		},
	}
	_, errOut := setupTestServices(t, p, nil)
	path := writeTempFile(t, "scan.pdf", "%PDF-1.4")

	err := execute("ingest", path)

	assert.ErrorIs(t, err, ErrReported)
	assert.Contains(t, errOut.String(), "scanned or image-based")
}

func TestIngestCmd_EmptyDocument(t *testing.T) {
	p := &mockPipeline{
		ingestFileFunc: func(context.Context, string, []byte) (domain.IngestStats, error) {
			return domain.IngestStats{}, domain.ErrEmptyDocument
		},
	}
	_, errOut := setupTestServices(t, p, nil)
	path := writeTempFile(t, "empty.txt", " ")

	err := execute("ingest", path)

	assert.ErrorIs(t, err, ErrReported)
	assert.Contains(t, errOut.String(), "empty")
}

func TestIngestCmd_PipelineError(t *testing.T) {
	p := &mockPipeline{
		ingestFileFunc: func(context.Context, string, []byte) (domain.IngestStats, error) {
			return domain.IngestStats{}, domain.ErrEmbeddingUnavailable
		},
	}
	setupTestServices(t, p, nil)
	path := writeTempFile(t, "notes.txt", "abc")

	err := execute("ingest", path)

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestIngestCmd_RequiresArg(t *testing.T) {
	setupTestServices(t, &mockPipeline{}, nil)

	err := execute("ingest")

	assert.Error(t, err)
}
