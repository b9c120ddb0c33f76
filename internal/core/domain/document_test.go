package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDocument_Fields(t *testing.T) {
	now := time.Now()

	doc := Document{
		ID:         "doc-123",
		Name:       "report.pdf",
		Content:    "hello",
		CharCount:  5,
		ChunkCount: 1,
		IngestedAt: now,
	}

	assert.Equal(t, "doc-123", doc.ID)
	assert.Equal(t, "report.pdf", doc.Name)
	assert.Equal(t, 5, doc.CharCount)
	assert.Equal(t, 1, doc.ChunkCount)
	assert.Equal(t, now, doc.IngestedAt)
}

func TestChunk_Fields(t *testing.T) {
	chunk := Chunk{
		ID:         "chunk_3",
		DocumentID: "doc-123",
		Content:    "some text",
		Position:   3,
		Metadata:   map[string]any{"start": 2400},
	}

	assert.Equal(t, "chunk_3", chunk.ID)
	assert.Equal(t, 3, chunk.Position)
	assert.Equal(t, 2400, chunk.Metadata["start"])
}
