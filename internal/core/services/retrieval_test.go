package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/postprocessors/chunker"
)

func seededIndex(contents ...string) *mockVectorIndex {
	idx := &mockVectorIndex{}
	for i, c := range contents {
		idx.entries = append(idx.entries, domain.IndexEntry{
			ID:        chunker.ChunkID(i),
			Content:   c,
			Embedding: []float32{1, 0, 0},
		})
	}
	return idx
}

func TestRetrievalService_EmptyIndexSkipsEmbedding(t *testing.T) {
	emb := &mockEmbeddingService{}
	svc := NewRetrievalService(emb, &mockVectorIndex{}, nil)

	got, err := svc.RetrieveContext(context.Background(), "anything", 3)

	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
	assert.Zero(t, emb.embedCalls)
}

func TestRetrievalService_JoinsTopK(t *testing.T) {
	emb := &mockEmbeddingService{}
	svc := NewRetrievalService(emb, seededIndex("alpha", "beta", "gamma", "delta"), nil)

	got, err := svc.RetrieveContext(context.Background(), "q", 3)

	require.NoError(t, err)
	assert.Equal(t, "alpha\n\nbeta\n\ngamma", got.Text)
	require.Len(t, got.Sources, 3)
	assert.Equal(t, "chunk_0", got.Sources[0].ChunkID)
	assert.Equal(t, "chunk_2", got.Sources[2].ChunkID)
	assert.Equal(t, 1, emb.embedCalls)
}

func TestRetrievalService_FewerThanTopK(t *testing.T) {
	svc := NewRetrievalService(&mockEmbeddingService{}, seededIndex("only"), nil)

	got, err := svc.RetrieveContext(context.Background(), "q", 3)

	require.NoError(t, err)
	assert.Equal(t, "only", got.Text)
	assert.Len(t, got.Sources, 1)
}

func TestRetrievalService_TokenEstimate(t *testing.T) {
	t.Run("fallback counts runes", func(t *testing.T) {
		svc := NewRetrievalService(&mockEmbeddingService{}, seededIndex("abcdefgh"), nil)
		got, err := svc.RetrieveContext(context.Background(), "q", 1)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Tokens)
	})

	t.Run("uses token counter", func(t *testing.T) {
		svc := NewRetrievalService(&mockEmbeddingService{}, seededIndex("abcdefgh"), &mockTokenCounter{n: 7})
		got, err := svc.RetrieveContext(context.Background(), "q", 1)
		require.NoError(t, err)
		assert.Equal(t, 7, got.Tokens)
	})
}

func TestRetrievalService_Errors(t *testing.T) {
	t.Run("count", func(t *testing.T) {
		idx := seededIndex("a")
		idx.countErr = errBoom
		svc := NewRetrievalService(&mockEmbeddingService{}, idx, nil)
		_, err := svc.RetrieveContext(context.Background(), "q", 1)
		assert.ErrorIs(t, err, errBoom)
	})

	t.Run("embed", func(t *testing.T) {
		svc := NewRetrievalService(&mockEmbeddingService{embedErr: errBoom}, seededIndex("a"), nil)
		_, err := svc.RetrieveContext(context.Background(), "q", 1)
		assert.ErrorIs(t, err, errBoom)
	})

	t.Run("query", func(t *testing.T) {
		idx := seededIndex("a")
		idx.queryErr = errBoom
		svc := NewRetrievalService(&mockEmbeddingService{}, idx, nil)
		_, err := svc.RetrieveContext(context.Background(), "q", 1)
		assert.ErrorIs(t, err, errBoom)
	})
}
