package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func testEntries() []domain.IndexEntry {
	return []domain.IndexEntry{
		{ID: "chunk_0", Content: "cats purr", Embedding: []float32{1, 0, 0}},
		{ID: "chunk_1", Content: "dogs bark", Embedding: []float32{0, 1, 0}},
		{ID: "chunk_2", Content: "cats and dogs", Embedding: []float32{0.7, 0.7, 0}},
	}
}

func TestVectorIndex_UpsertCountQuery(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()

	require.NoError(t, idx.UpsertAll(ctx, testEntries()))

	count, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	hits, err := idx.Query(ctx, []float32{1, 0.1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "chunk_0", hits[0].ChunkID)
	assert.Equal(t, "cats purr", hits[0].Content)
	assert.Equal(t, "chunk_2", hits[1].ChunkID)
	assert.GreaterOrEqual(t, hits[0].Similarity, hits[1].Similarity)
}

func TestVectorIndex_UpsertReplacesByID(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()

	require.NoError(t, idx.UpsertAll(ctx, testEntries()))
	require.NoError(t, idx.UpsertAll(ctx, []domain.IndexEntry{
		{ID: "chunk_1", Content: "replaced", Embedding: []float32{0, 0, 1}},
	}))

	count, _ := idx.Count(ctx)
	assert.Equal(t, 3, count)

	hits, err := idx.Query(ctx, []float32{0, 0, 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, "replaced", hits[0].Content)
}

func TestVectorIndex_Clear(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()
	require.NoError(t, idx.UpsertAll(ctx, testEntries()))

	require.NoError(t, idx.Clear(ctx))

	count, _ := idx.Count(ctx)
	assert.Zero(t, count)

	hits, err := idx.Query(ctx, []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)

	// A cleared index accepts a new dimensionality.
	require.NoError(t, idx.UpsertAll(ctx, []domain.IndexEntry{{ID: "x", Embedding: []float32{1, 2}}}))
}

func TestVectorIndex_DimensionMismatch(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()
	require.NoError(t, idx.UpsertAll(ctx, testEntries()))

	err := idx.UpsertAll(ctx, []domain.IndexEntry{{ID: "bad", Embedding: []float32{1, 2}}})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	_, err = idx.Query(ctx, []float32{1, 2}, 1)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestVectorIndex_CopiesEmbeddings(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()
	entries := []domain.IndexEntry{{ID: "a", Content: "a", Embedding: []float32{1, 0}}}
	require.NoError(t, idx.UpsertAll(ctx, entries))

	entries[0].Embedding[0] = 0
	entries[0].Embedding[1] = 1

	hits, err := idx.Query(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)
}

func TestVectorIndex_ConcurrentReaders(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()
	require.NoError(t, idx.UpsertAll(ctx, testEntries()))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hits, err := idx.Query(ctx, []float32{0, 1, 0}, 1)
			assert.NoError(t, err)
			assert.Equal(t, "chunk_1", hits[0].ChunkID)
		}()
	}
	wg.Wait()
}

func TestVectorIndex_QueryRejectsNonPositiveTopK(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()
	require.NoError(t, idx.UpsertAll(ctx, testEntries()))

	for _, k := range []int{0, -1} {
		hits, err := idx.Query(ctx, []float32{1, 0, 0}, k)
		assert.ErrorIs(t, err, domain.ErrInvalidParameter, "topK=%d", k)
		assert.Nil(t, hits)
	}
}

func TestVectorIndex_UpsertRejectsBadIDs(t *testing.T) {
	tests := []struct {
		name    string
		entries []domain.IndexEntry
	}{
		{
			name: "duplicate id",
			entries: []domain.IndexEntry{
				{ID: "x", Embedding: []float32{1, 0}},
				{ID: "x", Embedding: []float32{0, 1}},
			},
		},
		{
			name:    "empty id",
			entries: []domain.IndexEntry{{ID: "", Embedding: []float32{1, 0}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := NewVectorIndex()
			ctx := context.Background()

			err := idx.UpsertAll(ctx, tt.entries)
			assert.ErrorIs(t, err, domain.ErrInvalidParameter)

			count, err := idx.Count(ctx)
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	}
}
