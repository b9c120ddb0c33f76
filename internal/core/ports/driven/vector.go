package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// VectorIndex stores chunk text alongside embeddings and answers
// nearest-neighbour queries. It holds one document's chunks at a time:
// callers Clear before UpsertAll.
type VectorIndex interface {
	// Clear removes all stored entries. Clearing an empty index is a no-op.
	Clear(ctx context.Context) error

	// UpsertAll stores the given entries. Returns domain.ErrDimensionMismatch
	// when embedding lengths are inconsistent.
	UpsertAll(ctx context.Context, entries []domain.IndexEntry) error

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Query returns up to min(topK, Count) entries ordered by descending
	// similarity to the embedding. topK <= 0 returns domain.ErrInvalidParameter.
	Query(ctx context.Context, embedding []float32, topK int) ([]VectorHit, error)

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Content is the stored chunk text.
	Content string

	// Similarity is the cosine similarity score.
	Similarity float64
}
