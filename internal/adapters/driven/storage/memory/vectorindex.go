package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is a brute-force cosine index held in memory.
type VectorIndex struct {
	mu      sync.RWMutex
	entries []domain.IndexEntry
	byID    map[string]int
	dims    int
}

// NewVectorIndex creates an empty in-memory vector index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{
		byID: make(map[string]int),
	}
}

// Clear removes every entry.
func (v *VectorIndex) Clear(_ context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries = nil
	v.byID = make(map[string]int)
	v.dims = 0
	return nil
}

// UpsertAll inserts entries, replacing any with the same ID.
// All embeddings must share one dimensionality.
func (v *VectorIndex) UpsertAll(_ context.Context, entries []domain.IndexEntry) error {
	if err := similarity.CheckIDs(entries); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	dims, err := similarity.CheckDimensions(entries, v.dims)
	if err != nil {
		return err
	}
	v.dims = dims

	for _, e := range entries {
		e.Embedding = append([]float32(nil), e.Embedding...)
		if i, ok := v.byID[e.ID]; ok {
			v.entries[i] = e
			continue
		}
		v.byID[e.ID] = len(v.entries)
		v.entries = append(v.entries, e)
	}
	return nil
}

// Count returns the number of entries.
func (v *VectorIndex) Count(_ context.Context) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entries), nil
}

// Query returns the topK entries most similar to embedding.
func (v *VectorIndex) Query(_ context.Context, embedding []float32, topK int) ([]driven.VectorHit, error) {
	if err := similarity.CheckTopK(topK); err != nil {
		return nil, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	if len(v.entries) == 0 {
		return nil, nil
	}
	if len(embedding) != v.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(embedding), v.dims)
	}
	return similarity.TopK(v.entries, embedding, topK), nil
}

// Close is a no-op.
func (v *VectorIndex) Close() error {
	return nil
}
