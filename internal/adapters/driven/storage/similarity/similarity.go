// Package similarity ranks stored embeddings against a query vector.
package similarity

import (
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Cosine returns the cosine similarity of a and b. Zero-length, mismatched
// or zero-norm vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// TopK scores every entry against query and returns the k best, most
// similar first. Ties keep the order of entries.
func TopK(entries []domain.IndexEntry, query []float32, k int) []driven.VectorHit {
	if k <= 0 || len(entries) == 0 {
		return nil
	}

	hits := make([]driven.VectorHit, len(entries))
	for i, e := range entries {
		hits[i] = driven.VectorHit{
			ChunkID:    e.ID,
			Content:    e.Content,
			Similarity: Cosine(query, e.Embedding),
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits
}

// CheckDimensions reports domain.ErrDimensionMismatch when any entry's
// embedding length differs from want. A want of 0 adopts the first entry's length.
func CheckDimensions(entries []domain.IndexEntry, want int) (int, error) {
	for _, e := range entries {
		if len(e.Embedding) == 0 {
			return want, fmt.Errorf("%w: entry %s has no embedding", domain.ErrDimensionMismatch, e.ID)
		}
		if want == 0 {
			want = len(e.Embedding)
			continue
		}
		if len(e.Embedding) != want {
			return want, fmt.Errorf("%w: entry %s has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, e.ID, len(e.Embedding), want)
		}
	}
	return want, nil
}

// CheckIDs reports domain.ErrInvalidParameter when an entry has an empty id
// or repeats an id already seen in the batch.
func CheckIDs(entries []domain.IndexEntry) error {
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return fmt.Errorf("%w: entry %d has an empty id", domain.ErrInvalidParameter, i)
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s in batch", domain.ErrInvalidParameter, e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return nil
}

// CheckTopK reports domain.ErrInvalidParameter for a non-positive k.
func CheckTopK(k int) error {
	if k <= 0 {
		return fmt.Errorf("%w: topK must be positive, got %d", domain.ErrInvalidParameter, k)
	}
	return nil
}
