package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// DocumentStore records which document the vector index currently holds.
// Only one document is kept; saving replaces the previous record.
type DocumentStore interface {
	// SaveDocument stores the document record. Content is not persisted.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument returns the current document, or domain.ErrNotFound.
	GetDocument(ctx context.Context) (*domain.Document, error)

	// DeleteDocument removes the current document record.
	DeleteDocument(ctx context.Context) error
}
