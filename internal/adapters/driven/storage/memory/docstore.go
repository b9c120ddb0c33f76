package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore holds the record of the single ingested document.
type DocumentStore struct {
	mu  sync.RWMutex
	doc *domain.Document
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{}
}

// SaveDocument replaces the stored document record.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if doc == nil {
		return domain.ErrInvalidParameter
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *doc
	s.doc = &cp
	return nil
}

// GetDocument returns the stored document record or domain.ErrNotFound.
func (s *DocumentStore) GetDocument(_ context.Context) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil, domain.ErrNotFound
	}
	cp := *s.doc
	return &cp, nil
}

// DeleteDocument forgets the stored document record.
func (s *DocumentStore) DeleteDocument(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = nil
	return nil
}
