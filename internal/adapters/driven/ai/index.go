package ai

import (
	"context"
	"fmt"
	"io"

	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Index bundles the vector index and document store of one backend.
type Index struct {
	Vectors   driven.VectorIndex
	Documents driven.DocumentStore

	closer io.Closer
}

// Close releases the backend.
func (i *Index) Close() error {
	if i == nil || i.closer == nil {
		return nil
	}
	return i.closer.Close()
}

// OpenIndex opens the index backend named in settings.
func OpenIndex(ctx context.Context, settings domain.IndexSettings) (*Index, error) {
	switch settings.Backend {
	case domain.IndexBackendMemory:
		return &Index{
			Vectors:   memory.NewVectorIndex(),
			Documents: memory.NewDocumentStore(),
		}, nil

	case domain.IndexBackendSQLite, "":
		store, err := sqlite.NewStore(settings.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
		}
		return &Index{
			Vectors:   store.VectorIndex(),
			Documents: store.DocumentStore(),
			closer:    store,
		}, nil

	case domain.IndexBackendPostgres:
		store, err := postgres.NewStore(ctx, settings.DSN)
		if err != nil {
			return nil, err
		}
		return &Index{
			Vectors:   store.VectorIndex(),
			Documents: store.DocumentStore(),
			closer:    store,
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown index backend %q", domain.ErrInvalidParameter, settings.Backend)
	}
}
