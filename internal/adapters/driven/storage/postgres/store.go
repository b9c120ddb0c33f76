// Package postgres stores the vector index and the document record in
// PostgreSQL using the pgvector extension.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

const schema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS docqa_chunks (
    seq       BIGSERIAL,
    id        TEXT PRIMARY KEY,
    content   TEXT NOT NULL,
    embedding vector NOT NULL
);

CREATE TABLE IF NOT EXISTS docqa_document (
    slot        INTEGER PRIMARY KEY CHECK (slot = 1),
    id          TEXT NOT NULL,
    name        TEXT NOT NULL DEFAULT '',
    char_count  INTEGER NOT NULL,
    chunk_count INTEGER NOT NULL,
    ingested_at TIMESTAMPTZ NOT NULL
);
`

// Store holds a pgx connection pool shared by the vector index and the
// document store.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to dsn and creates the tables if needed.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: postgres DSN is empty", domain.ErrVectorIndexUnavailable)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVectorIndexUnavailable, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrVectorIndexUnavailable, err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// VectorIndex returns a VectorIndex backed by this store.
func (s *Store) VectorIndex() driven.VectorIndex {
	return &vectorIndex{pool: s.pool}
}

// DocumentStore returns a DocumentStore backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{pool: s.pool}
}

type vectorIndex struct {
	pool *pgxpool.Pool
}

var _ driven.VectorIndex = (*vectorIndex)(nil)

func (v *vectorIndex) Clear(ctx context.Context) error {
	if _, err := v.pool.Exec(ctx, "TRUNCATE docqa_chunks"); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}
	return nil
}

func (v *vectorIndex) UpsertAll(ctx context.Context, entries []domain.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := similarity.CheckIDs(entries); err != nil {
		return err
	}

	current, err := v.dimensions(ctx)
	if err != nil {
		return err
	}
	if _, err := similarity.CheckDimensions(entries, current); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(`
			INSERT INTO docqa_chunks (id, content, embedding)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET
				content = EXCLUDED.content,
				embedding = EXCLUDED.embedding
		`, e.ID, e.Content, pgvector.NewVector(e.Embedding))
	}

	tx, err := v.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("saving chunks: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing chunks: %w", err)
	}
	return nil
}

func (v *vectorIndex) Count(ctx context.Context) (int, error) {
	var n int
	if err := v.pool.QueryRow(ctx, "SELECT COUNT(*) FROM docqa_chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// Query orders by cosine distance (<=>) and reports 1 - distance.
func (v *vectorIndex) Query(ctx context.Context, embedding []float32, topK int) ([]driven.VectorHit, error) {
	if err := similarity.CheckTopK(topK); err != nil {
		return nil, err
	}

	current, err := v.dimensions(ctx)
	if err != nil {
		return nil, err
	}
	if current == 0 {
		return nil, nil
	}
	if len(embedding) != current {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(embedding), current)
	}

	rows, err := v.pool.Query(ctx, `
		SELECT id, content, 1 - (embedding <=> $1) AS similarity
		FROM docqa_chunks
		ORDER BY embedding <=> $1, seq
		LIMIT $2
	`, pgvector.NewVector(embedding), topK)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var hits []driven.VectorHit
	for rows.Next() {
		var h driven.VectorHit
		if err := rows.Scan(&h.ChunkID, &h.Content, &h.Similarity); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func (v *vectorIndex) Close() error {
	return nil
}

func (v *vectorIndex) dimensions(ctx context.Context) (int, error) {
	var dims int
	err := v.pool.QueryRow(ctx, "SELECT vector_dims(embedding) FROM docqa_chunks LIMIT 1").Scan(&dims)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading dimensions: %w", err)
	}
	return dims, nil
}

type documentStore struct {
	pool *pgxpool.Pool
}

var _ driven.DocumentStore = (*documentStore)(nil)

func (d *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc == nil {
		return domain.ErrInvalidParameter
	}
	ingestedAt := doc.IngestedAt
	if ingestedAt.IsZero() {
		ingestedAt = time.Now().UTC()
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO docqa_document (slot, id, name, char_count, chunk_count, ingested_at)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (slot) DO UPDATE SET
			id = EXCLUDED.id,
			name = EXCLUDED.name,
			char_count = EXCLUDED.char_count,
			chunk_count = EXCLUDED.chunk_count,
			ingested_at = EXCLUDED.ingested_at
	`, doc.ID, doc.Name, doc.CharCount, doc.ChunkCount, ingestedAt)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

func (d *documentStore) GetDocument(ctx context.Context) (*domain.Document, error) {
	var doc domain.Document
	err := d.pool.QueryRow(ctx, `
		SELECT id, name, char_count, chunk_count, ingested_at FROM docqa_document WHERE slot = 1
	`).Scan(&doc.ID, &doc.Name, &doc.CharCount, &doc.ChunkCount, &doc.IngestedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return &doc, nil
}

func (d *documentStore) DeleteDocument(ctx context.Context) error {
	if _, err := d.pool.Exec(ctx, "DELETE FROM docqa_document"); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}
