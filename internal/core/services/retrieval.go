package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// contextSeparator joins retrieved chunk texts.
const contextSeparator = "\n\n"

// RetrievalService turns a query into a context string by embedding it and
// querying the vector index.
type RetrievalService struct {
	embeddingService driven.EmbeddingService
	vectorIndex      driven.VectorIndex
	tokenCounter     driven.TokenCounter
}

// NewRetrievalService creates a new retrieval service.
// The tokenCounter parameter is optional (can be nil).
func NewRetrievalService(
	embeddingService driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	tokenCounter driven.TokenCounter,
) *RetrievalService {
	return &RetrievalService{
		embeddingService: embeddingService,
		vectorIndex:      vectorIndex,
		tokenCounter:     tokenCounter,
	}
}

// RetrieveContext returns the topK most similar chunk texts joined by a blank
// line, most relevant first. An empty index yields an empty context without
// calling the embedding service.
func (s *RetrievalService) RetrieveContext(ctx context.Context, query string, topK int) (domain.RetrievedContext, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q, topK: %d", query, topK)

	total, err := s.vectorIndex.Count(ctx)
	if err != nil {
		return domain.RetrievedContext{}, fmt.Errorf("count index: %w", err)
	}
	if total == 0 {
		logger.Debug("Index is empty, skipping embedding")
		return domain.RetrievedContext{}, nil
	}

	embedding, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		return domain.RetrievedContext{}, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.vectorIndex.Query(ctx, embedding, topK)
	if err != nil {
		return domain.RetrievedContext{}, fmt.Errorf("query index: %w", err)
	}

	texts := make([]string, 0, len(hits))
	sources := make([]domain.Source, 0, len(hits))
	for _, hit := range hits {
		logger.Debug("Hit %s similarity=%.4f", hit.ChunkID, hit.Similarity)
		texts = append(texts, hit.Content)
		sources = append(sources, domain.Source{ChunkID: hit.ChunkID, Similarity: hit.Similarity})
	}

	text := strings.Join(texts, contextSeparator)
	retrieved := domain.RetrievedContext{
		Text:    text,
		Sources: sources,
		Tokens:  s.countTokens(text),
	}
	logger.Info("Retrieved %d chunks (~%d tokens)", len(hits), retrieved.Tokens)

	return retrieved, nil
}

func (s *RetrievalService) countTokens(text string) int {
	if text == "" {
		return 0
	}
	if s.tokenCounter != nil {
		return s.tokenCounter.Count(text)
	}
	return utf8.RuneCountInString(text) / 4
}
