package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.PipelineService = (*Pipeline)(nil)

// Chunker splits a document into chunks.
type Chunker interface {
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
	ChunkSize() int
	Overlap() int
}

// Pipeline is the composition root of the question-answering flow.
//
// The vector index holds one document at a time. Ingest clears it before
// inserting the new chunks, so the two steps run under the write lock and
// retrieval runs under the read lock. Generation happens outside the lock
// because rate-limit backoff can take over a minute.
type Pipeline struct {
	mu sync.RWMutex

	chunker          Chunker
	embeddingService driven.EmbeddingService
	vectorIndex      driven.VectorIndex
	retrieval        *RetrievalService
	generator        *AnswerGenerator

	docStore   driven.DocumentStore
	extractors driven.ExtractorRegistry
	history    driven.ConversationLog

	topK         int
	llmModel     string
	tokenCounter driven.TokenCounter
	now          func() time.Time
}

// PipelineOption configures the pipeline.
type PipelineOption func(*Pipeline)

// WithTopK sets how many chunks are retrieved per question.
func WithTopK(k int) PipelineOption {
	return func(p *Pipeline) {
		p.topK = k
	}
}

// WithDocumentStore records the ingested document's metadata.
func WithDocumentStore(store driven.DocumentStore) PipelineOption {
	return func(p *Pipeline) {
		p.docStore = store
	}
}

// WithExtractors enables IngestFile.
func WithExtractors(registry driven.ExtractorRegistry) PipelineOption {
	return func(p *Pipeline) {
		p.extractors = registry
	}
}

// WithConversationLog records each answered question.
func WithConversationLog(log driven.ConversationLog) PipelineOption {
	return func(p *Pipeline) {
		p.history = log
	}
}

// WithTokenCounter sets the estimator used for retrieved context size.
func WithTokenCounter(tc driven.TokenCounter) PipelineOption {
	return func(p *Pipeline) {
		p.tokenCounter = tc
	}
}

// WithLLMModel sets the model name reported by Status.
func WithLLMModel(model string) PipelineOption {
	return func(p *Pipeline) {
		p.llmModel = model
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		p.now = now
	}
}

// NewPipeline creates a new pipeline.
func NewPipeline(
	chunker Chunker,
	embeddingService driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	generator *AnswerGenerator,
	opts ...PipelineOption,
) *Pipeline {
	p := &Pipeline{
		chunker:          chunker,
		embeddingService: embeddingService,
		vectorIndex:      vectorIndex,
		generator:        generator,
		topK:             domain.DefaultTopK,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.retrieval = NewRetrievalService(embeddingService, vectorIndex, p.tokenCounter)
	return p
}

// Ingest replaces the indexed document with text.
func (p *Pipeline) Ingest(ctx context.Context, text string) (domain.IngestStats, error) {
	return p.ingest(ctx, "", text)
}

// IngestFile extracts text from a file and ingests it.
func (p *Pipeline) IngestFile(ctx context.Context, name string, data []byte) (domain.IngestStats, error) {
	if p.extractors == nil {
		return domain.IngestStats{}, fmt.Errorf("%w: no text extractors configured", domain.ErrUnsupportedType)
	}

	extractor, err := p.extractors.ForFile(name)
	if err != nil {
		return domain.IngestStats{}, err
	}
	logger.Debug("Extracting %s with %s extractor (%d bytes)", name, extractor.Name(), len(data))

	text, err := extractor.Extract(ctx, data)
	if err != nil {
		return domain.IngestStats{}, fmt.Errorf("extract %s: %w", name, err)
	}
	if strings.TrimSpace(text) == "" {
		return domain.IngestStats{}, domain.ErrNoExtractableText
	}

	return p.ingest(ctx, filepath.Base(name), text)
}

func (p *Pipeline) ingest(ctx context.Context, name, text string) (domain.IngestStats, error) {
	logger.Section("Ingest")

	if strings.TrimSpace(text) == "" {
		return domain.IngestStats{}, domain.ErrEmptyDocument
	}

	doc := &domain.Document{
		ID:         uuid.New().String(),
		Name:       name,
		Content:    text,
		CharCount:  utf8.RuneCountInString(text),
		IngestedAt: p.now().UTC(),
	}

	chunks, err := p.chunker.Process(ctx, doc)
	if err != nil {
		return domain.IngestStats{}, fmt.Errorf("chunk document: %w", err)
	}
	doc.ChunkCount = len(chunks)
	logger.Debug("Document %s: %d chars, %d chunks", doc.ID, doc.CharCount, doc.ChunkCount)

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// From here on a failure leaves the index empty, and Ask reports
	// NotProcessed until the next successful ingest.
	if err := p.vectorIndex.Clear(ctx); err != nil {
		return domain.IngestStats{}, fmt.Errorf("clear index: %w", err)
	}
	if p.docStore != nil {
		if err := p.docStore.DeleteDocument(ctx); err != nil {
			return domain.IngestStats{}, fmt.Errorf("delete document record: %w", err)
		}
	}

	embedDone := logger.Timer(fmt.Sprintf("embed %d chunks", len(texts)))
	embeddings, err := p.embeddingService.EmbedBatch(ctx, texts)
	embedDone()
	if err != nil {
		return domain.IngestStats{}, fmt.Errorf("embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return domain.IngestStats{}, fmt.Errorf("embed chunks: got %d embeddings for %d chunks",
			len(embeddings), len(chunks))
	}

	entries := make([]domain.IndexEntry, len(chunks))
	for i := range chunks {
		entries[i] = domain.IndexEntry{
			ID:        chunks[i].ID,
			Content:   chunks[i].Content,
			Embedding: embeddings[i],
		}
	}
	if err := p.vectorIndex.UpsertAll(ctx, entries); err != nil {
		return domain.IngestStats{}, fmt.Errorf("store chunks: %w", err)
	}

	if p.docStore != nil {
		if err := p.docStore.SaveDocument(ctx, doc); err != nil {
			logger.Warn("Saving document record failed: %v", err)
		}
	}

	logger.Info("Ingested %d chunks", len(entries))

	return domain.IngestStats{
		DocumentID: doc.ID,
		FileName:   name,
		CharCount:  doc.CharCount,
		ChunkCount: doc.ChunkCount,
	}, nil
}

// Ask answers question against the indexed document.
func (p *Pipeline) Ask(ctx context.Context, question string) (domain.AnswerResult, error) {
	logger.Section("Ask")
	logger.Debug("Question: %q", question)
	defer logger.Timer("ask")()

	retrieved, indexed, err := p.retrieve(ctx, question)
	if err != nil {
		return domain.AnswerResult{}, err
	}
	if !indexed {
		return domain.NotProcessed(), nil
	}
	if retrieved.IsEmpty() {
		return domain.NoContext(), nil
	}

	answer := p.generator.Generate(ctx, retrieved.Text, strings.TrimSpace(question))

	if p.history != nil {
		p.history.Append(domain.ConversationTurn{
			Question: question,
			Answer:   answer,
			AskedAt:  p.now().UTC(),
		})
	}

	result := domain.Answer(answer, retrieved.Sources)
	result.ContextTokens = retrieved.Tokens
	return result, nil
}

// retrieve runs the read-locked part of Ask. indexed is false when
// nothing has been ingested.
func (p *Pipeline) retrieve(ctx context.Context, question string) (rc domain.RetrievedContext, indexed bool, err error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	count, err := p.vectorIndex.Count(ctx)
	if err != nil {
		return rc, false, fmt.Errorf("count index: %w", err)
	}
	if count == 0 {
		return rc, false, nil
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return rc, true, fmt.Errorf("%w: question is empty", domain.ErrInvalidParameter)
	}

	rc, err = p.retrieval.RetrieveContext(ctx, question, p.topK)
	if err != nil {
		return rc, true, fmt.Errorf("retrieve context: %w", err)
	}
	return rc, true, nil
}

// Status reports the indexed document and active parameters.
func (p *Pipeline) Status(ctx context.Context) (domain.PipelineStatus, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	count, err := p.vectorIndex.Count(ctx)
	if err != nil {
		return domain.PipelineStatus{}, fmt.Errorf("count index: %w", err)
	}

	status := domain.PipelineStatus{
		IndexedChunks:  count,
		EmbeddingModel: p.embeddingService.ModelName(),
		LLMModel:       p.llmModel,
		ChunkSize:      p.chunker.ChunkSize(),
		Overlap:        p.chunker.Overlap(),
		TopK:           p.topK,
	}

	if p.docStore != nil && count > 0 {
		doc, err := p.docStore.GetDocument(ctx)
		switch {
		case err == nil:
			status.Document = doc
		case !errors.Is(err, domain.ErrNotFound):
			return domain.PipelineStatus{}, fmt.Errorf("get document: %w", err)
		}
	}

	return status, nil
}

// History returns the session's conversation turns.
func (p *Pipeline) History() []domain.ConversationTurn {
	if p.history == nil {
		return nil
	}
	return p.history.Turns()
}

// ClearHistory discards the session's conversation turns.
func (p *Pipeline) ClearHistory() {
	if p.history != nil {
		p.history.Clear()
	}
}
