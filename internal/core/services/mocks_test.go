package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	mu         sync.Mutex
	embedding  []float32
	embedErr   error
	embedCalls int
	batchCalls int
	short      bool // return one embedding fewer than requested
}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	n := len(texts)
	if m.short && n > 0 {
		n--
	}
	result := make([][]float32, n)
	for i := range result {
		result[i] = m.vector()
	}
	return result, nil
}

func (m *mockEmbeddingService) vector() []float32 {
	if m.embedding != nil {
		return m.embedding
	}
	return []float32{1, 0, 0}
}

func (m *mockEmbeddingService) Dimensions() int   { return 3 }
func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error                 { return nil }

// mockVectorIndex implements driven.VectorIndex for testing.
// Query returns entries in insertion order with similarity 1.
type mockVectorIndex struct {
	mu        sync.Mutex
	entries   []domain.IndexEntry
	countErr  error
	upsertErr error
	queryErr  error
	cleared   int
}

func (m *mockVectorIndex) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	m.cleared++
	return nil
}

func (m *mockVectorIndex) UpsertAll(_ context.Context, entries []domain.IndexEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *mockVectorIndex) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.entries), nil
}

func (m *mockVectorIndex) Query(_ context.Context, _ []float32, topK int) ([]driven.VectorHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	hits := make([]driven.VectorHit, 0, topK)
	for _, e := range m.entries {
		if len(hits) == topK {
			break
		}
		hits = append(hits, driven.VectorHit{ChunkID: e.ID, Content: e.Content, Similarity: 1})
	}
	return hits, nil
}

func (m *mockVectorIndex) Close() error { return nil }

// mockLLMService implements driven.LLMService for testing.
// Each call consumes the next entry in errs; once exhausted it returns response.
type mockLLMService struct {
	mu       sync.Mutex
	provider domain.AIProvider
	response string
	errs     []error
	calls    int
	prompts  []string
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.prompts = append(m.prompts, prompt)
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return "", err
	}
	return m.response, nil
}

func (m *mockLLMService) Provider() domain.AIProvider {
	if m.provider == "" {
		return domain.AIProviderGemini
	}
	return m.provider
}

func (m *mockLLMService) ModelName() string            { return "gemini-2.5-flash" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error                 { return nil }

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	template string
	err      error
}

func (m *mockPromptStore) Load(_ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.template, nil
}

func (m *mockPromptStore) Reload() {}

// mockDocumentStore implements driven.DocumentStore for testing.
type mockDocumentStore struct {
	doc     *domain.Document
	saveErr error
	deletes int
}

func (m *mockDocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := *doc
	m.doc = &cp
	return nil
}

func (m *mockDocumentStore) GetDocument(_ context.Context) (*domain.Document, error) {
	if m.doc == nil {
		return nil, domain.ErrNotFound
	}
	cp := *m.doc
	return &cp, nil
}

func (m *mockDocumentStore) DeleteDocument(_ context.Context) error {
	m.deletes++
	m.doc = nil
	return nil
}

// mockConversationLog implements driven.ConversationLog for testing.
type mockConversationLog struct {
	turns []domain.ConversationTurn
}

func (m *mockConversationLog) Append(turn domain.ConversationTurn) { m.turns = append(m.turns, turn) }
func (m *mockConversationLog) Turns() []domain.ConversationTurn    { return m.turns }
func (m *mockConversationLog) Clear()                              { m.turns = nil }

// mockExtractor implements driven.TextExtractor for testing.
type mockExtractor struct {
	text string
	err  error
}

func (m *mockExtractor) Name() string                  { return "mock" }
func (m *mockExtractor) SupportedExtensions() []string { return []string{".mock"} }

func (m *mockExtractor) Extract(_ context.Context, _ []byte) (string, error) {
	return m.text, m.err
}

// mockExtractorRegistry implements driven.ExtractorRegistry for testing.
type mockExtractorRegistry struct {
	extractor driven.TextExtractor
}

func (m *mockExtractorRegistry) Register(e driven.TextExtractor) { m.extractor = e }

func (m *mockExtractorRegistry) ForFile(_ string) (driven.TextExtractor, error) {
	if m.extractor == nil {
		return nil, domain.ErrUnsupportedType
	}
	return m.extractor, nil
}

func (m *mockExtractorRegistry) Extensions() []string { return []string{".mock"} }

// mockTokenCounter implements driven.TokenCounter for testing.
type mockTokenCounter struct {
	n int
}

func (m *mockTokenCounter) Count(_ string) int { return m.n }

// recordingSleeper records requested waits without sleeping.
type recordingSleeper struct {
	waits []time.Duration
	err   error
}

func (r *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return r.err
}

var errBoom = errors.New("boom")
