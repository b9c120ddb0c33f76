package main

import (
	"context"
	"fmt"
	"io"

	"github.com/custodia-labs/docqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docqa/internal/adapters/driven/tokenizer"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/core/services"
	"github.com/custodia-labs/docqa/internal/extractors"
	"github.com/custodia-labs/docqa/internal/logger"
	"github.com/custodia-labs/docqa/internal/postprocessors/chunker"
)

// historyLimit bounds the in-memory conversation log.
const historyLimit = 100

// application wires the pipeline from the saved settings on first use.
type application struct {
	settings driving.SettingsService
	prompts  driven.PromptStore
	getenv   func(string) string

	// nil uses the ai package factories.
	newEmbedder func(context.Context, *domain.EmbeddingSettings) (driven.EmbeddingService, error)
	newLLM      func(context.Context, *domain.LLMSettings) (driven.LLMService, error)

	index   *ai.Index
	closers []io.Closer
}

// Pipeline builds the RAG pipeline. It is passed to the CLI as a factory
// so commands that never ask questions do not need provider access.
// Services created before a failure are closed before it returns.
func (a *application) Pipeline(ctx context.Context) (_ driving.PipelineService, err error) {
	var opened []io.Closer
	defer func() {
		if err != nil {
			closeAll(opened)
			return
		}
		a.closers = append(a.closers, opened...)
	}()

	settings, err := a.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	applyEnv(settings, a.getenv)

	logger.Section("Startup")
	logger.Debug("Embedding: %s/%s, LLM: %s/%s, index: %s",
		settings.Embedding.Provider, settings.Embedding.Model,
		settings.LLM.Provider, settings.LLM.Model, settings.Index.Backend)

	newEmbedder := a.newEmbedder
	if newEmbedder == nil {
		newEmbedder = ai.CreateEmbeddingService
	}
	newLLM := a.newLLM
	if newLLM == nil {
		newLLM = ai.CreateLLMService
	}

	embedder, err := newEmbedder(ctx, &settings.Embedding)
	if err != nil {
		return nil, err
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: run 'docqa settings embedding' to configure a provider",
			domain.ErrEmbeddingUnavailable)
	}

	opened = append(opened, embedder)

	llm, err := newLLM(ctx, &settings.LLM)
	if err != nil {
		return nil, err
	}
	if llm == nil {
		return nil, fmt.Errorf("%w: run 'docqa settings set-key %s' or 'docqa settings llm'",
			domain.ErrLLMUnavailable, settings.LLM.Provider)
	}
	opened = append(opened, llm)

	chunks, err := chunker.New(
		chunker.WithChunkSize(settings.Chunking.Size),
		chunker.WithOverlap(settings.Chunking.Overlap),
	)
	if err != nil {
		return nil, err
	}

	index, err := ai.OpenIndex(ctx, settings.Index)
	if err != nil {
		return nil, err
	}
	a.index = index

	generator := services.NewAnswerGenerator(llm,
		services.WithMaxRetries(settings.Generation.MaxRetries),
		services.WithPromptStore(a.prompts),
	)

	return services.NewPipeline(chunks, embedder, index.Vectors, generator,
		services.WithTopK(settings.Retrieval.TopK),
		services.WithDocumentStore(index.Documents),
		services.WithExtractors(extractors.NewDefaultRegistry()),
		services.WithConversationLog(memory.NewConversationLog(historyLimit)),
		services.WithTokenCounter(tokenizer.New("")),
		services.WithLLMModel(settings.LLM.Model),
	), nil
}

// Close releases the providers and the index backend.
func (a *application) Close() {
	closeAll(a.closers)
	a.closers = nil
	if err := a.index.Close(); err != nil {
		logger.Warn("closing index: %v", err)
	}
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Warn("closing provider: %v", err)
		}
	}
}
