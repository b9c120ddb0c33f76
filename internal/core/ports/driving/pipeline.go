package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// PipelineService is the question-answering pipeline exposed to front-ends.
type PipelineService interface {
	// Ingest replaces the indexed document with the given text.
	// Returns domain.ErrEmptyDocument if the text is blank.
	Ingest(ctx context.Context, text string) (domain.IngestStats, error)

	// IngestFile extracts text from a file and ingests it.
	// Returns domain.ErrNoExtractableText if the file yields no text.
	IngestFile(ctx context.Context, name string, data []byte) (domain.IngestStats, error)

	// Ask answers a question against the indexed document.
	Ask(ctx context.Context, question string) (domain.AnswerResult, error)

	// Status reports what the pipeline currently holds.
	Status(ctx context.Context) (domain.PipelineStatus, error)

	// History returns the session's conversation turns.
	History() []domain.ConversationTurn

	// ClearHistory discards the session's conversation turns.
	ClearHistory()
}
