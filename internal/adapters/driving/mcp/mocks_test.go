package mcp

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// mockPipelineService is a mock implementation of driving.PipelineService.
type mockPipelineService struct {
	stats   domain.IngestStats
	answer  domain.AnswerResult
	status  domain.PipelineStatus
	history []domain.ConversationTurn
	err     error

	ingestedText string
	ingestedName string
	ingestedData []byte
	question     string
	notices      []string
}

var _ driving.PipelineService = (*mockPipelineService)(nil)

func (m *mockPipelineService) Ingest(_ context.Context, text string) (domain.IngestStats, error) {
	m.ingestedText = text
	return m.stats, m.err
}

func (m *mockPipelineService) IngestFile(_ context.Context, name string, data []byte) (domain.IngestStats, error) {
	m.ingestedName = name
	m.ingestedData = data
	return m.stats, m.err
}

func (m *mockPipelineService) Ask(ctx context.Context, question string) (domain.AnswerResult, error) {
	m.question = question
	if notify := driving.NoticeSink(ctx); notify != nil {
		notify("Rate limited. Retrying in 1s")
		m.notices = append(m.notices, "Rate limited. Retrying in 1s")
	}
	return m.answer, m.err
}

func (m *mockPipelineService) Status(_ context.Context) (domain.PipelineStatus, error) {
	return m.status, m.err
}

func (m *mockPipelineService) History() []domain.ConversationTurn {
	return m.history
}

func (m *mockPipelineService) ClearHistory() {
	m.history = nil
}
