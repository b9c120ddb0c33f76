package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// MockPipelineService implements driving.PipelineService for testing.
type MockPipelineService struct {
	AskFunc    func(ctx context.Context, question string) (domain.AnswerResult, error)
	StatusFunc func(ctx context.Context) (domain.PipelineStatus, error)
	Cleared    bool
}

var _ driving.PipelineService = (*MockPipelineService)(nil)

func (m *MockPipelineService) Ingest(context.Context, string) (domain.IngestStats, error) {
	return domain.IngestStats{}, nil
}

func (m *MockPipelineService) IngestFile(_ context.Context, name string, data []byte) (domain.IngestStats, error) {
	return domain.IngestStats{FileName: name, CharCount: len(data), ChunkCount: 1}, nil
}

func (m *MockPipelineService) Ask(ctx context.Context, question string) (domain.AnswerResult, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, question)
	}
	return domain.NotProcessed(), nil
}

func (m *MockPipelineService) Status(ctx context.Context) (domain.PipelineStatus, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx)
	}
	return domain.PipelineStatus{}, nil
}

func (m *MockPipelineService) History() []domain.ConversationTurn { return nil }

func (m *MockPipelineService) ClearHistory() { m.Cleared = true }

func TestNewPorts(t *testing.T) {
	pipeline := &MockPipelineService{}

	ports := NewPorts(pipeline, nil)

	require.NotNil(t, ports)
	assert.Equal(t, pipeline, ports.Pipeline)
	assert.Nil(t, ports.Settings)
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name  string
		ports *Ports
		want  error
	}{
		{"valid", NewPorts(&MockPipelineService{}, nil), nil},
		{"missing pipeline", NewPorts(nil, nil), ErrMissingPipelineService},
		{"nil ports", nil, ErrInvalidPorts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
