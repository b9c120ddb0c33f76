package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/adapters/driven/llm/ratelimit"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name        string
		settings    *domain.EmbeddingSettings
		wantNil     bool
		wantErr     bool
		errContains string
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.EmbeddingSettings{},
			wantNil:  true,
		},
		{
			name: "ollama provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "nomic-embed-text",
			},
		},
		{
			name: "openai provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "text-embedding-3-small",
			},
		},
		{
			name: "openai without key is not configured",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
			},
			wantNil: true,
		},
		{
			name: "anthropic provider returns error",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
			},
			wantNil:     true,
			wantErr:     true,
			errContains: "anthropic does not support embeddings",
		},
		{
			name: "unknown provider returns nil",
			settings: &domain.EmbeddingSettings{
				Provider: "unknown",
				APIKey:   "test-key",
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(context.Background(), tt.settings)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				require.NoError(t, err)
			}
			if tt.wantNil {
				assert.Nil(t, svc)
			} else {
				require.NotNil(t, svc)
				assert.NoError(t, svc.Close())
			}
		})
	}
}

func TestCreateEmbeddingService_OllamaDimensions(t *testing.T) {
	svc, err := CreateEmbeddingService(context.Background(), &domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		Model:    "mxbai-embed-large",
	})

	require.NoError(t, err)
	assert.Equal(t, 1024, svc.Dimensions())
	assert.Equal(t, "mxbai-embed-large", svc.ModelName())
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.LLMSettings
		wantNil  bool
		provider domain.AIProvider
	}{
		{name: "nil settings returns nil", settings: nil, wantNil: true},
		{name: "unconfigured settings returns nil", settings: &domain.LLMSettings{}, wantNil: true},
		{
			name:     "ollama",
			settings: &domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "llama3.2"},
			provider: domain.AIProviderOllama,
		},
		{
			name:     "openai",
			settings: &domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "k", Model: "gpt-4o-mini"},
			provider: domain.AIProviderOpenAI,
		},
		{
			name:     "anthropic",
			settings: &domain.LLMSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"},
			provider: domain.AIProviderAnthropic,
		},
		{
			name:     "anthropic without key is not configured",
			settings: &domain.LLMSettings{Provider: domain.AIProviderAnthropic},
			wantNil:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(context.Background(), tt.settings)

			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			assert.Equal(t, tt.provider, svc.Provider())
			assert.NoError(t, svc.Close())
		})
	}
}

func TestCreateLLMService_Throttled(t *testing.T) {
	svc, err := CreateLLMService(context.Background(), &domain.LLMSettings{
		Provider:          domain.AIProviderOllama,
		Model:             "llama3.2",
		RequestsPerMinute: 10,
	})

	require.NoError(t, err)
	assert.IsType(t, &ratelimit.LLMService{}, svc)
	assert.Equal(t, "llama3.2", svc.ModelName())
}

func TestCreateAndValidateLLMService_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	svc, err := CreateAndValidateLLMService(context.Background(), &domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  url,
	})

	assert.Nil(t, svc)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	assert.Contains(t, err.Error(), "docqa settings show")
}

func TestCreateAndValidateEmbeddingService_Reachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"models":[{"name":"all-minilm:latest"}]}`))
	}))
	defer server.Close()

	svc, err := CreateAndValidateEmbeddingService(context.Background(), &domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  server.URL,
	})

	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.NoError(t, svc.Close())
}

func TestCreateAndValidateEmbeddingService_NotConfigured(t *testing.T) {
	svc, err := CreateAndValidateEmbeddingService(context.Background(), nil)

	assert.NoError(t, err)
	assert.Nil(t, svc)
}

func TestOpenIndex_Memory(t *testing.T) {
	idx, err := OpenIndex(context.Background(), domain.IndexSettings{Backend: domain.IndexBackendMemory})

	require.NoError(t, err)
	require.NotNil(t, idx.Vectors)
	require.NotNil(t, idx.Documents)
	assert.NoError(t, idx.Close())
}

func TestOpenIndex_SQLite(t *testing.T) {
	idx, err := OpenIndex(context.Background(), domain.IndexSettings{
		Backend: domain.IndexBackendSQLite,
		Path:    t.TempDir(),
	})

	require.NoError(t, err)
	defer idx.Close()

	count, err := idx.Vectors.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestOpenIndex_PostgresWithoutDSN(t *testing.T) {
	_, err := OpenIndex(context.Background(), domain.IndexSettings{Backend: domain.IndexBackendPostgres})

	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
}

func TestOpenIndex_Unknown(t *testing.T) {
	_, err := OpenIndex(context.Background(), domain.IndexSettings{Backend: "redis"})

	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestIndex_CloseNil(t *testing.T) {
	var idx *Index
	assert.NoError(t, idx.Close())
}
