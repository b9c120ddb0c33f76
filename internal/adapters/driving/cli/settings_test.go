package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func withStdin(t *testing.T, content string) {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	_, err = f.Seek(0, 0)
	require.NoError(t, err)

	original := stdin
	stdin = f
	t.Cleanup(func() {
		stdin = original
		f.Close()
	})
}

func TestSettingsCmd_NotConfigured(t *testing.T) {
	setupTestServices(t, nil, nil)

	err := execute("settings", "show")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestSettingsShow(t *testing.T) {
	s := newMockSettings()
	s.settings.LLM.APIKey = "AIzaSy-very-secret-key"
	s.settings.LLM.RequestsPerMinute = 15
	out, _ := setupTestServices(t, nil, s)

	err := execute("settings", "show")

	require.NoError(t, err)
	got := out.String()
	for _, section := range []string{"[Embedding]", "[LLM]", "[Chunking]", "[Retrieval]", "[Generation]", "[Index]"} {
		assert.Contains(t, got, section)
	}
	assert.Contains(t, got, "Size: 1000")
	assert.Contains(t, got, "Overlap: 200")
	assert.Contains(t, got, "Top K: 3")
	assert.Contains(t, got, "Requests per minute: 15")
	assert.Contains(t, got, "AIza...-key")
	assert.NotContains(t, got, "very-secret")
	assert.Contains(t, got, "Configuration is valid.")
}

func TestSettingsShow_ValidationWarning(t *testing.T) {
	s := newMockSettings()
	s.validErr = errors.New("llm api key missing")
	out, _ := setupTestServices(t, nil, s)

	err := execute("settings")

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Warning: llm api key missing")
	assert.Contains(t, out.String(), "docqa settings set")
}

func TestSettingsSet(t *testing.T) {
	s := newMockSettings()
	out, _ := setupTestServices(t, nil, s)

	err := execute("settings", "set", "retrieval.top_k", "5")

	require.NoError(t, err)
	assert.Equal(t, "5", s.setCalls["retrieval.top_k"])
	assert.Contains(t, out.String(), "retrieval.top_k = 5")
}

func TestSettingsSet_MasksKeys(t *testing.T) {
	s := newMockSettings()
	out, _ := setupTestServices(t, nil, s)

	err := execute("settings", "set", "llm.api_key", "sk-abcdefghijkl")

	require.NoError(t, err)
	assert.Equal(t, "sk-abcdefghijkl", s.setCalls["llm.api_key"])
	assert.NotContains(t, out.String(), "sk-abcdefghijkl")
}

func TestSettingsSet_Error(t *testing.T) {
	s := newMockSettings()
	s.setErr = domain.ErrInvalidParameter
	setupTestServices(t, nil, s)

	err := execute("settings", "set", "chunking.overlap", "5000")

	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestSettingsKeys(t *testing.T) {
	out, _ := setupTestServices(t, nil, newMockSettings())

	err := execute("settings", "keys")

	require.NoError(t, err)
	assert.Equal(t, "chunking.overlap\nchunking.size\nretrieval.top_k\n", out.String())
}

func TestSettingsSetKey_LLMProvider(t *testing.T) {
	s := newMockSettings()
	setupTestServices(t, nil, s)
	withStdin(t, "gemini-secret-key\n")

	err := execute("settings", "set-key", "gemini")

	require.NoError(t, err)
	assert.Equal(t, []string{"gemini-secret-key"}, s.llmKeys)
	assert.Empty(t, s.embedKeys)
	assert.Equal(t, domain.DefaultLLMModels()[domain.AIProviderGemini], s.settings.LLM.Model)
}

func TestSettingsSetKey_BothRoles(t *testing.T) {
	s := newMockSettings()
	s.settings.Embedding.Provider = domain.AIProviderOpenAI
	s.settings.LLM.Provider = domain.AIProviderOpenAI
	setupTestServices(t, nil, s)
	withStdin(t, "sk-shared\n")

	err := execute("settings", "set-key", "OpenAI")

	require.NoError(t, err)
	assert.Equal(t, []string{"sk-shared"}, s.llmKeys)
	assert.Equal(t, []string{"sk-shared"}, s.embedKeys)
}

func TestSettingsSetKey_Errors(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		wantErr  string
	}{
		{name: "unknown provider", provider: "cohere", wantErr: "unknown provider"},
		{name: "local provider", provider: "ollama", wantErr: "does not use an API key"},
		{name: "unused provider", provider: "anthropic", wantErr: "not the configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestServices(t, nil, newMockSettings())

			err := execute("settings", "set-key", tt.provider)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSettingsSetKey_EmptyKey(t *testing.T) {
	setupTestServices(t, nil, newMockSettings())
	withStdin(t, "\n")

	err := execute("settings", "set-key", "gemini")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestSettingsLLM_Interactive(t *testing.T) {
	s := newMockSettings()
	setupTestServices(t, nil, s)
	// Choice 1 is Ollama, which needs no key; accept the default model.
	withStdin(t, "1\n\n")

	err := execute("settings", "llm")

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, s.settings.LLM.Provider)
	assert.Equal(t, domain.DefaultLLMModels()[domain.AIProviderOllama], s.settings.LLM.Model)
}
