package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCmd_Use(t *testing.T) {
	assert.Equal(t, "chat [file]", chatCmd.Use)
}

func TestChatCmd_RejectsExtraArgs(t *testing.T) {
	setupTestServices(t, &mockPipeline{}, nil)

	err := execute("chat", "a.txt", "b.txt")

	assert.Error(t, err)
}

func TestChatCmd_PipelineUnavailable(t *testing.T) {
	setupTestServices(t, nil, nil)

	err := execute("chat")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting pipeline")
}

func TestChatCmd_MissingFile(t *testing.T) {
	setupTestServices(t, &mockPipeline{}, nil)

	err := execute("chat", "/nonexistent/doc.md")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading")
}
