package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestNewLLMService_RequiresKey(t *testing.T) {
	_, err := NewLLMService(context.Background(), Config{})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestResponseText(t *testing.T) {
	rsp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("Hello, "), genai.Text("world.")}},
		}},
	}

	text, err := responseText(rsp)

	require.NoError(t, err)
	assert.Equal(t, "Hello, world.", text)
}

func TestResponseText_Empty(t *testing.T) {
	for _, rsp := range []*genai.GenerateContentResponse{
		nil,
		{},
		{Candidates: []*genai.Candidate{{}}},
		{Candidates: []*genai.Candidate{{Content: &genai.Content{}}}},
	} {
		_, err := responseText(rsp)
		assert.Error(t, err)
	}
}

func TestToProviderError_GoogleAPI(t *testing.T) {
	src := &googleapi.Error{Code: http.StatusTooManyRequests, Message: "Quota exceeded. Please retry in 21s."}

	err := ToProviderError(src, domain.ErrLLMUnavailable)

	var perr *domain.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "gemini", perr.Provider)
	assert.Equal(t, http.StatusTooManyRequests, perr.StatusCode)
	assert.Contains(t, perr.Message, "retry in 21s")
}

func TestToProviderError_GRPCStatus(t *testing.T) {
	st, err := status.New(codes.ResourceExhausted, "quota").WithDetails(&errdetails.RetryInfo{
		RetryDelay: durationpb.New(30 * time.Second),
	})
	require.NoError(t, err)

	apiErr, ok := apierror.FromError(st.Err())
	require.True(t, ok)

	mapped := ToProviderError(apiErr, domain.ErrLLMUnavailable)

	var perr *domain.ProviderError
	require.True(t, errors.As(mapped, &perr))
	assert.Equal(t, http.StatusTooManyRequests, perr.StatusCode)
	assert.Equal(t, 30*time.Second, perr.RetryAfter)
}

func TestToProviderError_GRPCNotFound(t *testing.T) {
	apiErr, ok := apierror.FromError(status.Error(codes.NotFound, "models/x is not found"))
	require.True(t, ok)

	var perr *domain.ProviderError
	require.True(t, errors.As(ToProviderError(apiErr, domain.ErrLLMUnavailable), &perr))
	assert.Equal(t, http.StatusNotFound, perr.StatusCode)
}

func TestToProviderError_Other(t *testing.T) {
	assert.NoError(t, ToProviderError(nil, domain.ErrLLMUnavailable))

	err := ToProviderError(errors.New("dial failed"), domain.ErrEmbeddingUnavailable)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}
