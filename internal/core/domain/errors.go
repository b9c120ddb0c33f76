package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyDocument indicates ingestion input has no text after trimming.
	ErrEmptyDocument = errors.New("empty document")

	// ErrNoExtractableText indicates a file produced no text, typically
	// a scanned or image-only PDF.
	ErrNoExtractableText = errors.New("no extractable text")

	// ErrInvalidParameter indicates caller misuse of chunking, index or query parameters.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDimensionMismatch indicates embeddings of different lengths were mixed.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrUnsupportedType indicates no extractor handles the given file type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index could not be opened.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// Generation errors.

	// ErrRateLimited indicates the provider quota or rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrModelNotFound indicates the configured model is not available to the API key.
	ErrModelNotFound = errors.New("model not found")
)

// ProviderError is a structured failure reported by an embedding or LLM provider.
// Adapters translate SDK and HTTP errors into it so callers can branch on StatusCode
// instead of matching on message text.
type ProviderError struct {
	// Provider names the backend that failed (e.g. "gemini").
	Provider string

	// StatusCode is the HTTP status reported by the provider, or 0 if unknown.
	StatusCode int

	// Message is the provider's error message.
	Message string

	// RetryAfter is the server-suggested wait, when the provider sent one.
	RetryAfter time.Duration

	// Err is the underlying error.
	Err error
}

// Error implements error.
func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}
