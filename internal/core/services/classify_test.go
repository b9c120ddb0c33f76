package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"nil", nil, ErrorClassOther},
		{"rate limited sentinel", fmt.Errorf("call: %w", domain.ErrRateLimited), ErrorClassRateLimited},
		{"model not found sentinel", domain.ErrModelNotFound, ErrorClassModelNotFound},
		{"provider 429", &domain.ProviderError{Provider: "gemini", StatusCode: 429}, ErrorClassRateLimited},
		{"provider 404", &domain.ProviderError{Provider: "openai", StatusCode: 404}, ErrorClassModelNotFound},
		{"provider 500", &domain.ProviderError{Provider: "openai", StatusCode: 500, Message: "oops"}, ErrorClassOther},
		{"wrapped provider 429", fmt.Errorf("generate: %w", &domain.ProviderError{StatusCode: 429}), ErrorClassRateLimited},
		{"text 429", errors.New("googleapi: Error 429: Resource exhausted"), ErrorClassRateLimited},
		{"text 404", errors.New("models/foo is not found: 404"), ErrorClassModelNotFound},
		{"plain", errors.New("connection refused"), ErrorClassOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestErrorClass_String(t *testing.T) {
	assert.Equal(t, "rate_limited", ErrorClassRateLimited.String())
	assert.Equal(t, "model_not_found", ErrorClassModelNotFound.String())
	assert.Equal(t, "other", ErrorClassOther.String())
}

func TestRetryDelay(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want time.Duration
	}{
		{"nil", nil, DefaultRateLimitWait},
		{"no hint", errors.New("429 Too Many Requests"), 65 * time.Second},
		{"retry in seconds", errors.New("Please retry in 12.5s"), 17 * time.Second},
		{"case insensitive", errors.New("RETRY IN 30 seconds"), 35 * time.Second},
		{"hint too large", errors.New("retry in 10000000000s"), DefaultRateLimitWait},
		{"hint beyond int64", errors.New("retry in 99999999999999999999999s"), DefaultRateLimitWait},
		{"largest hint", errors.New("retry in 9223372031s"), 9223372031*time.Second + 5*time.Second},
		{"retry after header", &domain.ProviderError{StatusCode: 429, RetryAfter: 20 * time.Second}, 25 * time.Second},
		{
			"message wins over header",
			&domain.ProviderError{StatusCode: 429, Message: "retry in 3s", RetryAfter: 20 * time.Second},
			8 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RetryDelay(tt.err))
		})
	}
}

func TestSleepContext_Elapses(t *testing.T) {
	err := SleepContext(context.Background(), time.Millisecond)
	require.NoError(t, err)
}

func TestSleepContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := SleepContext(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}
