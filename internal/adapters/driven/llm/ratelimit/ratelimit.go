// Package ratelimit throttles an LLM service to a configured request rate.
package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// LLMService wraps another LLM service with client-side throttling.
// Calls pass a token bucket first. After the provider answers 429 with a
// retry-after hint, calls also hold until that moment has passed.
type LLMService struct {
	inner  driven.LLMService
	bucket *rate.Limiter

	mu         sync.Mutex
	blockUntil time.Time
	now        func() time.Time
}

// Wrap returns inner throttled to requestsPerMinute. A non-positive rate
// returns inner unchanged.
func Wrap(inner driven.LLMService, requestsPerMinute int) driven.LLMService {
	if requestsPerMinute <= 0 {
		return inner
	}
	return New(inner, requestsPerMinute)
}

// New creates a throttled LLM service.
func New(inner driven.LLMService, requestsPerMinute int) *LLMService {
	every := time.Minute / time.Duration(max(requestsPerMinute, 1))
	return &LLMService{
		inner:  inner,
		bucket: rate.NewLimiter(rate.Every(every), 1),
		now:    time.Now,
	}
}

// Generate waits for a slot then delegates to the wrapped service.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := s.Wait(ctx); err != nil {
		return "", err
	}

	out, err := s.inner.Generate(ctx, prompt, opts)
	if err != nil {
		s.observe(err)
	}
	return out, err
}

// Wait blocks until a request may be sent.
func (s *LLMService) Wait(ctx context.Context) error {
	if err := s.bucket.Wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	wait := s.blockUntil.Sub(s.now())
	s.mu.Unlock()

	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// observe records a provider-supplied retry-after window.
func (s *LLMService) observe(err error) {
	var perr *domain.ProviderError
	if !errors.As(err, &perr) || perr.StatusCode != http.StatusTooManyRequests || perr.RetryAfter <= 0 {
		return
	}

	until := s.now().Add(perr.RetryAfter)
	s.mu.Lock()
	if until.After(s.blockUntil) {
		s.blockUntil = until
	}
	s.mu.Unlock()
}

// BlockedUntil returns the end of the current retry-after window.
func (s *LLMService) BlockedUntil() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blockUntil
}

// Provider returns the wrapped provider.
func (s *LLMService) Provider() domain.AIProvider { return s.inner.Provider() }

// ModelName returns the wrapped model name.
func (s *LLMService) ModelName() string { return s.inner.ModelName() }

// Ping delegates without throttling.
func (s *LLMService) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

// Close closes the wrapped service.
func (s *LLMService) Close() error { return s.inner.Close() }
