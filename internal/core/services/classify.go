package services

import (
	"context"
	"errors"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// ErrorClass is the retry category of a generation failure.
type ErrorClass int

const (
	// ErrorClassOther is any failure that is not retried.
	ErrorClassOther ErrorClass = iota

	// ErrorClassRateLimited is a quota or rate-limit failure. Retried.
	ErrorClassRateLimited

	// ErrorClassModelNotFound means the model is unavailable to the key. Not retried.
	ErrorClassModelNotFound
)

// String returns the string representation.
func (c ErrorClass) String() string {
	switch c {
	case ErrorClassRateLimited:
		return "rate_limited"
	case ErrorClassModelNotFound:
		return "model_not_found"
	default:
		return "other"
	}
}

// DefaultRateLimitWait is used when a rate-limit error carries no suggested delay.
const DefaultRateLimitWait = 65 * time.Second

// retryPadding is added to a provider-suggested delay.
const retryPadding = 5 * time.Second

// maxRetryInSeconds keeps N*time.Second+retryPadding inside time.Duration.
const maxRetryInSeconds = (math.MaxInt64 - int64(retryPadding)) / int64(time.Second)

var retryInPattern = regexp.MustCompile(`(?i)retry in (\d+)`)

// ClassifyError decides how the answer generator treats a provider failure.
// Structured signals are checked first: the domain sentinels and the status
// code of a *domain.ProviderError. Providers that only report text fall back
// to looking for "429" and "404" in the message.
func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ErrorClassOther
	}

	switch {
	case errors.Is(err, domain.ErrRateLimited):
		return ErrorClassRateLimited
	case errors.Is(err, domain.ErrModelNotFound):
		return ErrorClassModelNotFound
	}

	var perr *domain.ProviderError
	if errors.As(err, &perr) {
		switch perr.StatusCode {
		case http.StatusTooManyRequests:
			return ErrorClassRateLimited
		case http.StatusNotFound:
			return ErrorClassModelNotFound
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "429"):
		return ErrorClassRateLimited
	case strings.Contains(msg, "404"):
		return ErrorClassModelNotFound
	}

	return ErrorClassOther
}

// RetryDelay returns how long to wait before retrying a rate-limited call.
// A "retry in N" hint in the message wins (N+5 seconds), then a
// provider Retry-After value (plus 5 seconds), then DefaultRateLimitWait.
// A hint too large to represent as a time.Duration uses DefaultRateLimitWait.
func RetryDelay(err error) time.Duration {
	if err == nil {
		return DefaultRateLimitWait
	}

	if m := retryInPattern.FindStringSubmatch(err.Error()); m != nil {
		n, convErr := strconv.ParseInt(m[1], 10, 64)
		if convErr != nil || n > maxRetryInSeconds {
			return DefaultRateLimitWait
		}
		return time.Duration(n)*time.Second + retryPadding
	}

	var perr *domain.ProviderError
	if errors.As(err, &perr) && perr.RetryAfter > 0 {
		return perr.RetryAfter + retryPadding
	}

	return DefaultRateLimitWait
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
