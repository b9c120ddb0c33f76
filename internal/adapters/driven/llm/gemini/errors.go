package gemini

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// ToProviderError maps Gemini client errors to *domain.ProviderError.
// REST failures carry an HTTP code; gRPC failures are translated from
// their status code. Errors with neither are wrapped with unavailable.
func ToProviderError(err error, unavailable error) error {
	if err == nil {
		return nil
	}

	perr := &domain.ProviderError{
		Provider: string(domain.AIProviderGemini),
		Message:  err.Error(),
		Err:      err,
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		perr.StatusCode = apiErr.HTTPCode()
		if perr.StatusCode <= 0 && apiErr.GRPCStatus() != nil {
			perr.StatusCode = httpStatusFromCode(apiErr.GRPCStatus().Code())
		}
		if ri := apiErr.Details().RetryInfo; ri != nil && ri.GetRetryDelay() != nil {
			perr.RetryAfter = ri.GetRetryDelay().AsDuration()
		}
		if perr.StatusCode > 0 {
			return perr
		}
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		perr.StatusCode = gErr.Code
		if gErr.Message != "" {
			perr.Message = gErr.Message
		}
		return perr
	}

	return fmt.Errorf("%w: gemini: %v", unavailable, err)
}

func httpStatusFromCode(c codes.Code) int {
	switch c {
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.NotFound:
		return http.StatusNotFound
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return 0
	}
}
