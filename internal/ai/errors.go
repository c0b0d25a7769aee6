package ai

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// AuthError indicates authentication/authorization failures (401/403).
type AuthError struct{ *APIError }

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.APIError.Error())
}

func (e *AuthError) Unwrap() error { return e.APIError }

// RateLimitError indicates 429 responses and may include a Retry-After.
type RateLimitError struct {
	*APIError
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %ds: %s", int(e.RetryAfter.Seconds()), e.APIError.Error())
	}
	return fmt.Sprintf("rate limited: %s", e.APIError.Error())
}

func (e *RateLimitError) Unwrap() error { return e.APIError }

// ModelNotFoundError indicates the labeling model is not available on the runtime.
type ModelNotFoundError struct{ *APIError }

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("model not found: %s", e.APIError.Error())
}

func (e *ModelNotFoundError) Unwrap() error { return e.APIError }

// BadRequestError indicates a rejected label request (400/422).
type BadRequestError struct{ *APIError }

func (e *BadRequestError) Error() string { return fmt.Sprintf("bad request: %s", e.APIError.Error()) }

func (e *BadRequestError) Unwrap() error { return e.APIError }

// QuotaExceededError indicates billing/quota problems.
type QuotaExceededError struct{ *APIError }

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded: %s", e.APIError.Error())
}

func (e *QuotaExceededError) Unwrap() error { return e.APIError }

// ServerError indicates 5xx errors from the provider.
type ServerError struct{ *APIError }

func (e *ServerError) Error() string { return fmt.Sprintf("provider error: %s", e.APIError.Error()) }

func (e *ServerError) Unwrap() error { return e.APIError }

// UnreachableError indicates the runtime could not be contacted (e.g., local Ollama down).
type UnreachableError struct {
	Host string
	Err  error
}

func (e *UnreachableError) Error() string {
	if e == nil {
		return "unreachable"
	}
	if e.Host != "" {
		return fmt.Sprintf("runtime unreachable at %s: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("runtime unreachable: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// Reason maps a runtime error to a short, stable code for logs.
func Reason(err error) string {
	var (
		authErr  *AuthError
		rateErr  *RateLimitError
		modelErr *ModelNotFoundError
		badErr   *BadRequestError
		quotaErr *QuotaExceededError
		srvErr   *ServerError
		netErr   *UnreachableError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	case errors.Is(err, ErrEmptyLabel):
		return "empty"
	case errors.As(err, &authErr):
		return "auth"
	case errors.As(err, &rateErr):
		return "rate_limited"
	case errors.As(err, &modelErr):
		return "model_not_found"
	case errors.As(err, &badErr):
		return "bad_request"
	case errors.As(err, &quotaErr):
		return "quota"
	case errors.As(err, &srvErr):
		return "provider"
	case errors.As(err, &netErr):
		return "unreachable"
	default:
		return "other"
	}
}
