package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// LLMErrorKind classifies LLM errors for logging and reporting.
type LLMErrorKind int

const (
	// ErrKindUpstream means the provider failed or was unreachable.
	// Examples: network reset, 5xx, rate limit.
	ErrKindUpstream LLMErrorKind = iota

	// ErrKindAuth means authentication or authorization failed.
	// Examples: invalid API key, 401/403.
	ErrKindAuth

	// ErrKindBadRequest means the request itself is malformed.
	// Examples: model not found, 400/404.
	ErrKindBadRequest

	// ErrKindCancelled means the request was cancelled or timed out.
	ErrKindCancelled
)

// String returns a human-readable label for the error kind.
func (k LLMErrorKind) String() string {
	switch k {
	case ErrKindUpstream:
		return "upstream"
	case ErrKindAuth:
		return "auth"
	case ErrKindBadRequest:
		return "bad_request"
	case ErrKindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// LLMError is a structured error from a completion call.
type LLMError struct {
	Kind       LLMErrorKind // Classification of the error
	StatusCode int          // HTTP status code if applicable (0 if unknown)
	Provider   string       // Provider name that generated the error
	Model      string       // Model that was being used
	Cause      error        // Original underlying error
}

// Error keeps the provider's own text visible to API clients.
func (e *LLMError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s completion failed (%s)", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s completion failed: %v", e.Provider, e.Cause)
}

// Unwrap enables errors.Is/errors.As on the cause chain.
func (e *LLMError) Unwrap() error {
	return e.Cause
}

// KindFromStatus maps an HTTP status returned by the provider to a kind.
func KindFromStatus(status int) LLMErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrKindAuth
	case status == http.StatusBadRequest || status == http.StatusNotFound || status == http.StatusUnprocessableEntity:
		return ErrKindBadRequest
	default:
		return ErrKindUpstream
	}
}

// ClassifyError wraps err in an *LLMError. status is the provider's HTTP
// status when known, 0 otherwise.
func ClassifyError(err error, status int, provider, model string) *LLMError {
	if err == nil {
		return nil
	}

	var llmErr *LLMError
	if errors.As(err, &llmErr) {
		return llmErr
	}

	out := &LLMError{
		Kind:       ErrKindUpstream,
		StatusCode: status,
		Provider:   provider,
		Model:      model,
		Cause:      err,
	}
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		out.Kind = ErrKindCancelled
	case status != 0:
		out.Kind = KindFromStatus(status)
	case strings.Contains(strings.ToLower(err.Error()), "unauthorized"):
		out.Kind = ErrKindAuth
	}
	return out
}
