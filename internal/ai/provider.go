package ai

import (
	"context"
	"errors"
	"fmt"
)

// AIProvider is the interface that all LLM providers must implement.
type AIProvider interface {
	// Summarize generates a one-sentence Vietnamese summary of the article.
	// The returned text is already cleaned; an empty result is reported as
	// ErrEmptySummary.
	Summarize(ctx context.Context, article ArticleEntry) (string, error)

	// Model returns the model identifier used for requests.
	Model() string
}

// ErrEmptySummary is returned when the provider answered with no usable text.
var ErrEmptySummary = errors.New("empty summary")

// APIError is a non-success answer from a provider API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// Retryable reports whether the request may succeed if repeated.
func (e *APIError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// IsRetryable classifies an error returned by Summarize. Empty answers,
// malformed payloads and 4xx responses are permanent; transport errors,
// rate limits and server errors are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrEmptySummary) || errors.Is(err, errMalformed) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// FailureCategory labels a Summarize error for logs and metrics.
func FailureCategory(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptySummary):
		return "empty"
	case errors.Is(err, errMalformed):
		return "malformed"
	case errors.As(err, &apiErr):
		return "status"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "network"
	}
}

// NewProvider creates the appropriate provider based on config.
func NewProvider(cfg ProviderConfig) (AIProvider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case "anthropic":
		return NewAnthropicProvider(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case "gemini":
		return NewGeminiProvider(context.Background(), cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}
