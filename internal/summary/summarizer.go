package summary

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/hoanghai1803/vnfinews/internal/ai"
	"github.com/hoanghai1803/vnfinews/internal/metrics"
	"github.com/hoanghai1803/vnfinews/internal/models"
	"github.com/hoanghai1803/vnfinews/internal/storage"
)

// Result is a produced summary. External is true when the text came from the
// external model, directly or through the cache.
type Result struct {
	Text     string
	External bool
}

// Cache stores external summaries by content hash.
type Cache interface {
	GetSummary(ctx context.Context, contentHash string) (*models.CachedSummary, error)
	PutSummary(ctx context.Context, summary *models.CachedSummary) error
}

// Options tunes external summarization.
type Options struct {
	// Timeout bounds each call to the provider.
	Timeout time.Duration
	// MaxRetries is how many times a retryable failure is retried.
	MaxRetries int
	// InitialInterval is the first backoff delay between retries.
	InitialInterval time.Duration
}

var errProviderPanic = errors.New("provider panicked")

const (
	defaultTimeout         = 20 * time.Second
	defaultInitialInterval = 500 * time.Millisecond
)

// Summarizer produces article summaries. It never fails: any problem with the
// external model falls back to RuleBased.
type Summarizer struct {
	provider ai.AIProvider
	cache    Cache
	opts     Options
}

// New creates a Summarizer. provider and cache may be nil; without a provider
// every external request falls back to rule-based summaries.
func New(provider ai.AIProvider, cache Cache, opts Options) *Summarizer {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = defaultInitialInterval
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &Summarizer{provider: provider, cache: cache, opts: opts}
}

// Summarize returns a one-sentence summary for the article. With
// useExternal=false, or when the external path fails, the result equals
// RuleBased(title).
func (s *Summarizer) Summarize(ctx context.Context, title, content string, useExternal bool) Result {
	if !useExternal {
		metrics.Summaries.WithLabelValues("rule_based").Inc()
		return Result{Text: RuleBased(title)}
	}

	if s.provider == nil {
		return s.fallback(title, "no_provider", errors.New("no external provider configured"))
	}

	hash := ContentHash(title, content)
	if text := s.lookup(ctx, hash); text != "" {
		metrics.Summaries.WithLabelValues("cache").Inc()
		return Result{Text: text, External: true}
	}

	start := time.Now()
	text, err := s.callExternal(ctx, title, content)
	metrics.SummaryLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return s.fallback(title, failureCategory(err), err)
	}

	s.store(ctx, hash, text)
	metrics.Summaries.WithLabelValues("external").Inc()
	return Result{Text: text, External: true}
}

// ContentHash is the summary cache key for an article.
func ContentHash(title, content string) string {
	h := sha256.Sum256([]byte(title + "\n" + content))
	return fmt.Sprintf("%x", h)
}

// callExternal asks the provider for a summary, retrying retryable failures
// with exponential backoff.
func (s *Summarizer) callExternal(ctx context.Context, title, content string) (string, error) {
	var text string
	operation := func() error {
		out, err := s.attempt(ctx, title, content)
		if err != nil {
			if ai.IsRetryable(err) && !errors.Is(err, errProviderPanic) {
				return err
			}
			return backoff.Permanent(err)
		}
		text = out
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.opts.InitialInterval
	b.MaxInterval = s.opts.Timeout
	b.MaxElapsedTime = 0 // bounded by MaxRetries

	notify := func(err error, wait time.Duration) {
		slog.Debug("retrying external summary", "error", err, "wait", wait)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(s.opts.MaxRetries)), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return "", err
	}
	return text, nil
}

// attempt performs one provider call under the per-call timeout. A panicking
// provider is reported as an error.
func (s *Summarizer) attempt(ctx context.Context, title, content string) (text string, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: %v", errProviderPanic, r)
		}
	}()

	text, err = s.provider.Summarize(ctx, ai.ArticleEntry{Title: title, Content: content})
	if err != nil {
		return "", err
	}
	if text = ai.CleanSummary(text); text == "" {
		return "", ai.ErrEmptySummary
	}
	return text, nil
}

func failureCategory(err error) string {
	if errors.Is(err, errProviderPanic) {
		return "panic"
	}
	return ai.FailureCategory(err)
}

func (s *Summarizer) fallback(title, category string, err error) Result {
	slog.Warn("external summary failed, using rule-based summary",
		"category", category,
		"error", err,
	)
	metrics.SummaryFailures.WithLabelValues(category).Inc()
	metrics.Summaries.WithLabelValues("fallback").Inc()
	return Result{Text: RuleBased(title)}
}

func (s *Summarizer) lookup(ctx context.Context, hash string) string {
	if s.cache == nil {
		return ""
	}
	cached, err := s.cache.GetSummary(ctx, hash)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Warn("summary cache lookup failed", "error", err)
		}
		return ""
	}
	return cached.Summary
}

func (s *Summarizer) store(ctx context.Context, hash, text string) {
	if s.cache == nil {
		return
	}
	err := s.cache.PutSummary(ctx, &models.CachedSummary{
		ContentHash: hash,
		Summary:     text,
		ModelUsed:   s.provider.Model(),
	})
	if err != nil {
		slog.Warn("storing summary in cache failed", "error", err)
	}
}
