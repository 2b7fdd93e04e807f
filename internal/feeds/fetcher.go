package feeds

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/hoanghai1803/vnfinews/internal/metrics"
	"github.com/hoanghai1803/vnfinews/internal/models"
	"github.com/hoanghai1803/vnfinews/internal/summary"
	"github.com/mmcdole/gofeed"
)

const (
	DefaultTimeout        = 30 * time.Second
	DefaultMaxEntries     = 20
	DefaultRateLimitDelay = 1 * time.Second

	maxFeedBytes = 10 << 20 // 10 MiB
	maxWords     = 5000
)

// Classifier decides whether an entry is on topic.
type Classifier interface {
	IsRelevant(title, content string) bool
}

// keywordMatcher is implemented by classifiers that can report which
// keywords admitted an entry.
type keywordMatcher interface {
	Matches(title, content string) []string
}

// Summarizer produces the one-sentence summary of an entry.
type Summarizer interface {
	Summarize(ctx context.Context, title, content string, useExternal bool) summary.Result
}

// Options controls how feeds are fetched and turned into articles.
type Options struct {
	// Timeout bounds downloading and parsing one feed.
	Timeout time.Duration

	// MaxEntries is how many entries per feed are considered, in document
	// order.
	MaxEntries int

	// RateLimitDelay is the minimum gap between requests to the same host.
	// Zero disables the delay.
	RateLimitDelay time.Duration

	// ExtractFullText fetches the article page with readability when an
	// entry carries no content. The text feeds the summary only.
	ExtractFullText bool

	// UseExternal asks the summarizer for an external summary.
	UseExternal bool
}

// Fetcher downloads feeds and converts their entries into articles, with
// per-domain rate limiting.
type Fetcher struct {
	client     *http.Client
	opts       Options
	classifier Classifier
	summarizer Summarizer
	sources    *SourceResolver
	extract    func(ctx context.Context, articleURL string) (string, error)
	now        func() time.Time

	rateLimiter map[string]time.Time // per-domain next allowed request time
	mu          sync.Mutex           // protects rateLimiter
}

// NewFetcher creates a Fetcher. Zero Timeout and MaxEntries take their
// defaults.
func NewFetcher(opts Options, classifier Classifier, summarizer Summarizer, sources *SourceResolver) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if sources == nil {
		sources = NewSourceResolver(nil)
	}
	f := &Fetcher{
		client: &http.Client{
			Transport: &userAgentTransport{
				base: http.DefaultTransport,
			},
		},
		opts:        opts,
		classifier:  classifier,
		summarizer:  summarizer,
		sources:     sources,
		now:         time.Now,
		rateLimiter: make(map[string]time.Time),
	}
	f.extract = f.extractArticle
	return f
}

// userAgentTransport wraps an http.RoundTripper to inject a custom User-Agent
// header on every request.
type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	// Some publishers reject non-browser agents.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36")
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/rss+xml,application/atom+xml,application/xml;q=0.9,text/html;q=0.8,*/*;q=0.7")
	}
	req.Header.Set("Accept-Language", "vi-VN,vi;q=0.9,en;q=0.8")
	return t.base.RoundTrip(req)
}

// Ingest fetches one feed and returns its relevant entries as articles. It
// never panics: a feed that cannot be fetched or parsed yields no articles
// and a FailedFeed describing why. Bad entries are skipped individually.
func (f *Fetcher) Ingest(ctx context.Context, feedURL string) ([]models.Article, *models.FailedFeed) {
	start := time.Now()
	doc, err := f.fetchFeed(ctx, feedURL)
	metrics.FeedFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		kind := Kind(err)
		slog.Warn("failed to fetch feed",
			"feed", feedURL,
			"kind", kind,
			"error", err,
		)
		metrics.FeedFetches.WithLabelValues("failed", kind).Inc()
		return nil, &models.FailedFeed{URL: feedURL, Kind: kind, Error: err.Error()}
	}
	metrics.FeedFetches.WithLabelValues("ok", "").Inc()

	items := doc.Items
	if len(items) > f.opts.MaxEntries {
		items = items[:f.opts.MaxEntries]
	}

	var articles []models.Article
	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		if a, ok := f.processEntry(ctx, feedURL, item); ok {
			articles = append(articles, a)
		}
	}

	slog.Info("fetched feed",
		"feed", feedURL,
		"entries", len(items),
		"articles", len(articles),
	)
	return articles, nil
}

// fetchFeed downloads and parses feedURL under the per-feed timeout.
func (f *Fetcher) fetchFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	if err := f.waitForRateLimit(ctx, extractDomain(feedURL)); err != nil {
		return nil, transportError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrNetwork, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes+1))
	if err != nil {
		return nil, transportError(err)
	}
	if len(body) > maxFeedBytes {
		slog.Warn("feed exceeds size limit, keeping leading entries",
			"feed", feedURL,
			"limit_bytes", maxFeedBytes,
		)
		body = body[:maxFeedBytes]
	}

	return parseDocument(feedURL, body)
}

// waitForRateLimit enforces the minimum delay between requests to the same
// domain. It returns early with the context's error if ctx is done.
func (f *Fetcher) waitForRateLimit(ctx context.Context, domain string) error {
	if f.opts.RateLimitDelay <= 0 {
		return nil
	}

	f.mu.Lock()
	var wait time.Duration
	now := time.Now()
	if next, ok := f.rateLimiter[domain]; ok && next.After(now) {
		wait = next.Sub(now)
	}
	// Reserve the slot before sleeping so concurrent callers queue up.
	f.rateLimiter[domain] = now.Add(wait + f.opts.RateLimitDelay)
	f.mu.Unlock()

	if wait == 0 {
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
