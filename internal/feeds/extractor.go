package feeds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	readability "github.com/go-shiori/go-readability"
)

const maxPageBytes = 5 << 20

// extractArticle fetches an article page and returns its readable text,
// truncated to maxWords words. It shares the feed client, rate limiter and
// per-request timeout.
func (f *Fetcher) extractArticle(ctx context.Context, articleURL string) (string, error) {
	pageURL, err := url.Parse(articleURL)
	if err != nil {
		return "", fmt.Errorf("parsing article URL %q: %w", articleURL, err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	if err := f.waitForRateLimit(ctx, extractDomain(articleURL)); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %q: %w", articleURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetching %q: %w: %s", articleURL, ErrHTTPStatus, resp.Status)
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body, maxPageBytes), pageURL)
	if err != nil {
		return "", fmt.Errorf("readability extraction for %q: %w", articleURL, err)
	}
	return truncateWords(article.TextContent, maxWords), nil
}
