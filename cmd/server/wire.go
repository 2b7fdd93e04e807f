package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/hoanghai1803/vnfinews/internal/ai"
	"github.com/hoanghai1803/vnfinews/internal/config"
	"github.com/hoanghai1803/vnfinews/internal/feeds"
	"github.com/hoanghai1803/vnfinews/internal/pipeline"
	"github.com/hoanghai1803/vnfinews/internal/relevance"
	"github.com/hoanghai1803/vnfinews/internal/storage"
	"github.com/hoanghai1803/vnfinews/internal/summary"
)

// components is everything the commands share, built from the config.
type components struct {
	cfg      *config.Config
	store    *storage.Store
	provider ai.AIProvider
	fetcher  *feeds.Fetcher
	pipeline *pipeline.Pipeline
}

func setup(ctx *cli.Context) (*components, error) {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	// Open database with WAL mode and run schema migrations.
	store, err := storage.Open(cfg.DatabasePath(ctx.String("data-dir")))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	c := &components{cfg: cfg, store: store}

	// External summaries are used only when a key is configured.
	if cfg.ExternalSummaries() {
		c.provider, err = ai.NewProvider(ai.ProviderConfig{
			Provider: cfg.AI.Provider,
			APIKey:   cfg.AI.APIKey,
			Model:    cfg.AI.Model,
			BaseURL:  cfg.AI.BaseURL,
		})
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("creating AI provider: %w", err)
		}
		slog.Info("AI provider configured", "provider", cfg.AI.Provider, "model", cfg.AI.Model)
	} else {
		slog.Warn("no AI provider API key configured, using rule-based summaries")
	}

	// Assigned only when enabled so the summarizer sees a nil interface
	// rather than a nil *storage.Store.
	var cache summary.Cache
	if cfg.AI.SummaryCache {
		cache = store
	}
	summarizer := summary.New(c.provider, cache, summary.Options{
		Timeout:    cfg.AITimeout(),
		MaxRetries: cfg.AI.MaxRetries,
	})

	c.fetcher = newFetcher(cfg, summarizer)
	c.pipeline = pipeline.New(c.fetcher, cfg.Feeds.URLs, cfg.Feeds.MaxConcurrent)
	return c, nil
}

// newFetcher builds the feed fetcher from cfg around summarizer.
func newFetcher(cfg *config.Config, summarizer feeds.Summarizer) *feeds.Fetcher {
	return feeds.NewFetcher(feeds.Options{
		Timeout:         cfg.FetchTimeout(),
		MaxEntries:      cfg.Feeds.MaxArticlesPerFeed,
		RateLimitDelay:  feeds.DefaultRateLimitDelay,
		ExtractFullText: cfg.Feeds.ExtractFullText,
		UseExternal:     cfg.ExternalSummaries(),
	}, relevance.New(nil), summarizer, feeds.NewSourceResolver(cfg.Feeds.SourceNames))
}

// Close releases the database and any provider client.
func (c *components) Close() {
	if closer, ok := c.provider.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			slog.Warn("closing AI provider", "error", err)
		}
	}
	if err := c.store.Close(); err != nil {
		slog.Warn("closing database", "error", err)
	}
}
