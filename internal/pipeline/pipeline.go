// Package pipeline runs one aggregation pass over every configured feed.
package pipeline

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/hoanghai1803/vnfinews/internal/models"
)

// DefaultMaxConcurrent bounds how many feeds are fetched at once.
const DefaultMaxConcurrent = 6

// Ingestor turns one feed into articles. It reports feed-level failures
// through the second return value and never panics.
type Ingestor interface {
	Ingest(ctx context.Context, feedURL string) ([]models.Article, *models.FailedFeed)
}

// Result is the outcome of one run.
type Result struct {
	Articles   []models.Article
	Failed     []models.FailedFeed
	FeedsTotal int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Pipeline fetches all feeds with bounded concurrency and merges their
// articles newest first.
type Pipeline struct {
	ingestor      Ingestor
	feeds         []string
	maxConcurrent int
	now           func() time.Time
}

// New creates a Pipeline over feeds. maxConcurrent < 1 selects
// DefaultMaxConcurrent.
func New(ingestor Ingestor, feeds []string, maxConcurrent int) *Pipeline {
	if maxConcurrent < 1 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return &Pipeline{
		ingestor:      ingestor,
		feeds:         slices.Clone(feeds),
		maxConcurrent: maxConcurrent,
		now:           time.Now,
	}
}

// Run ingests every feed and returns the merged, sorted articles. Failing
// feeds are reported in Result.Failed and do not fail the run; an error is
// returned only when ctx is cancelled before the run completes.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	started := p.now()

	// Indexed by feed so the pre-sort order is feed order then entry order.
	perFeed := make([][]models.Article, len(p.feeds))
	failures := make([]*models.FailedFeed, len(p.feeds))

	var g errgroup.Group
	g.SetLimit(p.maxConcurrent)
	for i, feedURL := range p.feeds {
		g.Go(func() error {
			perFeed[i], failures[i] = p.ingestor.Ingest(ctx, feedURL)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("aggregation interrupted: %w", err)
	}

	articles := slices.Concat(perFeed...)
	SortByRecency(articles)

	failed := lo.FilterMap(failures, func(f *models.FailedFeed, _ int) (models.FailedFeed, bool) {
		if f == nil {
			return models.FailedFeed{}, false
		}
		return *f, true
	})

	res := &Result{
		Articles:   articles,
		Failed:     failed,
		FeedsTotal: len(p.feeds),
		StartedAt:  started,
		FinishedAt: p.now(),
	}

	slog.Info("aggregation finished",
		"feeds", res.FeedsTotal,
		"failed", len(res.Failed),
		"articles", len(res.Articles),
		"duration", res.FinishedAt.Sub(started),
	)
	return res, nil
}

// SortByRecency orders articles newest first. Articles with equal timestamps
// keep their relative order.
func SortByRecency(articles []models.Article) {
	slices.SortStableFunc(articles, func(a, b models.Article) int {
		return cmp.Compare(b.Timestamp.UnixNano(), a.Timestamp.UnixNano())
	})
}
