// Package metrics holds the Prometheus collectors shared by the aggregator.
// All collectors register with the default registry, which /metrics serves.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedFetches counts feed downloads. kind is empty on success.
	FeedFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vnfinews_feed_fetches_total",
		Help: "Feed fetch attempts by outcome and failure kind",
	}, []string{"outcome", "kind"})

	// FeedFetchDuration observes one feed download and parse.
	FeedFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vnfinews_feed_fetch_duration_seconds",
		Help:    "Time spent downloading and parsing a single feed",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms .. ~25s
	})

	// EntriesSkipped counts entries dropped as incomplete, irrelevant or on
	// error.
	EntriesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vnfinews_entries_skipped_total",
		Help: "Feed entries dropped during ingestion by reason",
	}, []string{"reason"})

	// ArticlesAdmitted counts entries that passed the relevance filter.
	ArticlesAdmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vnfinews_articles_admitted_total",
		Help: "Entries that passed relevance filtering",
	})

	// Summaries counts produced summaries by the path that produced them.
	Summaries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vnfinews_summaries_total",
		Help: "Summaries produced by path (rule_based, external, cache, fallback)",
	}, []string{"path"})

	// SummaryFailures counts external summarization failures by
	// ai.FailureCategory.
	SummaryFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vnfinews_summary_failures_total",
		Help: "External summarization failures by category",
	}, []string{"category"})

	// SummaryLatency observes external calls, retries included.
	SummaryLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vnfinews_summary_external_latency_seconds",
		Help:    "Latency of external summarization calls including retries",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 9), // 100ms .. ~25s
	})

	// RefreshRuns counts refresh runs by trigger and outcome.
	RefreshRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vnfinews_refresh_runs_total",
		Help: "Completed refresh runs by trigger and outcome",
	}, []string{"trigger", "outcome"})

	// RefreshDuration observes whole aggregation runs.
	RefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vnfinews_refresh_duration_seconds",
		Help:    "Duration of a full aggregation run",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	// ArticlesCurrent is the size of the published snapshot.
	ArticlesCurrent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vnfinews_articles_current",
		Help: "Number of articles in the published collection",
	})

	// LastRefreshTimestamp is the Unix time of the last published snapshot.
	LastRefreshTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vnfinews_last_refresh_timestamp_seconds",
		Help: "Unix time of the last completed refresh",
	})

	// HTTPRequests counts served requests. route is the chi pattern, so
	// label cardinality stays bounded.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vnfinews_http_requests_total",
		Help: "HTTP requests served by route pattern and status code",
	}, []string{"method", "route", "status"})
)
