package models

import "time"

// Refresh triggers.
const (
	TriggerStartup   = "startup"
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
	TriggerCron      = "cron"
)

// RefreshRun records an audit trail of each aggregation run.
type RefreshRun struct {
	ID              int64     `json:"id"`
	Trigger         string    `json:"trigger"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	FeedsTotal      int       `json:"feeds_total"`
	FeedsFailed     int       `json:"feeds_failed"`
	Articles        int       `json:"articles"`
	FailedFeedsJSON string    `json:"failed_feeds_json,omitempty"`
	Error           string    `json:"error,omitempty"`
}

// CachedSummary holds an external summary keyed by a hash of the article's
// title and content.
type CachedSummary struct {
	ContentHash string    `json:"content_hash"`
	Summary     string    `json:"summary"`
	ModelUsed   string    `json:"model_used"`
	CreatedAt   time.Time `json:"created_at"`
}
