package storage

import (
	"context"
	"fmt"

	"github.com/hoanghai1803/vnfinews/internal/models"
)

// CreateRun inserts a refresh-run audit row and returns its ID.
func (s *Store) CreateRun(ctx context.Context, run *models.RefreshRun) (int64, error) {
	failed := run.FailedFeedsJSON
	if failed == "" {
		failed = "[]"
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO refresh_runs
			(trigger_name, started_at, finished_at, feeds_total, feeds_failed, articles, failed_feeds, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Trigger, formatTime(run.StartedAt), formatTime(run.FinishedAt),
		run.FeedsTotal, run.FeedsFailed, run.Articles, failed, run.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("creating refresh run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting refresh run id: %w", err)
	}
	return id, nil
}

// GetRecentRuns returns the most recent refresh runs, newest first, limited
// to the specified count.
func (s *Store) GetRecentRuns(ctx context.Context, limit int) ([]models.RefreshRun, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, trigger_name, started_at, finished_at, feeds_total,
				feeds_failed, articles, failed_feeds, error
		 FROM refresh_runs
		 ORDER BY started_at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent refresh runs: %w", err)
	}
	defer rows.Close()

	var runs []models.RefreshRun
	for rows.Next() {
		var (
			run        models.RefreshRun
			startedAt  string
			finishedAt string
		)
		if err := rows.Scan(
			&run.ID, &run.Trigger, &startedAt, &finishedAt, &run.FeedsTotal,
			&run.FeedsFailed, &run.Articles, &run.FailedFeedsJSON, &run.Error,
		); err != nil {
			return nil, fmt.Errorf("scanning refresh run row: %w", err)
		}
		run.StartedAt = parseTime(startedAt)
		run.FinishedAt = parseTime(finishedAt)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating refresh run rows: %w", err)
	}
	return runs, nil
}
