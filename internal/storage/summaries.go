package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hoanghai1803/vnfinews/internal/models"
)

// PutSummary inserts a cached external summary or replaces the row with the
// same content hash.
func (s *Store) PutSummary(ctx context.Context, summary *models.CachedSummary) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO summary_cache (content_hash, summary, model_used)
		 VALUES (?, ?, ?)
		 ON CONFLICT(content_hash) DO UPDATE SET
			summary    = excluded.summary,
			model_used = excluded.model_used,
			created_at = datetime('now')`,
		summary.ContentHash, summary.Summary, summary.ModelUsed,
	)
	if err != nil {
		return fmt.Errorf("upserting cached summary: %w", err)
	}
	return nil
}

// GetSummary returns the cached summary for the given content hash.
// Returns nil, ErrNotFound if no matching row exists.
func (s *Store) GetSummary(ctx context.Context, contentHash string) (*models.CachedSummary, error) {
	var (
		summary   models.CachedSummary
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT content_hash, summary, model_used, created_at
		 FROM summary_cache WHERE content_hash = ?`, contentHash,
	).Scan(&summary.ContentHash, &summary.Summary, &summary.ModelUsed, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting cached summary: %w", err)
	}
	summary.CreatedAt = parseTime(createdAt)
	return &summary, nil
}

// PruneSummaries deletes cached summaries created before cutoff and returns
// how many rows were removed.
func (s *Store) PruneSummaries(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM summary_cache WHERE created_at < ?`,
		cutoff.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("pruning cached summaries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned summaries: %w", err)
	}
	return n, nil
}
