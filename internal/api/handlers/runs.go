package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hoanghai1803/vnfinews/internal/models"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 200
)

// RunLister reads the refresh-run audit log.
type RunLister interface {
	GetRecentRuns(ctx context.Context, limit int) ([]models.RefreshRun, error)
}

// GetRuns handles GET /api/runs. The optional limit query parameter bounds
// the number of rows returned, newest first.
func GetRuns(store RunLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := parseLimit(r, defaultRunsLimit, maxRunsLimit)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		runs, err := store.GetRecentRuns(r.Context(), limit)
		if err != nil {
			slog.Error("failed to get refresh runs", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get refresh runs")
			return
		}
		if runs == nil {
			runs = []models.RefreshRun{}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"runs":  runs,
			"count": len(runs),
		})
	}
}
