package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hoanghai1803/vnfinews/internal/models"
)

// Refresher rebuilds the article collection on demand.
type Refresher interface {
	Refresh(ctx context.Context, trigger string) (*models.Snapshot, error)
}

// Refresh handles GET|POST /api/refresh. It runs the pipeline synchronously
// and reports the size of the new collection.
func Refresh(refresher Refresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := refresher.Refresh(r.Context(), models.TriggerManual)
		if err != nil {
			slog.Error("manual refresh failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"success": false,
				"message": fmt.Sprintf("Error: %v", err),
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"message":     fmt.Sprintf("Refreshed %d articles", snap.Count()),
			"last_update": isoTime(snap.LastUpdate),
			"count":       snap.Count(),
		})
	}
}

// CronUpdate handles GET /cron/update, the hook used by an external scheduler
// when the process runs without its own refresh loop.
func CronUpdate(refresher Refresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("cron update triggered")

		snap, err := refresher.Refresh(r.Context(), models.TriggerCron)
		now := time.Now().UTC().Format(time.RFC3339)
		if err != nil {
			slog.Error("cron update failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"success":   false,
				"message":   fmt.Sprintf("Cron error: %v", err),
				"timestamp": now,
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"message":     fmt.Sprintf("Cron updated %d articles", snap.Count()),
			"last_update": isoTime(snap.LastUpdate),
			"count":       snap.Count(),
			"timestamp":   now,
		})
	}
}
