package handlers

import (
	"net/http"
	"time"

	"github.com/hoanghai1803/vnfinews/internal/models"
)

// Snapshots exposes the currently published article collection.
type Snapshots interface {
	Load() *models.Snapshot
}

// GetArticles handles GET /api/articles. It returns the current snapshot
// as {"articles", "last_update", "count"}.
func GetArticles(collection Snapshots) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := collection.Load()

		articles := snap.Articles
		if articles == nil {
			articles = []models.Article{}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"articles":    articles,
			"last_update": isoTime(snap.LastUpdate),
			"count":       snap.Count(),
		})
	}
}

// Health handles GET /health.
func Health(collection Snapshots) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := collection.Load()

		writeJSON(w, http.StatusOK, map[string]any{
			"status":         "healthy",
			"articles_count": snap.Count(),
			"last_update":    isoTime(snap.LastUpdate),
			"timestamp":      time.Now().UTC().Format(time.RFC3339),
		})
	}
}
