// Package api exposes the article collection over HTTP.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hoanghai1803/vnfinews/internal/api/handlers"
)

// NewRouter creates the HTTP router. Reads come straight from collection;
// refresh endpoints go through refresher, and the run log through runs.
func NewRouter(collection handlers.Snapshots, refresher handlers.Refresher, runs handlers.RunLister) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(RequestLogger)
	r.Use(Recovery)
	r.Use(CORS)

	r.Get("/", handlers.Index(collection))
	r.Get("/health", handlers.Health(collection))
	r.Get("/cron/update", handlers.CronUpdate(refresher))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Get("/articles", handlers.GetArticles(collection))
		api.Get("/refresh", handlers.Refresh(refresher))
		api.Post("/refresh", handlers.Refresh(refresher))
		api.Get("/runs", handlers.GetRuns(runs))
	})

	return r
}
