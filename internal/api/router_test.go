package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hoanghai1803/vnfinews/internal/models"
	"github.com/hoanghai1803/vnfinews/internal/refresh"
	"github.com/hoanghai1803/vnfinews/internal/storage"
)

type stubRefresher struct {
	collection *refresh.Collection
}

func (s stubRefresher) Refresh(_ context.Context, _ string) (*models.Snapshot, error) {
	return s.collection.Publish([]models.Article{{Title: "Lãi suất giảm", URL: "https://cafef.vn/a"}}, time.Now()), nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	collection := refresh.NewCollection()
	return NewRouter(collection, stubRefresher{collection}, store)
}

func TestRouterRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{http.MethodGet, "/", http.StatusOK, "<!DOCTYPE html>"},
		{http.MethodGet, "/health", http.StatusOK, `"status":"healthy"`},
		{http.MethodGet, "/api/articles", http.StatusOK, `"count":0`},
		{http.MethodGet, "/api/runs", http.StatusOK, `"runs":[]`},
		{http.MethodGet, "/api/refresh", http.StatusOK, "Refreshed 1 articles"},
		{http.MethodPost, "/api/refresh", http.StatusOK, "Refreshed 1 articles"},
		{http.MethodGet, "/cron/update", http.StatusOK, "Cron updated 1 articles"},
		{http.MethodGet, "/metrics", http.StatusOK, "vnfinews_"},
		{http.MethodDelete, "/api/refresh", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/api/unknown", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			if w.Code != tt.wantStatus {
				t.Errorf("got status %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body does not contain %q:\n%s", tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestRouterRefreshUpdatesArticles(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("refresh: got status %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/articles", nil))
	if !strings.Contains(w.Body.String(), `"count":1`) || !strings.Contains(w.Body.String(), "Lãi suất giảm") {
		t.Errorf("articles not updated after refresh: %s", w.Body.String())
	}
}
