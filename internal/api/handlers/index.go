package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/hoanghai1803/vnfinews/internal/models"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(
	template.New("index.html").
		Funcs(template.FuncMap{"displayTime": displayTime}).
		ParseFS(templateFS, "templates/index.html"),
)

// displayTime renders t as dd/mm/yyyy HH:MM in Vietnam time. It accepts a
// time.Time or *time.Time; nil renders as an empty string.
func displayTime(v any) string {
	switch t := v.(type) {
	case time.Time:
		return models.DisplayTime(t)
	case *time.Time:
		if t == nil {
			return ""
		}
		return models.DisplayTime(*t)
	default:
		return ""
	}
}

// Index handles GET /. It renders the current snapshot as an HTML page.
func Index(collection Snapshots) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := collection.Load()

		var buf bytes.Buffer
		err := indexTemplate.Execute(&buf, map[string]any{
			"Articles":   snap.Articles,
			"LastUpdate": snap.LastUpdate,
			"Count":      snap.Count(),
		})
		if err != nil {
			slog.Error("failed to render index", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	}
}
