package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// writeJSON encodes v as JSON and writes it to the response with the given
// HTTP status code. Content-Type is always set to application/json.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// At this point headers are already sent; log but cannot change status.
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// writeError writes a JSON error response with the given HTTP status code.
// The response body is {"error": "message"}.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// parseLimit reads the "limit" query parameter. A missing value yields def;
// values above ceiling are clamped.
func parseLimit(r *http.Request, def, ceiling int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid limit %q: %w", raw, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("invalid limit %d: must be >= 1", n)
	}
	return min(n, ceiling), nil
}

// isoTime formats t as RFC 3339, or nil when t is unset, so JSON renders null.
func isoTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}
