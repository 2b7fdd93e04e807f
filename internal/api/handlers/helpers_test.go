package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name   string
		status int
		write  func(w http.ResponseWriter)
		key    string
		want   string
	}{
		{
			name:   "payload",
			status: http.StatusAccepted,
			write:  func(w http.ResponseWriter) { writeJSON(w, http.StatusAccepted, map[string]string{"message": "Tỷ giá <USD>"}) },
			key:    "message",
			want:   "Tỷ giá <USD>",
		},
		{
			name:   "error envelope",
			status: http.StatusBadRequest,
			write:  func(w http.ResponseWriter) { writeError(w, http.StatusBadRequest, "limit must be positive") },
			key:    "error",
			want:   "limit must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
			}
			if body[tt.key] != tt.want {
				t.Errorf("%s = %q, want %q", tt.key, body[tt.key], tt.want)
			}
		})
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    int
		wantErr bool
	}{
		{name: "missing uses default", query: "", want: 20},
		{name: "valid", query: "?limit=5", want: 5},
		{name: "clamped", query: "?limit=5000", want: 100},
		{name: "zero", query: "?limit=0", wantErr: true},
		{name: "negative", query: "?limit=-3", wantErr: true},
		{name: "not a number", query: "?limit=abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/runs"+tt.query, nil)

			got, err := parseLimit(r, 20, 100)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsoTime(t *testing.T) {
	if got := isoTime(nil); got != nil {
		t.Errorf("isoTime(nil) = %v, want nil", got)
	}

	ts := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)
	if got := isoTime(&ts); got != "2025-06-01T08:30:00Z" {
		t.Errorf("isoTime = %v, want %q", got, "2025-06-01T08:30:00Z")
	}
}
