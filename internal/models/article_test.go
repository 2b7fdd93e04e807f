package models

import (
	"testing"
	"time"
)

func TestDisplayTime(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{name: "utc shifted to ICT", in: time.Date(2025, 6, 1, 1, 5, 0, 0, time.UTC), want: "01/06/2025 08:05"},
		{name: "crosses midnight", in: time.Date(2025, 12, 31, 18, 30, 0, 0, time.UTC), want: "01/01/2026 01:30"},
		{name: "other zone", in: time.Date(2025, 6, 1, 9, 0, 0, 0, time.FixedZone("JST", 9*3600)), want: "01/06/2025 07:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayTime(tt.in); got != tt.want {
				t.Errorf("DisplayTime(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSnapshotCount(t *testing.T) {
	var nilSnap *Snapshot
	if nilSnap.Count() != 0 {
		t.Error("nil snapshot count should be 0")
	}
	if got := (&Snapshot{Articles: make([]Article, 3)}).Count(); got != 3 {
		t.Errorf("Count() = %d, want 3", got)
	}
}
