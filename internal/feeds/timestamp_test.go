package feeds

import (
	"testing"
	"time"
)

func TestResolveTimestamp(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	hcm := time.FixedZone("ICT", 7*60*60)
	published := time.Date(2025, 5, 31, 9, 30, 0, 0, hcm)
	updated := time.Date(2025, 5, 31, 10, 0, 0, 0, time.UTC)
	zero := time.Time{}
	epoch := time.Unix(0, 0)
	farFuture := now.AddDate(2, 0, 0)

	tests := []struct {
		name      string
		published *time.Time
		updated   *time.Time
		want      time.Time
	}{
		{name: "published preferred", published: &published, updated: &updated, want: published.UTC()},
		{name: "updated when published missing", updated: &updated, want: updated},
		{name: "now when both missing", want: now},
		{name: "zero published ignored", published: &zero, updated: &updated, want: updated},
		{name: "epoch published ignored", published: &epoch, want: now},
		{name: "far future ignored", published: &farFuture, updated: &updated, want: updated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveTimestamp(tt.published, tt.updated, clock)
			if !got.Equal(tt.want) {
				t.Errorf("ResolveTimestamp() = %v, want %v", got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("ResolveTimestamp() location = %v, want UTC", got.Location())
			}
		})
	}
}
