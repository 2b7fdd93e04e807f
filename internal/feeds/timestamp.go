package feeds

import "time"

// earliestPlausible bounds well-formed feed dates from below; anything
// earlier is a parser artifact such as a zero Unix time.
var earliestPlausible = time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC)

// ResolveTimestamp picks the publication time of a feed entry: published if
// well-formed, else updated if well-formed, else now(). The result is in UTC.
func ResolveTimestamp(published, updated *time.Time, now func() time.Time) time.Time {
	current := now()
	if wellFormed(published, current) {
		return published.UTC()
	}
	if wellFormed(updated, current) {
		return updated.UTC()
	}
	return current.UTC()
}

// wellFormed rejects missing, zero, pre-epoch and far-future times.
func wellFormed(t *time.Time, now time.Time) bool {
	if t == nil || t.IsZero() {
		return false
	}
	if t.Before(earliestPlausible) {
		return false
	}
	return !t.After(now.AddDate(1, 0, 0))
}
