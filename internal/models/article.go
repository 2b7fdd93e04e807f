package models

import "time"

// Article is a single relevant news item produced by one refresh cycle. It is
// never mutated after construction.
type Article struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Summary   string    `json:"summary"`
	AISummary bool      `json:"ai_summary"`
}

// VietnamTime is Indochina Time. Vietnam observes no daylight saving.
var VietnamTime = time.FixedZone("ICT", 7*60*60)

// DisplayLayout is the dd/mm/yyyy HH:MM layout used for readers.
const DisplayLayout = "02/01/2006 15:04"

// DisplayTime renders t in Vietnam time using DisplayLayout.
func DisplayTime(t time.Time) string {
	return t.In(VietnamTime).Format(DisplayLayout)
}

// FeedSource is a configured RSS endpoint.
type FeedSource struct {
	URL string `json:"url"`
}

// FailedFeed records a feed that contributed no articles to a run.
type FailedFeed struct {
	URL   string `json:"url"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// Snapshot is the published article collection. A new Snapshot replaces the
// previous one on every refresh; readers never see a partially built one.
type Snapshot struct {
	Articles   []Article  `json:"articles"`
	LastUpdate *time.Time `json:"last_update"`
}

// Count returns the number of articles in the snapshot.
func (s *Snapshot) Count() int {
	if s == nil {
		return 0
	}
	return len(s.Articles)
}
