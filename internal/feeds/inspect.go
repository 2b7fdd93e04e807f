package feeds

import (
	"context"
	"time"
)

// sampleEntries is how many entries Inspect reports per feed.
const sampleEntries = 3

// FeedReport describes a feed as fetched, before any filtering.
type FeedReport struct {
	URL     string
	Title   string
	Entries int
	Samples []EntrySample
}

// EntrySample is one raw entry shown in a FeedReport.
type EntrySample struct {
	Title     string
	Link      string
	Published time.Time
}

// Inspect fetches and parses feedURL and reports its title, entry count and
// the first few entries. Relevance and summarization are not applied.
func (f *Fetcher) Inspect(ctx context.Context, feedURL string) (*FeedReport, error) {
	doc, err := f.fetchFeed(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	report := &FeedReport{
		URL:     feedURL,
		Title:   CleanText(doc.Title),
		Entries: len(doc.Items),
	}
	for _, item := range doc.Items[:min(sampleEntries, len(doc.Items))] {
		if item == nil {
			continue
		}
		report.Samples = append(report.Samples, EntrySample{
			Title:     CleanText(item.Title),
			Link:      entryLink(item),
			Published: ResolveTimestamp(item.PublishedParsed, item.UpdatedParsed, f.now),
		})
	}
	return report, nil
}
