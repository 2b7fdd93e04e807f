package feeds

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hoanghai1803/vnfinews/internal/metrics"
	"github.com/hoanghai1803/vnfinews/internal/models"
	"github.com/mmcdole/gofeed"
)

// entityRefPattern matches a well-formed entity or character reference at
// the start of the input.
var entityRefPattern = regexp.MustCompile(`^&(?:[A-Za-z][A-Za-z0-9]*|#[0-9]+|#[xX][0-9A-Fa-f]+);`)

// parseDocument parses a feed body. A document the parser rejects is
// sanitized and parsed once more. If that still fails, a truncated document
// is cut after its last complete item or entry so the leading entries
// survive. Either recovery logs a warning.
func parseDocument(feedURL string, body []byte) (*gofeed.Feed, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err == nil {
		return feed, nil
	}

	clean := sanitizeXML(body)
	if recovered, retryErr := gofeed.NewParser().Parse(bytes.NewReader(clean)); retryErr == nil {
		slog.Warn("malformed feed recovered",
			"feed", feedURL,
			"error", err,
		)
		return recovered, nil
	}

	if cut, ok := completeEntries(clean); ok {
		if recovered, cutErr := gofeed.NewParser().Parse(bytes.NewReader(cut)); cutErr == nil {
			slog.Warn("truncated feed recovered",
				"feed", feedURL,
				"entries", len(recovered.Items),
				"error", err,
			)
			return recovered, nil
		}
	}
	return nil, fmt.Errorf("%w: %w", ErrParse, err)
}

var (
	itemClose  = []byte("</item>")
	entryClose = []byte("</entry>")
)

// completeEntries cuts body after its last complete RSS item or Atom entry
// and closes the enclosing elements. ok is false when body holds no complete
// entry.
func completeEntries(body []byte) (cut []byte, ok bool) {
	end, closers := -1, ""
	if i := bytes.LastIndex(body, itemClose); i >= 0 {
		end = i + len(itemClose)
		closers = "</channel></rss>"
		// RSS 1.0 items are siblings of the channel.
		if bytes.Contains(body[:end], []byte("<rdf:RDF")) {
			closers = "</rdf:RDF>"
		}
	}
	if i := bytes.LastIndex(body, entryClose); i >= 0 && i+len(entryClose) > end {
		end = i + len(entryClose)
		closers = "</feed>"
	}
	if end < 0 {
		return nil, false
	}

	cut = make([]byte, 0, end+len(closers))
	cut = append(cut, body[:end]...)
	return append(cut, closers...), true
}

// sanitizeXML drops characters that XML 1.0 forbids and escapes ampersands
// that do not start an entity reference.
func sanitizeXML(body []byte) []byte {
	var b bytes.Buffer
	b.Grow(len(body))

	for i := 0; i < len(body); {
		r, size := utf8.DecodeRune(body[i:])
		switch {
		case r == utf8.RuneError && size <= 1:
			// invalid byte
		case r == '&':
			if entityRefPattern.Match(body[i:]) {
				b.WriteByte('&')
			} else {
				b.WriteString("&amp;")
			}
		case isXMLChar(r):
			b.Write(body[i : i+size])
		}
		i += size
	}
	return b.Bytes()
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}

// processEntry turns one feed item into an article. ok is false when the
// entry is incomplete, off topic, or processing it panicked.
func (f *Fetcher) processEntry(ctx context.Context, feedURL string, item *gofeed.Item) (article models.Article, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("entry processing panicked",
				"feed", feedURL,
				"panic", r,
			)
			metrics.EntriesSkipped.WithLabelValues("error").Inc()
			article, ok = models.Article{}, false
		}
	}()

	if item == nil {
		metrics.EntriesSkipped.WithLabelValues("incomplete").Inc()
		return models.Article{}, false
	}

	title := CleanText(item.Title)
	content := CleanText(entryContent(item))
	link := entryLink(item)
	if title == "" || link == "" {
		metrics.EntriesSkipped.WithLabelValues("incomplete").Inc()
		return models.Article{}, false
	}

	if !f.classifier.IsRelevant(title, content) {
		slog.Debug("entry not relevant", "feed", feedURL, "title", title)
		metrics.EntriesSkipped.WithLabelValues("irrelevant").Inc()
		return models.Article{}, false
	}
	metrics.ArticlesAdmitted.Inc()
	if m, ok := f.classifier.(keywordMatcher); ok && slog.Default().Enabled(ctx, slog.LevelDebug) {
		slog.Debug("entry admitted",
			"feed", feedURL,
			"title", title,
			"keywords", m.Matches(title, content),
		)
	}

	input := content
	if input == "" && f.opts.ExtractFullText {
		text, err := f.extract(ctx, link)
		if err != nil {
			slog.Debug("full-text extraction failed", "url", link, "error", err)
		} else {
			input = CleanText(text)
		}
	}

	res := f.summarizer.Summarize(ctx, title, input, f.opts.UseExternal)
	text := res.Text
	external := res.External
	if text == "" {
		text = fallbackSummary(content)
		external = false
	}

	return models.Article{
		Title:     title,
		URL:       link,
		Source:    f.sources.Resolve(link),
		Timestamp: ResolveTimestamp(item.PublishedParsed, item.UpdatedParsed, f.now),
		Summary:   text,
		AISummary: external,
	}, true
}

// entryContent returns the item's description, falling back to its full
// content.
func entryContent(item *gofeed.Item) string {
	if strings.TrimSpace(item.Description) != "" {
		return item.Description
	}
	return item.Content
}

// entryLink returns the item's link, falling back to the first of its links.
func entryLink(item *gofeed.Item) string {
	if link := strings.TrimSpace(item.Link); link != "" {
		return link
	}
	for _, l := range item.Links {
		if l = strings.TrimSpace(l); l != "" {
			return l
		}
	}
	return ""
}
