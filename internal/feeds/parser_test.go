package feeds

import (
	"errors"
	"strings"
	"testing"

	"github.com/mmcdole/gofeed"
)

func TestSanitizeXML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "clean document unchanged", input: "<title>Giá vàng</title>", want: "<title>Giá vàng</title>"},
		{name: "bare ampersand escaped", input: "<title>A & B</title>", want: "<title>A &amp; B</title>"},
		{name: "named entity kept", input: "<title>A &amp; B</title>", want: "<title>A &amp; B</title>"},
		{name: "numeric entity kept", input: "<title>&#273;&#x111;</title>", want: "<title>&#273;&#x111;</title>"},
		{name: "unterminated entity escaped", input: "AT&T", want: "AT&amp;T"},
		{name: "control characters dropped", input: "a\x01b\x0bc\x1fd", want: "abcd"},
		{name: "tab and newline kept", input: "a\tb\nc\r", want: "a\tb\nc\r"},
		{name: "invalid utf-8 dropped", input: "a\xffb", want: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(sanitizeXML([]byte(tt.input))); got != tt.want {
				t.Errorf("sanitizeXML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDocument(t *testing.T) {
	t.Run("valid rss", func(t *testing.T) {
		feed, err := parseDocument("test", []byte(rssFeed(rssItem{title: "Thuế", link: "https://cafef.vn/a"})))
		if err != nil {
			t.Fatalf("parseDocument() error: %v", err)
		}
		if len(feed.Items) != 1 {
			t.Fatalf("got %d items, want 1", len(feed.Items))
		}
	})

	t.Run("control character recovered", func(t *testing.T) {
		body := rssFeed(rssItem{title: "Giá vàng\x01 tăng", link: "https://cafef.vn/a"})
		feed, err := parseDocument("test", []byte(body))
		if err != nil {
			t.Fatalf("parseDocument() error: %v", err)
		}
		if len(feed.Items) != 1 {
			t.Fatalf("got %d items, want 1", len(feed.Items))
		}
	})

	t.Run("truncated rss keeps complete items", func(t *testing.T) {
		body := rssFeed(
			rssItem{title: "Lãi suất giảm", link: "https://cafef.vn/1"},
			rssItem{title: "Tỷ giá ổn định", link: "https://cafef.vn/2"},
			rssItem{title: "Thuế nhập khẩu", link: "https://cafef.vn/3"},
		)
		cut := strings.Index(body, "Thuế nhập")
		feed, err := parseDocument("test", []byte(body[:cut]))
		if err != nil {
			t.Fatalf("parseDocument() error: %v", err)
		}
		if len(feed.Items) != 2 || feed.Items[1].Title != "Tỷ giá ổn định" {
			t.Fatalf("got %d items, want the 2 complete ones", len(feed.Items))
		}
	})

	t.Run("truncated atom keeps complete entries", func(t *testing.T) {
		body := `<?xml version="1.0" encoding="utf-8"?><feed xmlns="http://www.w3.org/2005/Atom"><title>T</title>` +
			`<entry><title>Ngân sách</title><link href="https://ndh.vn/1"/><id>1</id></entry>` +
			`<entry><title>Chứng kh`
		feed, err := parseDocument("test", []byte(body))
		if err != nil {
			t.Fatalf("parseDocument() error: %v", err)
		}
		if len(feed.Items) != 1 || feed.Items[0].Title != "Ngân sách" {
			t.Fatalf("unexpected items: %+v", feed.Items)
		}
	})

	t.Run("truncated mid-rune", func(t *testing.T) {
		body := rssFeed(rssItem{title: "Giá vàng", link: "https://cafef.vn/1"}, rssItem{title: "Thuế", link: "https://cafef.vn/2"})
		cut := strings.Index(body, "Thuế") + 4 // inside the multi-byte "ế"
		feed, err := parseDocument("test", []byte(body[:cut]))
		if err != nil {
			t.Fatalf("parseDocument() error: %v", err)
		}
		if len(feed.Items) != 1 {
			t.Fatalf("got %d items, want 1", len(feed.Items))
		}
	})

	t.Run("truncated before any item", func(t *testing.T) {
		body := rssFeed(rssItem{title: "Giá vàng", link: "https://cafef.vn/1"})
		cut := strings.Index(body, "Giá vàng")
		if _, err := parseDocument("test", []byte(body[:cut])); !errors.Is(err, ErrParse) {
			t.Fatalf("parseDocument() error = %v, want ErrParse", err)
		}
	})

	t.Run("not a feed", func(t *testing.T) {
		_, err := parseDocument("test", []byte("this is not a feed"))
		if !errors.Is(err, ErrParse) {
			t.Fatalf("parseDocument() error = %v, want ErrParse", err)
		}
	})
}

func TestEntryContent(t *testing.T) {
	tests := []struct {
		name string
		item *gofeed.Item
		want string
	}{
		{name: "description preferred", item: &gofeed.Item{Description: "mô tả", Content: "nội dung"}, want: "mô tả"},
		{name: "content fallback", item: &gofeed.Item{Content: "nội dung"}, want: "nội dung"},
		{name: "blank description falls back", item: &gofeed.Item{Description: "  ", Content: "nội dung"}, want: "nội dung"},
		{name: "neither", item: &gofeed.Item{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := entryContent(tt.item); got != tt.want {
				t.Errorf("entryContent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEntryLink(t *testing.T) {
	tests := []struct {
		name string
		item *gofeed.Item
		want string
	}{
		{name: "link trimmed", item: &gofeed.Item{Link: "  https://cafef.vn/a \n"}, want: "https://cafef.vn/a"},
		{name: "links fallback", item: &gofeed.Item{Links: []string{"", "https://ndh.vn/b"}}, want: "https://ndh.vn/b"},
		{name: "none", item: &gofeed.Item{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := entryLink(tt.item); got != tt.want {
				t.Errorf("entryLink() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompleteEntries(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{
			name:   "rss",
			input:  `<rss><channel><item>a</item><item>b`,
			want:   `<rss><channel><item>a</item></channel></rss>`,
			wantOK: true,
		},
		{
			name:   "rss 1.0",
			input:  `<rdf:RDF><channel></channel><item>a</item><item>`,
			want:   `<rdf:RDF><channel></channel><item>a</item></rdf:RDF>`,
			wantOK: true,
		},
		{
			name:   "atom",
			input:  `<feed><entry>a</entry><entry>b</entry><ent`,
			want:   `<feed><entry>a</entry><entry>b</entry></feed>`,
			wantOK: true,
		},
		{name: "no complete entry", input: `<rss><channel><item>a`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := completeEntries([]byte(tt.input))
			if ok != tt.wantOK || string(got) != tt.want {
				t.Errorf("completeEntries(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
