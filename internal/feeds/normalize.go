package feeds

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// CleanText strips markup from raw feed text and collapses whitespace.
// Tags are removed before entities are unescaped, so escaped comparisons
// such as "&lt;5%" stay text. The result is NFC-normalized.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = htmlTagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = norm.NFC.String(s)
	// Fields splits on Unicode whitespace, including the &nbsp; rune.
	return strings.Join(strings.Fields(s), " ")
}

// truncateRunes returns the first n runes of s.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// fallbackSummary is used when no summary could be generated: the first 200
// characters of the content followed by an ellipsis.
func fallbackSummary(content string) string {
	if content == "" {
		return ""
	}
	return truncateRunes(content, 200) + "..."
}

// truncateWords returns the first maxWords whitespace-delimited words from s.
// If s contains fewer than maxWords words, it is returned unchanged.
func truncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ")
}
