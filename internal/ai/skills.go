package ai

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const summarizeSystemPrompt = `Bạn là một chuyên gia tóm tắt tin tức tài chính và chính sách bằng tiếng Việt.`

const noContentPlaceholder = "Không có nội dung chi tiết"

var errMalformed = errors.New("malformed response")

// summaryLabelPattern matches a leading "Tóm tắt:" or "Summary:" label.
var summaryLabelPattern = regexp.MustCompile(`(?i)^\s*(tóm tắt|summary)\s*:\s*`)

// quoteChars are stripped from both ends of a summary.
const quoteChars = "\"'“”‘’«»"

// SummarizePrompt builds the system and user prompts for the one-sentence
// summary. Only the first 500 characters of content are embedded.
func SummarizePrompt(title, content string) (systemPrompt string, userPrompt string) {
	excerpt := noContentPlaceholder
	if content != "" {
		excerpt = truncateRunes(content, promptContentRunes)
	}

	var b strings.Builder
	b.WriteString("Tóm tắt ngắn gọn tin tức sau bằng một câu tiếng Việt (tối đa 20 từ):\n\n")
	fmt.Fprintf(&b, "Tiêu đề: %s\n", title)
	fmt.Fprintf(&b, "Nội dung: %s\n\n", excerpt)
	b.WriteString("Tóm tắt:")

	return summarizeSystemPrompt, b.String()
}

// CleanSummary trims a provider answer: surrounding whitespace and quote
// characters are removed, as is a leading "Tóm tắt:"/"Summary:" label.
func CleanSummary(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, quoteChars)
	s = summaryLabelPattern.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = strings.Trim(s, quoteChars)
	return strings.TrimSpace(s)
}

// finish cleans raw provider text and reports empty answers.
func finish(raw string) (string, error) {
	summary := CleanSummary(raw)
	if summary == "" {
		return "", ErrEmptySummary
	}
	return summary, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
