// Package relevance decides whether a news item is about finance or policy.
//
// Matching is a case-insensitive substring search over the item's title and
// content. Partial-word hits (e.g. "vốn" inside a longer word) are accepted.
package relevance

import (
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/unicode/norm"
)

// Keywords is the finance/policy vocabulary used to admit articles.
var Keywords = []string{
	"tài chính", "kinh tế", "ngân hàng", "chứng khoán", "đầu tư",
	"GDP", "lạm phát", "lãi suất", "tỷ giá", "thị trường",
	"chính sách", "thuế", "ngân sách", "nợ công", "xuất khẩu",
	"nhập khẩu", "doanh nghiệp", "cổ phiếu", "trái phiếu",
	"bất động sản", "tiền tệ", "vốn", "tín dụng",
}

// Classifier matches text against a fixed keyword list.
type Classifier struct {
	keywords []string // folded
}

// New creates a Classifier for the given keywords. A nil slice selects
// Keywords.
func New(keywords []string) *Classifier {
	if keywords == nil {
		keywords = Keywords
	}
	folded := lo.Uniq(lo.Map(keywords, func(k string, _ int) string { return Fold(k) }))
	return &Classifier{
		keywords: lo.Filter(folded, func(k string, _ int) bool { return k != "" }),
	}
}

// IsRelevant reports whether title or content contains at least one keyword.
func (c *Classifier) IsRelevant(title, content string) bool {
	text := Fold(title + " " + content)
	for _, k := range c.keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// Matches returns every keyword found in title or content, in keyword order.
func (c *Classifier) Matches(title, content string) []string {
	text := Fold(title + " " + content)
	return lo.Filter(c.keywords, func(k string, _ int) bool {
		return strings.Contains(text, k)
	})
}

// Fold lowercases s and composes it to NFC so that decomposed Vietnamese
// diacritics compare equal to their precomposed forms.
func Fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
