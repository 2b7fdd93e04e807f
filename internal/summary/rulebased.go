// Package summary produces the one-sentence Vietnamese summary attached to
// each article, either from keyword templates or from an external model with
// the templates as fallback.
package summary

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/hoanghai1803/vnfinews/internal/relevance"
)

var financialTerms = []string{
	"tăng trưởng", "kinh tế", "GDP", "lạm phát", "lãi suất", "tỷ giá",
	"chứng khoán", "thị trường", "đầu tư", "ngân hàng", "tài chính",
	"chính sách", "thuế", "ngân sách", "nợ công", "xuất khẩu", "nhập khẩu",
	"doanh nghiệp", "công ty", "cổ phiếu", "trái phiếu", "bất động sản",
}

var policyTerms = []string{
	"chính sách", "luật", "nghị định", "thông tư", "quyết định",
	"chính phủ", "bộ", "ngành", "cơ quan", "quy định", "hướng dẫn",
}

const (
	genericLongTitle  = "Tin tức quan trọng về tài chính và chính sách."
	genericShortTitle = "Cập nhật mới nhất từ thị trường tài chính."

	longTitleRunes = 50
	maxNamedTerms  = 2
)

// RuleBased builds a templated summary from the finance and policy terms
// found in title. It returns "" only for an empty title.
func RuleBased(title string) string {
	if strings.TrimSpace(title) == "" {
		return ""
	}

	folded := relevance.Fold(title)
	financial := findTerms(folded, financialTerms)
	policy := findTerms(folded, policyTerms)
	named := lo.Uniq(append(financial, policy...))
	if len(named) > maxNamedTerms {
		named = named[:maxNamedTerms]
	}

	switch {
	case len(financial) > 0:
		return fmt.Sprintf("Tin tức về %s trong lĩnh vực tài chính.", strings.Join(named, ", "))
	case len(policy) > 0:
		return fmt.Sprintf("Thông tin chính sách liên quan đến %s.", strings.Join(named, ", "))
	case utf8.RuneCountInString(title) > longTitleRunes:
		return genericLongTitle
	default:
		return genericShortTitle
	}
}

// findTerms returns the terms contained in folded, in list order.
func findTerms(folded string, terms []string) []string {
	return lo.Filter(terms, func(term string, _ int) bool {
		return strings.Contains(folded, relevance.Fold(term))
	})
}
