package feeds

import (
	"net/url"
	"strings"
)

// UnknownSource is returned for URLs whose host cannot be determined.
const UnknownSource = "Unknown"

// SourceResolver maps article URLs to publisher display names.
//
// A configured domain matches a host when the host equals the domain or is a
// subdomain of it. When several domains match, the longest one wins, so
// "news.cafef.vn" beats "cafef.vn" regardless of map iteration order.
type SourceResolver struct {
	names map[string]string
}

// NewSourceResolver creates a resolver from a domain -> display name map.
// Domains are matched case-insensitively.
func NewSourceResolver(names map[string]string) *SourceResolver {
	m := make(map[string]string, len(names))
	for domain, name := range names {
		domain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), ".")
		if domain == "" {
			continue
		}
		m[domain] = name
	}
	return &SourceResolver{names: m}
}

// Resolve returns the display name for rawURL, the bare host when no mapping
// matches, or UnknownSource when the URL has no parseable host.
func (r *SourceResolver) Resolve(rawURL string) string {
	host := extractDomain(rawURL)
	if host == "" {
		return UnknownSource
	}

	best := ""
	for domain := range r.names {
		if host != domain && !strings.HasSuffix(host, "."+domain) {
			continue
		}
		if len(domain) > len(best) {
			best = domain
		}
	}
	if best == "" {
		return host
	}
	return r.names[best]
}

// extractDomain parses a URL and returns its lowercased hostname, or "" if
// the URL cannot be parsed.
func extractDomain(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
