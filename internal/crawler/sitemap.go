package crawler

import (
	"regexp"
	"strings"
)

var locRe = regexp.MustCompile(`(?is)<loc>\s*(.*?)\s*</loc>`)

// IsXMLArtifact reports whether a response is a sitemap-style XML document
// rather than an indexable page: the content type or body signals XML and
// the body carries <loc> entries.
func IsXMLArtifact(contentType, body string) bool {
	lowerBody := strings.ToLower(body)
	if !strings.Contains(lowerBody, "<loc>") {
		return false
	}
	if strings.Contains(strings.ToLower(contentType), "xml") {
		return true
	}
	trimmed := strings.TrimSpace(lowerBody)
	return strings.HasPrefix(trimmed, "<?xml") ||
		strings.Contains(trimmed, "<urlset") ||
		strings.Contains(trimmed, "<sitemapindex")
}

// IsSitemapIndex reports whether an XML body is a sitemap index (a list of
// nested sitemaps) rather than a URL set.
func IsSitemapIndex(body string) bool {
	return strings.Contains(strings.ToLower(body), "<sitemapindex")
}

// SitemapLocs extracts the <loc> entries from a sitemap or sitemap index.
// A lenient regex is used instead of strict XML decoding; government
// sitemaps are not reliably well-formed.
func SitemapLocs(body string) []string {
	matches := locRe.FindAllStringSubmatch(body, -1)
	locs := make([]string, 0, len(matches))
	for _, m := range matches {
		if loc := strings.TrimSpace(m[1]); loc != "" {
			locs = append(locs, loc)
		}
	}
	return locs
}
