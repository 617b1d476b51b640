package crawler

import (
	"net/url"
	"strings"
)

// knownDomains maps government hostnames to the short source tags stored on
// documents and chunks. Unknown hosts fall back to the raw hostname.
var knownDomains = map[string]string{
	"boe.gov.sa":    "board-of-experts",
	"moj.gov.sa":    "ministry-of-justice",
	"cma.org.sa":    "capital-market-authority",
	"sama.gov.sa":   "central-bank",
	"zatca.gov.sa":  "tax-authority",
	"nazaha.gov.sa": "anti-corruption-authority",
	"hrsd.gov.sa":   "ministry-of-human-resources",
}

// InferSource derives the source tag for a URL from its hostname.
func InferSource(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	host := strings.ToLower(u.Hostname())
	for domain, tag := range knownDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return tag
		}
	}
	return host
}
