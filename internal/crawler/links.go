package crawler

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// pathDenylist blocks application paths that never hold legal content.
var pathDenylist = []string{
	"/Identity/",
	"/admin/",
	"/Account/",
	"/api/",
}

// ParsedPage is what link discovery extracts from an HTML body.
type ParsedPage struct {
	Title string
	Links []string
}

// ParsePage extracts the <title> and the same-host <a href> links from an
// HTML body. Fragment, javascript: and mailto: links are dropped, as are
// paths under the denylist. Relative links are resolved against baseURL.
func ParsePage(baseURL, body string) *ParsedPage {
	parsed := &ParsedPage{}

	base, err := url.Parse(baseURL)
	if err != nil {
		return parsed
	}

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return parsed
	}

	seen := make(map[string]bool)

	var walker func(*html.Node)
	walker = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" && parsed.Title == "" {
			if n.FirstChild != nil {
				parsed.Title = strings.TrimSpace(n.FirstChild.Data)
			}
		}

		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				href := strings.TrimSpace(attr.Val)
				if href == "" || strings.HasPrefix(href, "#") ||
					strings.HasPrefix(strings.ToLower(href), "javascript:") ||
					strings.HasPrefix(strings.ToLower(href), "mailto:") {
					continue
				}

				ref, err := url.Parse(href)
				if err != nil {
					continue
				}
				absolute := base.ResolveReference(ref)
				if absolute.Scheme != "http" && absolute.Scheme != "https" {
					continue
				}
				if !strings.EqualFold(absolute.Host, base.Host) {
					continue
				}
				if deniedPath(absolute.Path) {
					continue
				}

				absolute.Fragment = ""
				link := absolute.String()
				if !seen[link] {
					seen[link] = true
					parsed.Links = append(parsed.Links, link)
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walker(c)
		}
	}
	walker(doc)

	return parsed
}

func deniedPath(path string) bool {
	for _, denied := range pathDenylist {
		if strings.Contains(strings.ToLower(path), strings.ToLower(denied)) {
			return true
		}
	}
	return false
}
