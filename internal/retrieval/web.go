package retrieval

import (
	"context"
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/mizanhq/mizan/internal/arabic"
	"github.com/mizanhq/mizan/internal/crawler"
	"github.com/mizanhq/mizan/internal/domain"
	"github.com/mizanhq/mizan/internal/logger"
)

const (
	serperEndpoint       = "https://google.serper.dev/search"
	googleSearchEndpoint = "https://www.googleapis.com/customsearch/v1"
	duckduckgoEndpoint   = "https://html.duckduckgo.com/html/"

	// serperSiteScope keeps the paid-search spend on the official gazette.
	serperSiteScope = "site:laws.boe.gov.sa"

	// laborLawGazetteURL is the official gazette page of the labor law,
	// the statute most article-text questions are about.
	laborLawGazetteURL = "https://laws.boe.gov.sa/BoeLaws/Laws/LawDetails/c0c19746-6e1c-41e8-aabd-a9a700f161b6/1"

	// maxCandidatePages bounds how many search hits each web tier fetches.
	maxCandidatePages = 3
)

// allowedLiveHosts restricts live-web page fetches to official sources.
var allowedLiveHosts = map[string]bool{
	"laws.boe.gov.sa": true,
	"boe.gov.sa":      true,
	"www.boe.gov.sa":  true,
	"moj.gov.sa":      true,
	"www.moj.gov.sa":  true,
	"hrsd.gov.sa":     true,
	"www.hrsd.gov.sa": true,
}

func allowedLiveURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return allowedLiveHosts[strings.ToLower(u.Hostname())]
}

// fetchArticleSnippet fetches one candidate page and cuts the cited article
// out of its text. Returns nil when the page cannot be fetched or does not
// carry the article.
func (e *Engine) fetchArticleSnippet(ctx context.Context, pageURL, title string, q *queryInfo) *domain.Snippet {
	res, err := e.fetch.Get(ctx, pageURL)
	if err != nil || !res.OK() {
		logger.CtxDebug(ctx, "Candidate page fetch failed: url=%s, error=%v", pageURL, err)
		return nil
	}

	text := arabic.StripHTML(res.Body)
	span := arabic.ExtractArticleSpan(text, q.articleNum, q.label)
	if span == "" {
		return nil
	}
	return &domain.Snippet{
		Text:   span,
		Score:  1.0,
		Source: crawler.InferSource(pageURL),
		URL:    pageURL,
		Title:  title,
	}
}

// collectArticleSnippets fetches the allowed candidate pages in order and
// stops at the first one carrying the article.
func (e *Engine) collectArticleSnippets(ctx context.Context, candidates []searchHit, q *queryInfo) []domain.Snippet {
	fetched := 0
	for _, hit := range candidates {
		if fetched >= maxCandidatePages {
			break
		}
		if !allowedLiveURL(hit.link) {
			continue
		}
		fetched++
		if snippet := e.fetchArticleSnippet(ctx, hit.link, hit.title, q); snippet != nil {
			return []domain.Snippet{*snippet}
		}
	}
	return nil
}

// searchHit is one result link from any of the web-search providers.
type searchHit struct {
	title string
	link  string
}

// serperStrategy queries the Serper search API and mines the official-site
// hits for the cited article.
type serperStrategy struct {
	e *Engine
}

func (s *serperStrategy) name() string { return "web-serper" }

func (s *serperStrategy) search(ctx context.Context, q *queryInfo) ([]domain.Snippet, error) {
	request := map[string]string{
		"q":  q.normalized + " " + serperSiteScope,
		"gl": "sa",
		"hl": "ar",
	}
	headers := map[string]string{
		"X-API-KEY":    s.e.cfg.SerperAPIKey,
		"Content-Type": "application/json",
	}

	var response struct {
		Organic []struct {
			Title string `json:"title"`
			Link  string `json:"link"`
		} `json:"organic"`
	}
	res, err := s.e.fetch.PostJSON(ctx, serperEndpoint, headers, request, &response)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		logger.CtxWarn(ctx, "Serper request rejected: status=%d", res.StatusCode)
		return nil, nil
	}

	hits := make([]searchHit, 0, len(response.Organic))
	for _, item := range response.Organic {
		hits = append(hits, searchHit{title: item.Title, link: item.Link})
	}
	return s.e.collectArticleSnippets(ctx, hits, q), nil
}

// gazetteStrategy goes straight to the labor law's gazette page. It only
// applies when the query is about that law.
type gazetteStrategy struct {
	e *Engine
}

func (g *gazetteStrategy) name() string { return "web-gazette" }

func (g *gazetteStrategy) search(ctx context.Context, q *queryInfo) ([]domain.Snippet, error) {
	if !mentionsLaborLaw(q.normalized) {
		return nil, nil
	}
	snippet := g.e.fetchArticleSnippet(ctx, laborLawGazetteURL, "نظام العمل", q)
	if snippet == nil {
		return nil, nil
	}
	return []domain.Snippet{*snippet}, nil
}

// mentionsLaborLaw reports whether the query names the labor law, either
// directly or through the labor-office colloquialism.
func mentionsLaborLaw(query string) bool {
	return strings.Contains(query, "نظام العمل") ||
		strings.Contains(query, "مكتب العمل")
}

// googleStrategy queries the Google Custom Search API.
type googleStrategy struct {
	e *Engine
}

func (s *googleStrategy) name() string { return "web-google" }

func (s *googleStrategy) search(ctx context.Context, q *queryInfo) ([]domain.Snippet, error) {
	params := url.Values{}
	params.Set("key", s.e.cfg.GoogleAPIKey)
	params.Set("cx", s.e.cfg.GoogleEngineID)
	params.Set("q", q.normalized)
	params.Set("num", "10")

	res, err := s.e.fetch.Get(ctx, googleSearchEndpoint+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		logger.CtxWarn(ctx, "Custom Search request rejected: status=%d", res.StatusCode)
		return nil, nil
	}

	var response struct {
		Items []struct {
			Title string `json:"title"`
			Link  string `json:"link"`
		} `json:"items"`
	}
	if err := json.Unmarshal([]byte(res.Body), &response); err != nil {
		return nil, err
	}

	hits := make([]searchHit, 0, len(response.Items))
	for _, item := range response.Items {
		hits = append(hits, searchHit{title: item.Title, link: item.Link})
	}
	return s.e.collectArticleSnippets(ctx, hits, q), nil
}

// uddgLinkRe pulls the redirector target out of DuckDuckGo's HTML results.
var uddgLinkRe = regexp.MustCompile(`uddg=([^&"']+)`)

// scrapeStrategy scrapes the DuckDuckGo HTML endpoint, which needs no API
// key, as the last live-web resort.
type scrapeStrategy struct {
	e *Engine
}

func (s *scrapeStrategy) name() string { return "web-scrape" }

func (s *scrapeStrategy) search(ctx context.Context, q *queryInfo) ([]domain.Snippet, error) {
	res, err := s.e.fetch.Get(ctx, duckduckgoEndpoint+"?q="+url.QueryEscape(q.normalized))
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, nil
	}

	var hits []searchHit
	seen := make(map[string]bool)
	for _, m := range uddgLinkRe.FindAllStringSubmatch(res.Body, -1) {
		target, err := url.QueryUnescape(m[1])
		if err != nil || seen[target] {
			continue
		}
		seen[target] = true
		hits = append(hits, searchHit{link: target})
	}
	return s.e.collectArticleSnippets(ctx, hits, q), nil
}
