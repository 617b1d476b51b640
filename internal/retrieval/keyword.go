package retrieval

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mizanhq/mizan/internal/domain"
)

// maxQueryTokens caps how many free-text tokens feed the keyword prefilter.
const maxQueryTokens = 8

// keywordStrategy matches chunks by substring containment of terms derived
// from the query: the cited article in both digit and ordinal forms, a
// colloquialism expansion, and the query's own tokens. Chunks are ranked by
// how many distinct terms they contain.
type keywordStrategy struct {
	e *Engine
}

func (s *keywordStrategy) name() string { return "keyword" }

func (s *keywordStrategy) search(ctx context.Context, q *queryInfo) ([]domain.Snippet, error) {
	terms := keywordTerms(q)
	if len(terms) == 0 {
		return nil, nil
	}

	chunks, err := s.e.store.ListChunksByKeyword(ctx, terms, s.e.cfg.ScanLimit)
	if err != nil {
		return nil, err
	}

	var snippets []domain.Snippet
	for _, chunk := range chunks {
		matched := 0
		for _, term := range terms {
			if strings.Contains(chunk.Text, term) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		snippets = append(snippets, domain.Snippet{
			Text:   chunk.Text,
			Score:  float64(matched),
			Source: chunk.Meta.Source,
			URL:    chunk.Meta.URL,
			Title:  chunk.Meta.Title,
		})
	}

	sort.SliceStable(snippets, func(i, j int) bool {
		return snippets[i].Score > snippets[j].Score
	})
	if len(snippets) > s.e.cfg.TopK {
		snippets = snippets[:s.e.cfg.TopK]
	}
	return snippets, nil
}

// keywordTerms builds the distinct term set for one query. Article citations
// contribute the "المادة N" form, the gazette ordinal form, and the bare
// number; "مكتب العمل" is a common colloquialism for matters governed by
// the labor law, so it pulls that law's name in.
func keywordTerms(q *queryInfo) []string {
	var terms []string
	seen := make(map[string]bool)
	add := func(t string) {
		if t != "" && !seen[t] {
			seen[t] = true
			terms = append(terms, t)
		}
	}

	if q.hasArticle {
		num := strconv.Itoa(q.articleNum)
		add("المادة " + num)
		if q.label != "" {
			add("المادة " + q.label)
		}
		add(num)
	}

	if strings.Contains(q.normalized, "مكتب العمل") {
		add("نظام العمل")
	}

	tokens := 0
	for _, token := range strings.Fields(q.normalized) {
		if tokens >= maxQueryTokens {
			break
		}
		if utf8.RuneCountInString(token) < 3 {
			continue
		}
		add(token)
		tokens++
	}
	return terms
}
