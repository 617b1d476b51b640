// Package retrieval answers legal questions from the indexed corpus,
// cascading through cheaper tiers first: vector similarity, then keyword
// matching, then live-web fallbacks, then a static article cache. When the
// query asks for the literal text of a cited article, a tier's top result
// must pass the citation gate before the tier is accepted.
package retrieval

import (
	"context"
	"strings"

	"github.com/mizanhq/mizan/internal/arabic"
	"github.com/mizanhq/mizan/internal/domain"
	"github.com/mizanhq/mizan/internal/embedding"
	"github.com/mizanhq/mizan/internal/fetcher"
	"github.com/mizanhq/mizan/internal/logger"
	"github.com/mizanhq/mizan/internal/repository"
)

// Config holds retrieval tuning. Zero values fall back to defaults; the
// provider keys enable their respective live-web tiers.
type Config struct {
	TopK      int
	ScanLimit int

	// VectorThreshold is the cosine floor below which a vector hit is noise.
	VectorThreshold float64

	SerperAPIKey   string
	GoogleAPIKey   string
	GoogleEngineID string
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.TopK <= 0 {
		out.TopK = 6
	}
	if out.ScanLimit <= 0 {
		out.ScanLimit = 400
	}
	if out.VectorThreshold <= 0 {
		out.VectorThreshold = 0.2
	}
	return out
}

// Engine runs the retrieval cascade over a chunk store, an HTTP client for
// the live-web tiers, and an optional embedding provider.
type Engine struct {
	store    repository.Store
	fetch    fetcher.Client
	embedder embedding.Provider
	cfg      Config
}

// New creates an Engine. embedder may be nil, which disables the vector
// tier.
// Parameters:
//   - store: chunk persistence to search.
//   - fetch: HTTP client for the live-web tiers.
//   - embedder: embedding provider, or nil.
//   - cfg: retrieval tuning.
//
// Returns:
//   - *Engine: initialized engine.
func New(store repository.Store, fetch fetcher.Client, embedder embedding.Provider, cfg Config) *Engine {
	return &Engine{
		store:    store,
		fetch:    fetch,
		embedder: embedder,
		cfg:      cfg.withDefaults(),
	}
}

// queryInfo is the parsed form of a user query shared by all tiers.
type queryInfo struct {
	raw        string
	normalized string

	articleNum int
	hasArticle bool
	// label is the gazette ordinal form of articleNum, when one exists.
	label string
	// wantsText marks queries asking for the literal article wording,
	// which unlocks the live-web tiers.
	wantsText bool
}

func analyzeQuery(raw string) *queryInfo {
	normalized := arabic.NormalizeDigits(strings.TrimSpace(raw))
	q := &queryInfo{raw: raw, normalized: normalized}
	if n, ok := arabic.ExtractArticleNumber(normalized); ok {
		q.articleNum = n
		q.hasArticle = true
		if label, ok := arabic.ArticleLabelBoeStyle(n); ok {
			q.label = label
		}
	}
	q.wantsText = arabic.IsArticleTextQuery(normalized)
	return q
}

// strategy is one tier of the cascade.
type strategy interface {
	name() string
	search(ctx context.Context, q *queryInfo) ([]domain.Snippet, error)
}

func (e *Engine) strategies(q *queryInfo) []strategy {
	tiers := []strategy{}
	if e.embedder != nil {
		tiers = append(tiers, &vectorStrategy{e})
	}
	tiers = append(tiers, &keywordStrategy{e})

	// The live-web tiers are expensive and noisy, so they only run when
	// the user asks for the literal text of a cited article.
	if q.wantsText && q.hasArticle && e.fetch != nil {
		if e.cfg.SerperAPIKey != "" {
			tiers = append(tiers, &serperStrategy{e})
		}
		tiers = append(tiers, &gazetteStrategy{e})
		if e.cfg.GoogleAPIKey != "" && e.cfg.GoogleEngineID != "" {
			tiers = append(tiers, &googleStrategy{e})
		}
		tiers = append(tiers, &scrapeStrategy{e})
	}

	tiers = append(tiers, &staticStrategy{e})
	return tiers
}

// Search runs the cascade and returns the first tier's accepted snippets.
// It never returns an error: tier failures are logged and the cascade
// continues. An empty or whitespace query yields an empty result.
func (e *Engine) Search(ctx context.Context, query string) []domain.Snippet {
	q := analyzeQuery(query)
	if q.normalized == "" {
		return []domain.Snippet{}
	}

	ctx = logger.WithField(ctx, logger.FieldComponent, "retrieval")

	for _, tier := range e.strategies(q) {
		tierCtx := logger.WithField(ctx, logger.FieldTier, tier.name())

		results, err := tier.search(tierCtx, q)
		if err != nil {
			logger.CtxWarn(tierCtx, "Retrieval tier failed: error=%v", err)
			continue
		}
		accepted := e.gate(tierCtx, q, results)
		if len(accepted) > 0 {
			logger.CtxInfo(tierCtx, "Retrieval tier answered: snippets=%d", len(accepted))
			return accepted
		}
	}

	logger.CtxInfo(ctx, "Retrieval exhausted all tiers without a result")
	return []domain.Snippet{}
}

// gate applies only when the query asks for the literal text of a cited
// article: the tier's top candidate must contain that article, and the
// tier's whole ranked list stands or falls with it. Queries that merely
// mention an article number pass through ungated. Rejections are logged so
// threshold tuning has evidence.
func (e *Engine) gate(ctx context.Context, q *queryInfo, snippets []domain.Snippet) []domain.Snippet {
	if !q.wantsText || !q.hasArticle || len(snippets) == 0 {
		return snippets
	}
	if arabic.LooksLikeRequestedArticleText(snippets[0].Text, q.articleNum, q.label) {
		return snippets
	}
	logger.CtxDebug(ctx, "Citation gate rejected tier: article=%d, candidates=%d",
		q.articleNum, len(snippets))
	return nil
}
