// Package crawler discovers and fetches legal-source web pages, converts
// them into deduplicated, versioned text chunks, and keeps run bookkeeping.
package crawler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
	"unicode/utf8"

	"github.com/mizanhq/mizan/internal/arabic"
	"github.com/mizanhq/mizan/internal/chunker"
	"github.com/mizanhq/mizan/internal/domain"
	"github.com/mizanhq/mizan/internal/embedding"
	"github.com/mizanhq/mizan/internal/fetcher"
	"github.com/mizanhq/mizan/internal/logger"
	"github.com/mizanhq/mizan/internal/repository"
)

// maxNestedSitemaps bounds one-level recursion into a sitemap index.
const maxNestedSitemaps = 5

// Config holds crawler tuning. The delays are politeness throttles against
// the target sites; a run is sequential by design.
type Config struct {
	Seeds          []string
	MaxPagesPerRun int

	DiscoveryDelay  time.Duration
	PageDelay       time.Duration
	EmbedBatchDelay time.Duration

	// MinIndexChars is the minimum extracted-text length worth chunking.
	MinIndexChars int

	MaxChunkChars  int
	ChunkOverlap   int
	EmbedBatchSize int
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.MaxPagesPerRun <= 0 {
		out.MaxPagesPerRun = 40
	}
	if out.DiscoveryDelay <= 0 {
		out.DiscoveryDelay = 500 * time.Millisecond
	}
	if out.PageDelay <= 0 {
		out.PageDelay = 800 * time.Millisecond
	}
	if out.EmbedBatchDelay <= 0 {
		out.EmbedBatchDelay = 300 * time.Millisecond
	}
	if out.MinIndexChars <= 0 {
		out.MinIndexChars = 100
	}
	if out.MaxChunkChars <= 0 {
		out.MaxChunkChars = chunker.DefaultMaxChars
	}
	if out.ChunkOverlap <= 0 {
		out.ChunkOverlap = chunker.DefaultOverlapChars
	}
	if out.EmbedBatchSize <= 0 {
		out.EmbedBatchSize = 32
	}
	return out
}

// Crawler runs the discover → fetch → classify → dedup → index pipeline.
type Crawler struct {
	store    repository.Store
	fetch    fetcher.Client
	embedder embedding.Provider
	cfg      Config
}

// New creates a Crawler. embedder may be nil, which indexes chunks without
// embeddings.
// Parameters:
//   - store: document/chunk/run persistence.
//   - fetch: HTTP client.
//   - embedder: embedding provider, or nil to disable embeddings.
//   - cfg: crawler tuning.
//
// Returns:
//   - *Crawler: initialized crawler.
func New(store repository.Store, fetch fetcher.Client, embedder embedding.Provider, cfg Config) *Crawler {
	return &Crawler{
		store:    store,
		fetch:    fetch,
		embedder: embedder,
		cfg:      cfg.withDefaults(),
	}
}

// RunStats summarizes one crawl run.
type RunStats struct {
	RunID            string
	PagesCrawled     int
	DocumentsUpdated int
}

// Run executes one crawl: a CrawlRun record brackets the whole operation
// and is finalized exactly once, with partial counts on failure. Per-page
// errors are persisted on the document and do not abort the run.
func (c *Crawler) Run(ctx context.Context) (*RunStats, error) {
	runID, err := c.store.CreateRun(ctx)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldComponent: "crawler",
		logger.FieldRunID:     runID,
	})
	logger.CtxInfo(ctx, "Crawl run started: seeds=%d, max_pages=%d", len(c.cfg.Seeds), c.cfg.MaxPagesPerRun)

	stats := &RunStats{RunID: runID}
	runErr := c.crawl(ctx, stats)

	status := domain.RunStatusSuccess
	if runErr != nil {
		status = domain.RunStatusError
		logger.CtxError(ctx, "Crawl run aborted: pages=%d, updated=%d, error=%v",
			stats.PagesCrawled, stats.DocumentsUpdated, runErr)
	} else {
		logger.CtxInfo(ctx, "Crawl run finished: pages=%d, updated=%d",
			stats.PagesCrawled, stats.DocumentsUpdated)
	}

	if err := c.store.FinishRun(ctx, runID, status, stats.PagesCrawled, stats.DocumentsUpdated, runErr); err != nil {
		logger.CtxError(ctx, "Failed to finalize crawl run: error=%v", err)
		if runErr == nil {
			runErr = err
		}
	}
	return stats, runErr
}

func (c *Crawler) crawl(ctx context.Context, stats *RunStats) error {
	urls, err := c.discover(ctx)
	if err != nil {
		return err
	}

	for _, pageURL := range urls {
		if err := ctx.Err(); err != nil {
			return err
		}
		if stats.PagesCrawled >= c.cfg.MaxPagesPerRun {
			break
		}
		if err := c.processPage(ctx, pageURL, stats); err != nil {
			return err
		}
		stats.PagesCrawled++
		if err := sleep(ctx, c.cfg.PageDelay); err != nil {
			return err
		}
	}
	return nil
}

// discover expands the configured seeds into the set of page URLs for this
// run: sitemap seeds contribute their <loc> entries (one level of sitemap
// index recursion, throttled), direct-page seeds contribute themselves plus
// their same-host links. Duplicates are suppressed and the page budget caps
// the set.
func (c *Crawler) discover(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var urls []string

	add := func(u string) bool {
		if len(urls) >= c.cfg.MaxPagesPerRun {
			return false
		}
		if u == "" || seen[u] {
			return true
		}
		seen[u] = true
		urls = append(urls, u)
		return true
	}

	for _, seed := range c.cfg.Seeds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(urls) >= c.cfg.MaxPagesPerRun {
			break
		}

		res, err := c.fetch.Get(ctx, seed)
		if err != nil {
			logger.CtxWarn(ctx, "Seed fetch failed: url=%s, error=%v", seed, err)
			continue
		}

		if IsXMLArtifact(res.ContentType, res.Body) {
			if IsSitemapIndex(res.Body) {
				nested := SitemapLocs(res.Body)
				if len(nested) > maxNestedSitemaps {
					nested = nested[:maxNestedSitemaps]
				}
				for _, sitemapURL := range nested {
					if err := sleep(ctx, c.cfg.DiscoveryDelay); err != nil {
						return nil, err
					}
					child, err := c.fetch.Get(ctx, sitemapURL)
					if err != nil {
						logger.CtxWarn(ctx, "Nested sitemap fetch failed: url=%s, error=%v", sitemapURL, err)
						continue
					}
					for _, loc := range SitemapLocs(child.Body) {
						if !add(loc) {
							break
						}
					}
				}
			} else {
				for _, loc := range SitemapLocs(res.Body) {
					if !add(loc) {
						break
					}
				}
			}
		} else {
			// Direct page: index it and follow its same-host links.
			add(seed)
			for _, link := range ParsePage(seed, res.Body).Links {
				if !add(link) {
					break
				}
			}
		}

		if err := sleep(ctx, c.cfg.DiscoveryDelay); err != nil {
			return nil, err
		}
	}

	logger.CtxInfo(ctx, "Discovery complete: candidates=%d", len(urls))
	return urls, nil
}

// processPage fetches, classifies, and indexes one URL. Fetch failures are
// recorded on the document and are not fatal to the run.
func (c *Crawler) processPage(ctx context.Context, pageURL string, stats *RunStats) error {
	source := InferSource(pageURL)
	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldSource: source,
		logger.FieldURL:    pageURL,
	})

	now := time.Now().UTC()

	res, err := c.fetch.Get(ctx, pageURL)
	if err != nil || !res.OK() {
		msg := "fetch failed"
		status := 0
		var etag, lastModified string
		if res != nil {
			status = res.StatusCode
			etag = res.ETag
			lastModified = res.LastModified
			msg = "unexpected HTTP status"
		}
		if err != nil {
			msg = err.Error()
		}
		logger.CtxWarn(ctx, "Page fetch failed: status=%d, error=%s", status, msg)
		_, upsertErr := c.store.UpsertDocument(ctx, source, pageURL, repository.DocumentFields{
			HTTPStatus:   status,
			ETag:         etag,
			LastModified: lastModified,
			FetchedAt:    now,
			Status:       domain.DocumentStatusError,
			Error:        &msg,
		})
		return upsertErr
	}

	if IsXMLArtifact(res.ContentType, res.Body) {
		// Sitemap-style artifacts are tracked but never indexed.
		_, err := c.store.UpsertDocument(ctx, source, pageURL, repository.DocumentFields{
			HTTPStatus:   res.StatusCode,
			ETag:         res.ETag,
			LastModified: res.LastModified,
			FetchedAt:    now,
			Status:       domain.DocumentStatusOK,
		})
		return err
	}

	parsed := ParsePage(pageURL, res.Body)
	plainText := arabic.StripHTML(res.Body)
	hash := contentHash(plainText)

	var title *string
	if parsed.Title != "" {
		title = &parsed.Title
	}

	prior, err := c.store.GetDocument(ctx, source, pageURL)
	if err != nil {
		return err
	}
	if prior != nil && prior.ContentHash != nil && *prior.ContentHash == hash {
		// Unchanged content: refresh metadata only, keep chunks untouched.
		logger.CtxDebug(ctx, "Content unchanged, skipping reindex")
		_, err := c.store.UpsertDocument(ctx, source, pageURL, repository.DocumentFields{
			Title:        prior.Title,
			ContentText:  prior.ContentText,
			ContentHash:  prior.ContentHash,
			HTTPStatus:   res.StatusCode,
			ETag:         res.ETag,
			LastModified: res.LastModified,
			FetchedAt:    now,
			Status:       domain.DocumentStatusSkipped,
		})
		return err
	}

	docID, err := c.store.UpsertDocument(ctx, source, pageURL, repository.DocumentFields{
		Title:        title,
		ContentText:  &plainText,
		ContentHash:  &hash,
		HTTPStatus:   res.StatusCode,
		ETag:         res.ETag,
		LastModified: res.LastModified,
		FetchedAt:    now,
		Status:       domain.DocumentStatusOK,
	})
	if err != nil {
		return err
	}

	if utf8.RuneCountInString(plainText) <= c.cfg.MinIndexChars {
		// Too thin to index: the content changed, so the old chunks go too.
		return c.store.ReplaceChunks(ctx, docID, nil)
	}

	chunks, err := c.buildChunks(ctx, source, pageURL, parsed.Title, plainText)
	if err != nil {
		return err
	}
	if err := c.store.ReplaceChunks(ctx, docID, chunks); err != nil {
		return err
	}
	stats.DocumentsUpdated++
	logger.CtxInfo(ctx, "Document indexed: chunks=%d", len(chunks))
	return nil
}

// buildChunks windows the text and attaches embeddings in bounded batches.
// Embedding failures degrade to unembedded chunks rather than failing the
// page.
func (c *Crawler) buildChunks(ctx context.Context, source, pageURL, title, text string) ([]repository.ChunkInput, error) {
	pieces := chunker.ChunkText(text, c.cfg.MaxChunkChars, c.cfg.ChunkOverlap)
	meta := domain.ChunkMeta{Source: source, URL: pageURL, Title: title}

	chunks := make([]repository.ChunkInput, len(pieces))
	for i, piece := range pieces {
		chunks[i] = repository.ChunkInput{Index: i, Text: piece, Meta: meta}
	}

	if c.embedder == nil {
		return chunks, nil
	}

	for start := 0; start < len(pieces); start += c.cfg.EmbedBatchSize {
		end := start + c.cfg.EmbedBatchSize
		if end > len(pieces) {
			end = len(pieces)
		}
		vectors, err := c.embedder.EmbedTexts(ctx, pieces[start:end])
		if err != nil {
			logger.CtxWarn(ctx, "Embedding batch failed, indexing without vectors: error=%v", err)
			return chunks, nil
		}
		for i, v := range vectors {
			chunks[start+i].Embedding = v
		}
		if end < len(pieces) {
			if err := sleep(ctx, c.cfg.EmbedBatchDelay); err != nil {
				return nil, err
			}
		}
	}
	return chunks, nil
}

func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
