// Package repository persists legal documents, chunks, and crawl runs.
package repository

import (
	"context"
	"time"

	"github.com/mizanhq/mizan/internal/domain"
	"gorm.io/gorm"
)

// DocumentFields carries the attributes written on every (re)crawl of a
// document. The crawler composes them; the store writes them verbatim, so
// preserving a skipped document's previous content is the caller's job.
type DocumentFields struct {
	Title        *string
	ContentText  *string
	ContentHash  *string
	HTTPStatus   int
	ETag         string
	LastModified string
	FetchedAt    time.Time
	Status       domain.DocumentStatus
	Error        *string
}

// ChunkInput is one chunk of a document's new chunk set.
type ChunkInput struct {
	Index     int
	Text      string
	Embedding domain.FloatVector
	Meta      domain.ChunkMeta
}

// Stats aggregates corpus counters for the stats endpoint.
type Stats struct {
	Documents        int64            `json:"documents"`
	DocumentsByState map[string]int64 `json:"documents_by_status"`
	Chunks           int64            `json:"chunks"`
	EmbeddedChunks   int64            `json:"embedded_chunks"`
	LastRun          *domain.CrawlRun `json:"last_run,omitempty"`
}

// Store is the persistence interface the crawler writes and the retrieval
// engine reads. The crawler is its only writer.
type Store interface {
	// UpsertDocument creates or updates the document identified by
	// (source, url) and returns its ID.
	UpsertDocument(ctx context.Context, source, url string, fields DocumentFields) (string, error)
	// GetDocument returns the document for (source, url), or nil when absent.
	GetDocument(ctx context.Context, source, url string) (*domain.LegalDocument, error)
	// ReplaceChunks atomically swaps the full chunk set of a document.
	ReplaceChunks(ctx context.Context, documentID string, chunks []ChunkInput) error
	// ListChunksWithEmbeddings returns up to limit chunks that carry a
	// stored embedding, in stable scan order.
	ListChunksWithEmbeddings(ctx context.Context, limit int) ([]domain.LegalChunk, error)
	// ListChunksByKeyword returns up to limit chunks whose text contains
	// any of the given terms, in stable scan order.
	ListChunksByKeyword(ctx context.Context, terms []string, limit int) ([]domain.LegalChunk, error)
	// CreateRun opens a crawl run record with status running.
	CreateRun(ctx context.Context) (string, error)
	// FinishRun finalizes a run exactly once with its terminal status and
	// whatever counts were accumulated.
	FinishRun(ctx context.Context, runID string, status domain.RunStatus, pagesCrawled, documentsUpdated int, runErr error) error
	// Stats returns corpus counters.
	Stats(ctx context.Context) (*Stats, error)
}

// GormStore implements Store on a relational database through GORM.
type GormStore struct {
	documents *DocumentRepository
	chunks    *ChunkRepository
	runs      *RunRepository
	db        *gorm.DB
}

// NewGormStore creates a GormStore bound to db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		documents: NewDocumentRepository(db),
		chunks:    NewChunkRepository(db),
		runs:      NewRunRepository(db),
		db:        db,
	}
}

func (s *GormStore) UpsertDocument(ctx context.Context, source, url string, fields DocumentFields) (string, error) {
	return s.documents.Upsert(ctx, source, url, fields)
}

func (s *GormStore) GetDocument(ctx context.Context, source, url string) (*domain.LegalDocument, error) {
	return s.documents.GetBySourceURL(ctx, source, url)
}

func (s *GormStore) ReplaceChunks(ctx context.Context, documentID string, chunks []ChunkInput) error {
	return s.chunks.Replace(ctx, documentID, chunks)
}

func (s *GormStore) ListChunksWithEmbeddings(ctx context.Context, limit int) ([]domain.LegalChunk, error) {
	return s.chunks.ListWithEmbeddings(ctx, limit)
}

func (s *GormStore) ListChunksByKeyword(ctx context.Context, terms []string, limit int) ([]domain.LegalChunk, error) {
	return s.chunks.ListByKeyword(ctx, terms, limit)
}

func (s *GormStore) CreateRun(ctx context.Context) (string, error) {
	return s.runs.Create(ctx)
}

func (s *GormStore) FinishRun(ctx context.Context, runID string, status domain.RunStatus, pagesCrawled, documentsUpdated int, runErr error) error {
	return s.runs.Finish(ctx, runID, status, pagesCrawled, documentsUpdated, runErr)
}

func (s *GormStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{DocumentsByState: make(map[string]int64)}

	if err := s.db.WithContext(ctx).Model(&domain.LegalDocument{}).Count(&stats.Documents).Error; err != nil {
		return nil, err
	}
	for _, status := range []domain.DocumentStatus{domain.DocumentStatusOK, domain.DocumentStatusError, domain.DocumentStatusSkipped} {
		var n int64
		if err := s.db.WithContext(ctx).Model(&domain.LegalDocument{}).Where("status = ?", status).Count(&n).Error; err != nil {
			return nil, err
		}
		stats.DocumentsByState[string(status)] = n
	}
	if err := s.db.WithContext(ctx).Model(&domain.LegalChunk{}).Count(&stats.Chunks).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&domain.LegalChunk{}).Where("embedding IS NOT NULL").Count(&stats.EmbeddedChunks).Error; err != nil {
		return nil, err
	}

	var run domain.CrawlRun
	err := s.db.WithContext(ctx).Order("started_at DESC").First(&run).Error
	switch {
	case err == nil:
		stats.LastRun = &run
	case err != gorm.ErrRecordNotFound:
		return nil, err
	}
	return stats, nil
}
