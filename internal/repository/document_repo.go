package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mizanhq/mizan/internal/domain"
	"gorm.io/gorm"
)

// DocumentRepository handles legal document data operations.
type DocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new DocumentRepository.
// Parameters:
//   - db: GORM database handle used for queries.
//
// Returns:
//   - *DocumentRepository: repository instance bound to db.
func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Upsert creates or updates the document keyed by (source, url) and returns
// its ID. All fields are written verbatim; nil pointers become NULL.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - source: short source tag (e.g. board-of-experts).
//   - url: page URL.
//   - fields: attributes from the latest crawl.
//
// Returns:
//   - string: document ID.
//   - error: non-nil if the upsert fails.
func (r *DocumentRepository) Upsert(ctx context.Context, source, url string, fields DocumentFields) (string, error) {
	var doc domain.LegalDocument
	err := r.db.WithContext(ctx).First(&doc, "source = ? AND url = ?", source, url).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		doc = domain.LegalDocument{
			ID:     uuid.New().String(),
			Source: source,
			URL:    url,
		}
	case err != nil:
		return "", fmt.Errorf("failed to look up document: %w", err)
	}

	doc.Title = fields.Title
	doc.ContentText = fields.ContentText
	doc.ContentHash = fields.ContentHash
	doc.HTTPStatus = fields.HTTPStatus
	doc.ETag = fields.ETag
	doc.LastModified = fields.LastModified
	doc.FetchedAt = fields.FetchedAt
	doc.Status = fields.Status
	doc.Error = fields.Error

	if err := r.db.WithContext(ctx).Save(&doc).Error; err != nil {
		return "", fmt.Errorf("failed to upsert document: %w", err)
	}
	return doc.ID, nil
}

// GetBySourceURL retrieves a document by its (source, url) identity.
// Returns nil without error when the document does not exist.
func (r *DocumentRepository) GetBySourceURL(ctx context.Context, source, url string) (*domain.LegalDocument, error) {
	var doc domain.LegalDocument
	err := r.db.WithContext(ctx).First(&doc, "source = ? AND url = ?", source, url).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
