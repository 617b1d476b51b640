package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mizanhq/mizan/internal/domain"
	"gorm.io/gorm"
)

// ChunkRepository handles chunk data operations.
type ChunkRepository struct {
	db *gorm.DB
}

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(db *gorm.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

// Replace atomically swaps the full chunk set of a document inside one
// transaction. Chunk lists are never partially updated; an empty input
// leaves the document with no chunks.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - documentID: owning document ID.
//   - chunks: new chunk set, ordered by index.
//
// Returns:
//   - error: non-nil if the swap fails; the previous set is kept intact.
func (r *ChunkRepository) Replace(ctx context.Context, documentID string, chunks []ChunkInput) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.LegalChunk{}, "document_id = ?", documentID).Error; err != nil {
			return fmt.Errorf("failed to delete old chunks: %w", err)
		}
		if len(chunks) == 0 {
			return nil
		}
		rows := make([]domain.LegalChunk, len(chunks))
		for i, c := range chunks {
			rows[i] = domain.LegalChunk{
				ID:         uuid.New().String(),
				DocumentID: documentID,
				ChunkIndex: c.Index,
				Text:       c.Text,
				Embedding:  c.Embedding,
				Meta:       c.Meta,
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to insert chunks: %w", err)
		}
		return nil
	})
}

// ListWithEmbeddings returns up to limit chunks holding a stored embedding,
// in stable creation order for deterministic tie-breaking upstream.
func (r *ChunkRepository) ListWithEmbeddings(ctx context.Context, limit int) ([]domain.LegalChunk, error) {
	var chunks []domain.LegalChunk
	if err := r.db.WithContext(ctx).
		Where("embedding IS NOT NULL").
		Order("created_at, chunk_index").
		Limit(limit).
		Find(&chunks).Error; err != nil {
		return nil, err
	}
	return chunks, nil
}

// ListByKeyword returns up to limit chunks whose text contains any of the
// given terms. Term scoring happens upstream; this is just the scan
// prefilter bounding cost.
func (r *ChunkRepository) ListByKeyword(ctx context.Context, terms []string, limit int) ([]domain.LegalChunk, error) {
	var clean []string
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	if len(clean) == 0 {
		return nil, nil
	}

	query := r.db.WithContext(ctx).Model(&domain.LegalChunk{})
	cond := r.db.Where("text LIKE ?", "%"+clean[0]+"%")
	for _, t := range clean[1:] {
		cond = cond.Or("text LIKE ?", "%"+t+"%")
	}

	var chunks []domain.LegalChunk
	if err := query.Where(cond).
		Order("created_at, chunk_index").
		Limit(limit).
		Find(&chunks).Error; err != nil {
		return nil, err
	}
	return chunks, nil
}
