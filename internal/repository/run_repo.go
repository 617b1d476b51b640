package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mizanhq/mizan/internal/domain"
	"gorm.io/gorm"
)

// RunRepository handles crawl run bookkeeping.
type RunRepository struct {
	db *gorm.DB
}

// NewRunRepository creates a new RunRepository.
func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create opens a run record with status running.
func (r *RunRepository) Create(ctx context.Context) (string, error) {
	run := domain.CrawlRun{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
		Status:    domain.RunStatusRunning,
	}
	if err := r.db.WithContext(ctx).Create(&run).Error; err != nil {
		return "", fmt.Errorf("failed to create crawl run: %w", err)
	}
	return run.ID, nil
}

// Finish finalizes a run with its terminal status and accumulated counts.
// A run is finalized exactly once; a mid-run failure still produces a
// terminal record with partial counts.
func (r *RunRepository) Finish(ctx context.Context, runID string, status domain.RunStatus, pagesCrawled, documentsUpdated int, runErr error) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"finished_at":       &now,
		"status":            status,
		"pages_crawled":     pagesCrawled,
		"documents_updated": documentsUpdated,
	}
	if runErr != nil {
		msg := runErr.Error()
		updates["error"] = &msg
	}
	return r.db.WithContext(ctx).
		Model(&domain.CrawlRun{}).
		Where("id = ?", runID).
		Updates(updates).Error
}
