package domain

import "time"

// RunStatus represents the status of a crawl run.
// Values include RunStatusRunning, RunStatusSuccess, and RunStatusError.
type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusError   RunStatus = "error"
)

// CrawlRun brackets one crawler invocation. A record is created with status
// running when the run starts and finalized exactly once at the end, even if
// the run aborts mid-way with partial counts.
type CrawlRun struct {
	ID               string     `gorm:"type:text;primaryKey" json:"id"`
	StartedAt        time.Time  `json:"started_at"`
	FinishedAt       *time.Time `json:"finished_at,omitempty"`
	Status           RunStatus  `gorm:"type:text;index:idx_crawl_runs_status;default:running" json:"status"`
	PagesCrawled     int        `gorm:"default:0" json:"pages_crawled"`
	DocumentsUpdated int        `gorm:"default:0" json:"documents_updated"`
	Error            *string    `gorm:"type:text" json:"error,omitempty"`
}

// TableName returns the database table name for CrawlRun.
func (CrawlRun) TableName() string {
	return "crawl_runs"
}
