package domain

import "time"

// DocumentStatus represents the outcome of the most recent crawl of a document.
// Values include DocumentStatusOK, DocumentStatusError, and DocumentStatusSkipped.
type DocumentStatus string

const (
	// DocumentStatusOK means the page was fetched and its text (re)indexed.
	DocumentStatusOK DocumentStatus = "ok"
	// DocumentStatusError means the last fetch failed; Error holds the message.
	DocumentStatusError DocumentStatus = "error"
	// DocumentStatusSkipped means the content hash was unchanged and the
	// existing chunk set was left untouched.
	DocumentStatusSkipped DocumentStatus = "skipped"
)

// LegalDocument is one crawled legal-source page, identified by (source, url).
// ContentText and ContentHash are nil for non-indexable artifacts such as
// sitemaps. The crawler updates the record in place on every re-crawl and
// never deletes it.
type LegalDocument struct {
	ID           string         `gorm:"type:text;primaryKey" json:"id"`
	Source       string         `gorm:"type:text;not null;index:idx_legal_documents_source_url,unique" json:"source"`
	URL          string         `gorm:"type:text;not null;index:idx_legal_documents_source_url,unique" json:"url"`
	Title        *string        `gorm:"type:text" json:"title,omitempty"`
	ContentText  *string        `gorm:"type:text" json:"content_text,omitempty"`
	ContentHash  *string        `gorm:"type:text;index:idx_legal_documents_hash" json:"content_hash,omitempty"`
	HTTPStatus   int            `json:"http_status"`
	ETag         string         `gorm:"type:text" json:"etag,omitempty"`
	LastModified string         `gorm:"type:text" json:"last_modified,omitempty"`
	FetchedAt    time.Time      `json:"fetched_at"`
	Status       DocumentStatus `gorm:"type:text;index:idx_legal_documents_status;default:ok" json:"status"`
	Error        *string        `gorm:"type:text" json:"error,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// TableName returns the database table name for LegalDocument.
func (LegalDocument) TableName() string {
	return "legal_documents"
}
