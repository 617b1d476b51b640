package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// FloatVector is a custom type for storing embedding vectors as JSON in the
// database. A nil vector means the chunk was indexed without an embedding
// provider configured.
type FloatVector []float32

// Value implements the driver.Valuer interface for database serialization.
func (v FloatVector) Value() (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (v *FloatVector) Scan(value interface{}) error {
	if value == nil {
		*v = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan FloatVector")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, v)
}

// ChunkMeta carries the free-form provenance metadata stored with each chunk.
type ChunkMeta struct {
	Source string `json:"source"`
	URL    string `json:"url"`
	Title  string `json:"title,omitempty"`
}

// Value implements the driver.Valuer interface for database serialization.
func (m ChunkMeta) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (m *ChunkMeta) Scan(value interface{}) error {
	if value == nil {
		*m = ChunkMeta{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan ChunkMeta")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, m)
}

// LegalChunk is one indexable window of a document's normalized text.
// A document exclusively owns its chunks; the full chunk set is replaced
// atomically whenever the document's content changes.
type LegalChunk struct {
	ID         string      `gorm:"type:text;primaryKey" json:"id"`
	DocumentID string      `gorm:"type:text;not null;index:idx_legal_chunks_document" json:"document_id"`
	ChunkIndex int         `gorm:"not null" json:"chunk_index"`
	Text       string      `gorm:"type:text;not null" json:"text"`
	Embedding  FloatVector `gorm:"type:text" json:"embedding,omitempty"`
	Meta       ChunkMeta   `gorm:"type:text" json:"meta"`
	CreatedAt  time.Time   `json:"created_at"`
}

// TableName returns the database table name for LegalChunk.
func (LegalChunk) TableName() string {
	return "legal_chunks"
}
