package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusIndexed    DocumentStatus = "indexed"
	StatusFailed     DocumentStatus = "failed"
)

// Document is an uploaded park knowledge document tracked through the
// ingestion pipeline. Once indexed its chunks are immutable; re-uploading
// replaces them wholesale.
type Document struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	MimeType    string         `json:"mime_type"`
	StoragePath string         `json:"storage_path"`
	SourceTag   string         `json:"source_tag"`
	Title       string         `json:"title,omitempty"`
	ChunkCount  int            `json:"chunk_count,omitempty"`
	Status      DocumentStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
