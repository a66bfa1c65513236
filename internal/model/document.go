package model

import "time"

// Document is the metadata row for a file held in object storage. The binary
// itself lives under ObjectKey in the configured bucket.
type Document struct {
	ID          int       `json:"id"`
	ProjectID   int       `json:"project_id"`
	Filename    string    `json:"filename"`
	ObjectKey   string    `json:"object_key"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedBy  int       `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}
