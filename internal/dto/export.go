package dto

import "time"

// CreateExportRequest asks for a verification roster export.
type CreateExportRequest struct {
	Format string `json:"format" binding:"required,oneof=csv pdf"`
}

// ExportJobResponse reports the state of an export job. DownloadURL is set
// once the file is rendered.
type ExportJobResponse struct {
	ID          string     `json:"id"`
	Format      string     `json:"format"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	DownloadURL string     `json:"downloadUrl,omitempty"`
	Error       string     `json:"error,omitempty"`
}
