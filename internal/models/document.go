package models

import "time"

// DocumentFileUpload is a single uploaded file attached to a document.
// Uploads are simulated: FileURL points at a placeholder, not real storage.
type DocumentFileUpload struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	FileURL    string    `json:"fileUrl"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Document groups credential files submitted against an application.
// Documents are append-only: there is no update or delete operation.
// StaffID present means staff-uploaded hardcopy evidence, absent means
// tutor-uploaded.
type Document struct {
	ID                  string               `json:"id"`
	ApplicationID       string               `json:"applicationId"`
	StaffID             *string              `json:"staffId,omitempty"`
	Description         string               `json:"description"`
	IsVisibleToLearner  bool                 `json:"isVisibleToLearner"`
	DocumentFileUploads []DocumentFileUpload `json:"documentFileUploads"`
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	clone := d
	clone.DocumentFileUploads = append([]DocumentFileUpload(nil), d.DocumentFileUploads...)
	if d.StaffID != nil {
		id := *d.StaffID
		clone.StaffID = &id
	}
	return clone
}
