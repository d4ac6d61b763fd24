package dto

import "github.com/noah-isme/tutor-verify-api/internal/models"

// DocumentFilePayload names one file in a simulated upload.
type DocumentFilePayload struct {
	FileName string `json:"fileName" binding:"required" validate:"required"`
}

// UploadDocumentRequest submits credential files against an application.
// StaffID present marks staff-uploaded hardcopy evidence.
type UploadDocumentRequest struct {
	Description        string                `json:"description" binding:"required" validate:"required"`
	IsVisibleToLearner bool                  `json:"isVisibleToLearner"`
	StaffID            string                `json:"staffId"`
	Files              []DocumentFilePayload `json:"files" binding:"required,min=1,dive" validate:"required,min=1,dive"`
}

// UploadDocumentResponse reports the stored document and, when the upload
// re-opened a revision-requested application, the updated application.
type UploadDocumentResponse struct {
	Document    models.Document          `json:"document"`
	Application *models.TutorApplication `json:"application,omitempty"`
}
