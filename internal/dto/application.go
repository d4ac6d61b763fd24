package dto

import "github.com/noah-isme/tutor-verify-api/internal/models"

// ApplicationDecisionRequest captures a staff review action on an application.
type ApplicationDecisionRequest struct {
	Decision      string `json:"decision" binding:"required,oneof=ApproveUpload RequestRevision ApproveHardcopy" validate:"required,oneof=ApproveUpload RequestRevision ApproveHardcopy"`
	RevisionNotes string `json:"revisionNotes"`
	InternalNotes string `json:"internalNotes"`
}

// ApplicationQuery mirrors supported listing filters.
type ApplicationQuery struct {
	Status  []models.ApplicationStatus
	TutorID string
}

// ApplicationListItem joins an application with its owning tutor for staff
// review screens.
type ApplicationListItem struct {
	models.TutorApplication
	Tutor *models.Tutor `json:"tutor,omitempty"`
}

// ApplicationDetail joins everything a review screen needs in one read.
type ApplicationDetail struct {
	Application     models.TutorApplication `json:"application"`
	Tutor           *models.Tutor           `json:"tutor,omitempty"`
	Documents       []models.Document       `json:"documents"`
	HardcopyRequest *models.HardcopyRequest `json:"hardcopyRequest,omitempty"`
}

// DecisionResponse reports the applied decision and any cascaded tutor update.
type DecisionResponse struct {
	Application models.TutorApplication `json:"application"`
	Tutor       *models.Tutor           `json:"tutor,omitempty"`
}
