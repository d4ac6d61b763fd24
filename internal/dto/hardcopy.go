package dto

import "github.com/noah-isme/tutor-verify-api/internal/models"

// HardcopyDecisionRequest captures the staff decision on a hardcopy request.
type HardcopyDecisionRequest struct {
	Decision   string `json:"decision" binding:"required,oneof=Approve Reject" validate:"required,oneof=Approve Reject"`
	StaffNotes string `json:"staffNotes"`
}

// HardcopyListItem joins a request with its application and tutor for the
// staff review queue.
type HardcopyListItem struct {
	models.HardcopyRequest
	Application *models.TutorApplication `json:"application,omitempty"`
	Tutor       *models.Tutor            `json:"tutor,omitempty"`
}

// HardcopyDecisionResponse reports the decided request and any cascades.
type HardcopyDecisionResponse struct {
	Request     models.HardcopyRequest   `json:"request"`
	Application *models.TutorApplication `json:"application,omitempty"`
	Tutor       *models.Tutor            `json:"tutor,omitempty"`
}
