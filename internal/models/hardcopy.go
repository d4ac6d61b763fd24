package models

import "time"

// HardcopyRequestStatus captures the review state of a hardcopy confirmation.
// Approved and Rejected are terminal.
type HardcopyRequestStatus string

const (
	HardcopyStatusPending  HardcopyRequestStatus = "Pending"
	HardcopyStatusApproved HardcopyRequestStatus = "Approved"
	HardcopyStatusRejected HardcopyRequestStatus = "Rejected"
)

// HardcopyDecision enumerates staff actions on a hardcopy request.
type HardcopyDecision string

const (
	HardcopyDecisionApprove HardcopyDecision = "Approve"
	HardcopyDecisionReject  HardcopyDecision = "Reject"
)

// HardcopyRequest is a tutor's declaration that notarized physical documents
// were mailed. Staff approval upgrades the verification tier to the highest
// level. An application carries at most one non-terminal request at a time.
type HardcopyRequest struct {
	ID            string                `json:"id"`
	ApplicationID string                `json:"applicationId"`
	RequestedAt   time.Time             `json:"requestedAt"`
	Status        HardcopyRequestStatus `json:"status"`
	StaffNotes    string                `json:"staffNotes"`
}

// Active reports whether the request still occupies the application's
// single hardcopy slot.
func (r HardcopyRequest) Active() bool {
	return r.Status == HardcopyStatusPending || r.Status == HardcopyStatusApproved
}
