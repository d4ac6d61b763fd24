package models

import "time"

// ApplicationStatus captures review workflow states for tutor applications.
type ApplicationStatus string

const (
	ApplicationStatusPending           ApplicationStatus = "Pending"
	ApplicationStatusRevisionRequested ApplicationStatus = "RevisionRequested"
	ApplicationStatusApprovedUpload    ApplicationStatus = "ApprovedUpload"
	ApplicationStatusApprovedHardcopy  ApplicationStatus = "ApprovedHardcopy"
)

// ApplicationDecision enumerates staff review actions on an application.
type ApplicationDecision string

const (
	DecisionApproveUpload   ApplicationDecision = "ApproveUpload"
	DecisionRequestRevision ApplicationDecision = "RequestRevision"
	DecisionApproveHardcopy ApplicationDecision = "ApproveHardcopy"
)

// TutorApplication is a tutor's submission of evidence for review. Its status
// drives, but is independent of, the tutor's verification tier.
type TutorApplication struct {
	ID            string            `json:"id"`
	TutorID       string            `json:"tutorId"`
	SubmittedAt   time.Time         `json:"submittedAt"`
	Status        ApplicationStatus `json:"status"`
	RevisionNotes string            `json:"revisionNotes"`
	InternalNotes string            `json:"internalNotes"`
}

// ApplicationFilter constrains application listing queries.
type ApplicationFilter struct {
	Status  []ApplicationStatus
	TutorID string
}
