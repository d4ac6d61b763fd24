package store

import "github.com/noah-isme/tutor-verify-api/internal/models"

// nextApplicationStatus resolves the target status for a staff decision.
// The second return value is false when the (status, decision) pair is not an
// edge of the application state machine.
func nextApplicationStatus(current models.ApplicationStatus, decision models.ApplicationDecision) (models.ApplicationStatus, bool) {
	switch decision {
	case models.DecisionApproveUpload:
		if current == models.ApplicationStatusPending {
			return models.ApplicationStatusApprovedUpload, true
		}
	case models.DecisionRequestRevision:
		if current == models.ApplicationStatusPending {
			return models.ApplicationStatusRevisionRequested, true
		}
	case models.DecisionApproveHardcopy:
		if current == models.ApplicationStatusApprovedUpload {
			return models.ApplicationStatusApprovedHardcopy, true
		}
	}
	return current, false
}

// verificationTarget maps an approved application status to the tutor tier it
// must cascade into. Non-approval statuses carry no cascade.
func verificationTarget(status models.ApplicationStatus) (models.VerificationStatus, bool) {
	switch status {
	case models.ApplicationStatusApprovedUpload:
		return models.VerificationVerifiedUpload, true
	case models.ApplicationStatusApprovedHardcopy:
		return models.VerificationVerifiedHardcopy, true
	}
	return "", false
}

// verificationRank orders tiers so cascades can never demote a tutor.
func verificationRank(status models.VerificationStatus) int {
	switch status {
	case models.VerificationVerifiedUpload:
		return 1
	case models.VerificationVerifiedHardcopy:
		return 2
	default:
		return 0
	}
}
