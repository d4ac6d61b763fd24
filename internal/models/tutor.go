package models

import "time"

// VerificationStatus captures the credential confidence tier of a tutor.
type VerificationStatus string

const (
	VerificationNotStarted       VerificationStatus = "NotStarted"
	VerificationVerifiedUpload   VerificationStatus = "VerifiedUpload"
	VerificationVerifiedHardcopy VerificationStatus = "VerifiedHardcopy"
)

// Tutor represents a user whose credentials are being verified to unlock
// teaching features. VerificationStatus, LastStatusUpdateAt and BecameTutorAt
// are cascade-only fields: they change exclusively through review decisions,
// never through profile edits.
type Tutor struct {
	UserID             string             `json:"userId"`
	Name               string             `json:"name"`
	Email              string             `json:"email"`
	Skills             []string           `json:"skills,omitempty"`
	Languages          []string           `json:"languages,omitempty"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	LastStatusUpdateAt time.Time          `json:"lastStatusUpdateAt"`
	BecameTutorAt      *time.Time         `json:"becameTutorAt,omitempty"`
}

// Clone returns a deep copy of the tutor.
func (t Tutor) Clone() Tutor {
	clone := t
	clone.Skills = append([]string(nil), t.Skills...)
	clone.Languages = append([]string(nil), t.Languages...)
	if t.BecameTutorAt != nil {
		at := *t.BecameTutorAt
		clone.BecameTutorAt = &at
	}
	return clone
}
