package dto

// UpdateTutorProfileRequest carries the tutor-editable profile fields.
// Verification tier and its timestamps are cascade-only and absent on purpose.
type UpdateTutorProfileRequest struct {
	Name      string   `json:"name" binding:"required" validate:"required"`
	Skills    []string `json:"skills"`
	Languages []string `json:"languages"`
}
