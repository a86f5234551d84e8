package dto

import "github.com/bahtsul-masail/tashih-api/internal/models"

// CreateAnnotationRequest payload for recording a cited passage.
type CreateAnnotationRequest struct {
	TaqrirKhassID string               `json:"taqrir_khass_id" binding:"required"`
	Section       models.Section       `json:"section" binding:"required"`
	Text          string               `json:"text" binding:"required"`
	ReferenceType models.ReferenceType `json:"reference_type" binding:"required"`
	Source        string               `json:"source" binding:"required"`
	StartPosition *int                 `json:"start_position"`
	EndPosition   *int                 `json:"end_position"`
}

// UpdateAnnotationRequest edits an annotation while it is still unverified.
// Nil fields are left untouched.
type UpdateAnnotationRequest struct {
	Text          *string               `json:"text"`
	ReferenceType *models.ReferenceType `json:"reference_type"`
	Source        *string               `json:"source"`
	StartPosition *int                  `json:"start_position"`
	EndPosition   *int                  `json:"end_position"`
}

// VerifyAnnotationRequest classifies a citation as verified or incorrect.
type VerifyAnnotationRequest struct {
	VerificationStatus models.AnnotationStatus `json:"verification_status" binding:"required"`
	VerificationNotes  string                  `json:"verification_notes"`
}

// AnnotationQuery mirrors supported listing filters.
type AnnotationQuery struct {
	TaqrirKhassID string
	Section       models.Section
	Status        []models.AnnotationStatus
	Page          int
	Limit         int
}
