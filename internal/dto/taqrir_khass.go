package dto

import "github.com/bahtsul-masail/tashih-api/internal/models"

// CreateDocumentRequest payload for creating a Taqrir Khass within a collection.
type CreateDocumentRequest struct {
	TaqrirJamaiID string `json:"taqrir_jamai_id" binding:"required"`
	DisplayOrder  int    `json:"display_order"`
	Title         string `json:"title" binding:"required"`
	NashMasalah   string `json:"nash_masalah"`
	Khalfiyyah    string `json:"khalfiyyah"`
	Munaqashah    string `json:"munaqashah"`
	Jawaban       string `json:"jawaban"`
	TalilJawab    string `json:"talil_jawab"`
	Referensi     string `json:"referensi"`
}

// UpdateDocumentRequest payload for editing sections while the document is
// still editable. Nil fields are left untouched.
type UpdateDocumentRequest struct {
	DisplayOrder *int    `json:"display_order"`
	Title        *string `json:"title"`
	NashMasalah  *string `json:"nash_masalah"`
	Khalfiyyah   *string `json:"khalfiyyah"`
	Munaqashah   *string `json:"munaqashah"`
	Jawaban      *string `json:"jawaban"`
	TalilJawab   *string `json:"talil_jawab"`
	Referensi    *string `json:"referensi"`
}

// RequestRevisionRequest carries the mandatory reviewer justification.
type RequestRevisionRequest struct {
	VerificationNotes string `json:"verification_notes" binding:"required"`
}

// DocumentQuery mirrors supported listing filters.
type DocumentQuery struct {
	TaqrirJamaiID string
	Status        []models.DocumentStatus
	Page          int
	Limit         int
}

// DocumentDetail pairs a document with its derived verification state.
type DocumentDetail struct {
	Document     *models.TaqrirKhass          `json:"document"`
	Verification *models.MushohehVerification `json:"verification,omitempty"`
	Progress     int                          `json:"progress"`
	CanApprove   bool                         `json:"can_approve"`
}
