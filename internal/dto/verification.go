package dto

import "github.com/bahtsul-masail/tashih-api/internal/models"

// UpsertVerificationRequest creates or mutates the active verification
// record for a document. Version must match the stored record when one
// exists; a zero version is only valid for the initial create.
type UpsertVerificationRequest struct {
	TaqrirKhassID       string `json:"taqrir_khass_id" binding:"required"`
	Version             int    `json:"version"`
	NashMasalahVerified bool   `json:"nash_masalah_verified"`
	NashMasalahNotes    string `json:"nash_masalah_notes"`
	KhalfiyyahVerified  bool   `json:"khalfiyyah_verified"`
	KhalfiyyahNotes     string `json:"khalfiyyah_notes"`
	MunaqashahVerified  bool   `json:"munaqashah_verified"`
	MunaqashahNotes     string `json:"munaqashah_notes"`
	JawabanVerified     bool   `json:"jawaban_verified"`
	JawabanNotes        string `json:"jawaban_notes"`
	TalilJawabVerified  bool   `json:"talil_jawab_verified"`
	TalilJawabNotes     string `json:"talil_jawab_notes"`
	ReferensiVerified   bool   `json:"referensi_verified"`
	ReferensiNotes      string `json:"referensi_notes"`
	OverallNotes        string `json:"overall_notes"`
}

// Flags converts the request body into the section flag value object.
func (r UpsertVerificationRequest) Flags() models.SectionFlags {
	return models.SectionFlags{
		NashMasalahVerified: r.NashMasalahVerified,
		NashMasalahNotes:    r.NashMasalahNotes,
		KhalfiyyahVerified:  r.KhalfiyyahVerified,
		KhalfiyyahNotes:     r.KhalfiyyahNotes,
		MunaqashahVerified:  r.MunaqashahVerified,
		MunaqashahNotes:     r.MunaqashahNotes,
		JawabanVerified:     r.JawabanVerified,
		JawabanNotes:        r.JawabanNotes,
		TalilJawabVerified:  r.TalilJawabVerified,
		TalilJawabNotes:     r.TalilJawabNotes,
		ReferensiVerified:   r.ReferensiVerified,
		ReferensiNotes:      r.ReferensiNotes,
	}
}

// VerificationDetail pairs the record with its derived progress.
type VerificationDetail struct {
	Verification *models.MushohehVerification `json:"verification"`
	Progress     int                          `json:"progress"`
	CanApprove   bool                         `json:"can_approve"`
}
