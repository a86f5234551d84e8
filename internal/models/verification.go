package models

import "time"

// MushohehVerification is the active per-section sign-off record for one
// Taqrir Khass. One row exists per document; the version column backs
// optimistic concurrency control for reviewer updates.
type MushohehVerification struct {
	ID                  string    `db:"id" json:"id"`
	TaqrirKhassID       string    `db:"taqrir_khass_id" json:"taqrir_khass_id"`
	MushohehID          string    `db:"mushoheh_id" json:"mushoheh_id"`
	NashMasalahVerified bool      `db:"nash_masalah_verified" json:"nash_masalah_verified"`
	NashMasalahNotes    string    `db:"nash_masalah_notes" json:"nash_masalah_notes,omitempty"`
	KhalfiyyahVerified  bool      `db:"khalfiyyah_verified" json:"khalfiyyah_verified"`
	KhalfiyyahNotes     string    `db:"khalfiyyah_notes" json:"khalfiyyah_notes,omitempty"`
	MunaqashahVerified  bool      `db:"munaqashah_verified" json:"munaqashah_verified"`
	MunaqashahNotes     string    `db:"munaqashah_notes" json:"munaqashah_notes,omitempty"`
	JawabanVerified     bool      `db:"jawaban_verified" json:"jawaban_verified"`
	JawabanNotes        string    `db:"jawaban_notes" json:"jawaban_notes,omitempty"`
	TalilJawabVerified  bool      `db:"talil_jawab_verified" json:"talil_jawab_verified"`
	TalilJawabNotes     string    `db:"talil_jawab_notes" json:"talil_jawab_notes,omitempty"`
	ReferensiVerified   bool      `db:"referensi_verified" json:"referensi_verified"`
	ReferensiNotes      string    `db:"referensi_notes" json:"referensi_notes,omitempty"`
	IsApproved          bool      `db:"is_approved" json:"is_approved"`
	OverallNotes        string    `db:"overall_notes" json:"overall_notes,omitempty"`
	Version             int       `db:"version" json:"version"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// SectionVerified returns the verified flag for the given section.
func (v *MushohehVerification) SectionVerified(s Section) bool {
	switch s {
	case SectionNashMasalah:
		return v.NashMasalahVerified
	case SectionKhalfiyyah:
		return v.KhalfiyyahVerified
	case SectionMunaqashah:
		return v.MunaqashahVerified
	case SectionJawaban:
		return v.JawabanVerified
	case SectionTalilJawab:
		return v.TalilJawabVerified
	case SectionReferensi:
		return v.ReferensiVerified
	}
	return false
}

// SectionNotes returns the reviewer notes for the given section.
func (v *MushohehVerification) SectionNotes(s Section) string {
	switch s {
	case SectionNashMasalah:
		return v.NashMasalahNotes
	case SectionKhalfiyyah:
		return v.KhalfiyyahNotes
	case SectionMunaqashah:
		return v.MunaqashahNotes
	case SectionJawaban:
		return v.JawabanNotes
	case SectionTalilJawab:
		return v.TalilJawabNotes
	case SectionReferensi:
		return v.ReferensiNotes
	}
	return ""
}

// SectionFlags captures the six verified flags with their notes as a value
// object exchanged between DTOs and the service layer.
type SectionFlags struct {
	NashMasalahVerified bool
	NashMasalahNotes    string
	KhalfiyyahVerified  bool
	KhalfiyyahNotes     string
	MunaqashahVerified  bool
	MunaqashahNotes     string
	JawabanVerified     bool
	JawabanNotes        string
	TalilJawabVerified  bool
	TalilJawabNotes     string
	ReferensiVerified   bool
	ReferensiNotes      string
}

// Apply copies the flag set onto the verification record.
func (v *MushohehVerification) Apply(flags SectionFlags) {
	v.NashMasalahVerified = flags.NashMasalahVerified
	v.NashMasalahNotes = flags.NashMasalahNotes
	v.KhalfiyyahVerified = flags.KhalfiyyahVerified
	v.KhalfiyyahNotes = flags.KhalfiyyahNotes
	v.MunaqashahVerified = flags.MunaqashahVerified
	v.MunaqashahNotes = flags.MunaqashahNotes
	v.JawabanVerified = flags.JawabanVerified
	v.JawabanNotes = flags.JawabanNotes
	v.TalilJawabVerified = flags.TalilJawabVerified
	v.TalilJawabNotes = flags.TalilJawabNotes
	v.ReferensiVerified = flags.ReferensiVerified
	v.ReferensiNotes = flags.ReferensiNotes
}
