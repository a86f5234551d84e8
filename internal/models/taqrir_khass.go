package models

import (
	"strings"
	"time"
)

// DocumentStatus captures the Taqrir Khass review lifecycle.
type DocumentStatus string

const (
	DocumentStatusDraft         DocumentStatus = "draft"
	DocumentStatusUnderReview   DocumentStatus = "under_review"
	DocumentStatusNeedsRevision DocumentStatus = "needs_revision"
	DocumentStatusApproved      DocumentStatus = "approved"
)

// ValidDocumentStatus reports whether the value is a known status.
func ValidDocumentStatus(s DocumentStatus) bool {
	switch s {
	case DocumentStatusDraft, DocumentStatusUnderReview,
		DocumentStatusNeedsRevision, DocumentStatusApproved:
		return true
	}
	return false
}

// Section identifies one of the six narrative sections of a Taqrir Khass.
type Section string

const (
	SectionNashMasalah Section = "nash_masalah"
	SectionKhalfiyyah  Section = "khalfiyyah"
	SectionMunaqashah  Section = "munaqashah"
	SectionJawaban     Section = "jawaban"
	SectionTalilJawab  Section = "talil_jawab"
	SectionReferensi   Section = "referensi"
)

// Sections lists all six sections in display order.
var Sections = []Section{
	SectionNashMasalah,
	SectionKhalfiyyah,
	SectionMunaqashah,
	SectionJawaban,
	SectionTalilJawab,
	SectionReferensi,
}

// RequiredSections must carry content before a document may be submitted.
var RequiredSections = []Section{SectionNashMasalah, SectionJawaban}

// ValidSection reports whether the tag names one of the six sections.
func ValidSection(s Section) bool {
	switch s {
	case SectionNashMasalah, SectionKhalfiyyah, SectionMunaqashah,
		SectionJawaban, SectionTalilJawab, SectionReferensi:
		return true
	}
	return false
}

// SectionLabel returns the human-readable label used in exports.
func SectionLabel(s Section) string {
	switch s {
	case SectionNashMasalah:
		return "Nash al-Mas'alah"
	case SectionKhalfiyyah:
		return "Khalfiyyah"
	case SectionMunaqashah:
		return "Munaqashah"
	case SectionJawaban:
		return "Jawaban"
	case SectionTalilJawab:
		return "Ta'lil al-Jawab"
	case SectionReferensi:
		return "Referensi"
	}
	return string(s)
}

// TaqrirKhass is one discrete legal question and its resolution within a
// Taqrir Jama'i collection.
type TaqrirKhass struct {
	ID                string         `db:"id" json:"id"`
	TaqrirJamaiID     string         `db:"taqrir_jamai_id" json:"taqrir_jamai_id"`
	DisplayOrder      int            `db:"display_order" json:"display_order"`
	Title             string         `db:"title" json:"title"`
	NashMasalah       string         `db:"nash_masalah" json:"nash_masalah,omitempty"`
	Khalfiyyah        string         `db:"khalfiyyah" json:"khalfiyyah,omitempty"`
	Munaqashah        string         `db:"munaqashah" json:"munaqashah,omitempty"`
	Jawaban           string         `db:"jawaban" json:"jawaban,omitempty"`
	TalilJawab        string         `db:"talil_jawab" json:"talil_jawab,omitempty"`
	Referensi         string         `db:"referensi" json:"referensi,omitempty"`
	Status            DocumentStatus `db:"status" json:"status"`
	VerificationNotes string         `db:"verification_notes" json:"verification_notes,omitempty"`
	CreatedBy         string         `db:"created_by" json:"created_by"`
	VerifiedBy        *string        `db:"verified_by" json:"verified_by,omitempty"`
	VerifiedAt        *time.Time     `db:"verified_at" json:"verified_at,omitempty"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

// SectionContent returns the stored text for the given section.
func (t *TaqrirKhass) SectionContent(s Section) string {
	switch s {
	case SectionNashMasalah:
		return t.NashMasalah
	case SectionKhalfiyyah:
		return t.Khalfiyyah
	case SectionMunaqashah:
		return t.Munaqashah
	case SectionJawaban:
		return t.Jawaban
	case SectionTalilJawab:
		return t.TalilJawab
	case SectionReferensi:
		return t.Referensi
	}
	return ""
}

// SectionPresent reports whether a section carries content after trimming.
func (t *TaqrirKhass) SectionPresent(s Section) bool {
	return strings.TrimSpace(t.SectionContent(s)) != ""
}

// Editable reports whether section content may still be modified.
func (t *TaqrirKhass) Editable() bool {
	return t.Status == DocumentStatusDraft || t.Status == DocumentStatusNeedsRevision
}

// DocumentFilter constrains document listings.
type DocumentFilter struct {
	TaqrirJamaiID string
	Status        []DocumentStatus
	CreatedBy     string
	Limit         int
	Offset        int
}
