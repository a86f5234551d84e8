package models

import "time"

// ReferenceType classifies the cited source of an annotation.
type ReferenceType string

const (
	ReferenceTypeQuran   ReferenceType = "quran"
	ReferenceTypeHadith  ReferenceType = "hadith"
	ReferenceTypeBook    ReferenceType = "book"
	ReferenceTypeArticle ReferenceType = "article"
	ReferenceTypeOther   ReferenceType = "other"
)

// ValidReferenceType reports whether the value is a known reference type.
func ValidReferenceType(t ReferenceType) bool {
	switch t {
	case ReferenceTypeQuran, ReferenceTypeHadith, ReferenceTypeBook, ReferenceTypeArticle, ReferenceTypeOther:
		return true
	}
	return false
}

// AnnotationStatus captures the one-way citation classification.
type AnnotationStatus string

const (
	AnnotationStatusUnverified AnnotationStatus = "unverified"
	AnnotationStatusVerified   AnnotationStatus = "verified"
	AnnotationStatusIncorrect  AnnotationStatus = "incorrect"
)

// ReferenceAnnotation records one cited passage within a document section,
// classified independently of the document's own verification record.
type ReferenceAnnotation struct {
	ID                string           `db:"id" json:"id"`
	TaqrirKhassID     string           `db:"taqrir_khass_id" json:"taqrir_khass_id"`
	Section           Section          `db:"section" json:"section"`
	Text              string           `db:"text" json:"text"`
	ReferenceType     ReferenceType    `db:"reference_type" json:"reference_type"`
	Source            string           `db:"source" json:"source"`
	StartPosition     *int             `db:"start_position" json:"start_position,omitempty"`
	EndPosition       *int             `db:"end_position" json:"end_position,omitempty"`
	VerificationState AnnotationStatus `db:"verification_status" json:"verification_status"`
	VerificationNotes string           `db:"verification_notes" json:"verification_notes,omitempty"`
	VerifiedBy        *string          `db:"verified_by" json:"verified_by,omitempty"`
	VerifiedAt        *time.Time       `db:"verified_at" json:"verified_at,omitempty"`
	CreatedAt         time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time        `db:"updated_at" json:"updated_at"`
}

// AnnotationFilter constrains annotation listings.
type AnnotationFilter struct {
	TaqrirKhassID string
	Section       Section
	Status        []AnnotationStatus
	Limit         int
	Offset        int
}
