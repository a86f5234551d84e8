package models

import "time"

// CollectionStatus captures the Taqrir Jama'i lifecycle.
type CollectionStatus string

const (
	CollectionStatusDraft       CollectionStatus = "draft"
	CollectionStatusUnderReview CollectionStatus = "under_review"
	CollectionStatusApproved    CollectionStatus = "approved"
	CollectionStatusPublished   CollectionStatus = "published"
)

// ValidCollectionStatus reports whether the value is a known status.
func ValidCollectionStatus(s CollectionStatus) bool {
	switch s {
	case CollectionStatusDraft, CollectionStatusUnderReview, CollectionStatusApproved, CollectionStatusPublished:
		return true
	}
	return false
}

// TaqrirJamai is a bundled, dated session of scholarly deliberation that
// owns an ordered set of Taqrir Khass documents.
type TaqrirJamai struct {
	ID           string           `db:"id" json:"id"`
	Title        string           `db:"title" json:"title"`
	Description  string           `db:"description" json:"description,omitempty"`
	Date         *time.Time       `db:"date" json:"date,omitempty"`
	Location     string           `db:"location" json:"location,omitempty"`
	Organizer    string           `db:"organizer" json:"organizer,omitempty"`
	Participants string           `db:"participants" json:"participants,omitempty"`
	Status       CollectionStatus `db:"status" json:"status"`
	CreatedBy    string           `db:"created_by" json:"created_by"`
	ApprovedBy   *string          `db:"approved_by" json:"approved_by,omitempty"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at" json:"updated_at"`
}

// CollectionFilter constrains collection listings.
type CollectionFilter struct {
	Status    []CollectionStatus
	CreatedBy string
	Limit     int
	Offset    int
}

// CollectionChildCounts aggregates child document states for gating checks.
type CollectionChildCounts struct {
	Total    int `db:"total"`
	Draft    int `db:"draft"`
	Approved int `db:"approved"`
}

// AllApproved reports whether the collection has children and all of them
// reached the approved state.
func (c CollectionChildCounts) AllApproved() bool {
	return c.Total > 0 && c.Approved == c.Total
}

// AllDraft reports whether every child document is still a draft.
func (c CollectionChildCounts) AllDraft() bool {
	return c.Draft == c.Total
}
