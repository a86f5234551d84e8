package dto

import "github.com/bahtsul-masail/tashih-api/internal/models"

// CreateCollectionRequest payload for creating a Taqrir Jama'i.
type CreateCollectionRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	Date         string `json:"date"`
	Location     string `json:"location"`
	Organizer    string `json:"organizer"`
	Participants string `json:"participants"`
}

// UpdateCollectionRequest payload for editing draft collection metadata.
// Nil fields are left untouched.
type UpdateCollectionRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Date         *string `json:"date"`
	Location     *string `json:"location"`
	Organizer    *string `json:"organizer"`
	Participants *string `json:"participants"`
}

// CollectionQuery mirrors supported listing filters.
type CollectionQuery struct {
	Status []models.CollectionStatus
	Page   int
	Limit  int
}
