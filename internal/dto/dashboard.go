package dto

import (
	"time"

	"github.com/bahtsul-masail/tashih-api/internal/models"
)

// PendingVerificationEntry summarises one document awaiting review.
type PendingVerificationEntry struct {
	Document      *models.TaqrirKhass `json:"document"`
	Progress      int                 `json:"progress"`
	PriorityScore int                 `json:"priority_score"`
	WaitingSince  time.Time           `json:"waiting_since"`
}

// SystemMetrics is a lightweight aggregate of runtime metrics for API
// consumption alongside the Prometheus endpoint.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// WorkflowStatistics aggregates workflow-wide counters for the dashboard.
type WorkflowStatistics struct {
	DocumentsDraft         int `json:"documents_draft"`
	DocumentsUnderReview   int `json:"documents_under_review"`
	DocumentsNeedsRevision int `json:"documents_needs_revision"`
	DocumentsApproved      int `json:"documents_approved"`
	TotalDocuments         int `json:"total_documents"`
	CollectionsDraft       int `json:"collections_draft"`
	CollectionsUnderReview int `json:"collections_under_review"`
	CollectionsApproved    int `json:"collections_approved"`
	CollectionsPublished   int `json:"collections_published"`
	TotalCollections       int `json:"total_collections"`
	AnnotationsUnverified  int `json:"annotations_unverified"`
	AnnotationsVerified    int `json:"annotations_verified"`
	AnnotationsIncorrect   int `json:"annotations_incorrect"`
}
