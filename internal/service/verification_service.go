package service

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/bahtsul-masail/tashih-api/internal/dto"
	"github.com/bahtsul-masail/tashih-api/internal/models"
	"github.com/bahtsul-masail/tashih-api/internal/repository"
	appErrors "github.com/bahtsul-masail/tashih-api/pkg/errors"
)

type verificationStore interface {
	GetByID(ctx context.Context, id string) (*models.MushohehVerification, error)
	GetByDocument(ctx context.Context, docID string) (*models.MushohehVerification, error)
	Create(ctx context.Context, record *models.MushohehVerification) error
	Update(ctx context.Context, record *models.MushohehVerification, expectedVersion int) error
	FinalizeApproval(ctx context.Context, recordID, docID, mushohehID string, expectedVersion int) error
}

type documentGetter interface {
	GetByID(ctx context.Context, id string) (*models.TaqrirKhass, error)
}

type notifier interface {
	Notify(event NotificationEvent)
}

// CalculateProgress returns the verification percentage for a document:
// verified present sections over present sections, rounded, 0 when the
// document has no content at all.
func CalculateProgress(doc *models.TaqrirKhass, record *models.MushohehVerification) int {
	if doc == nil {
		return 0
	}
	present := 0
	verified := 0
	for _, section := range models.Sections {
		if !doc.SectionPresent(section) {
			continue
		}
		present++
		if record != nil && record.SectionVerified(section) {
			verified++
		}
	}
	if present == 0 {
		return 0
	}
	return int(math.Round(float64(verified) / float64(present) * 100))
}

// CanApprove reports whether the document is eligible for final approval:
// the two mandatory sections are verified and no present section remains
// unverified.
func CanApprove(doc *models.TaqrirKhass, record *models.MushohehVerification) bool {
	if doc == nil || record == nil {
		return false
	}
	if !record.NashMasalahVerified || !record.JawabanVerified {
		return false
	}
	for _, section := range models.Sections {
		if doc.SectionPresent(section) && !record.SectionVerified(section) {
			return false
		}
	}
	return true
}

// VerificationService manages the active verification record per document
// and the final approval transition.
type VerificationService struct {
	records   verificationStore
	documents documentGetter
	audit     auditLogger
	notify    notifier
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewVerificationService constructs the service.
func NewVerificationService(records verificationStore, documents documentGetter, audit auditLogger, notify notifier, metrics *MetricsService, logger *zap.Logger) *VerificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VerificationService{
		records:   records,
		documents: documents,
		audit:     audit,
		notify:    notify,
		metrics:   metrics,
		logger:    logger,
	}
}

// Upsert creates or updates the active verification record for a document.
// The document must be under review; concurrent edits are detected through
// the record version.
func (s *VerificationService) Upsert(ctx context.Context, req dto.UpsertVerificationRequest, actor *models.JWTClaims) (*dto.VerificationDetail, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	doc, err := s.documents.GetByID(ctx, req.TaqrirKhassID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "taqrir khass not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load taqrir khass")
	}
	if doc.Status != models.DocumentStatusUnderReview {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "document is not under review")
	}

	record, err := s.records.GetByDocument(ctx, req.TaqrirKhassID)
	switch {
	case err == nil:
		if record.IsApproved {
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "verification is already finalized")
		}
		record.MushohehID = actor.UserID
		record.Apply(req.Flags())
		record.OverallNotes = req.OverallNotes
		if err := s.records.Update(ctx, record, req.Version); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				return nil, appErrors.Clone(appErrors.ErrConflict, "verification record has changed, reload and retry")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update verification")
		}
	case errors.Is(err, sql.ErrNoRows):
		record = &models.MushohehVerification{
			TaqrirKhassID: req.TaqrirKhassID,
			MushohehID:    actor.UserID,
			OverallNotes:  req.OverallNotes,
		}
		record.Apply(req.Flags())
		if err := s.records.Create(ctx, record); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				return nil, appErrors.Clone(appErrors.ErrConflict, "verification record already exists, reload and retry")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create verification")
		}
	default:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load verification")
	}

	s.emitAudit(ctx, actor.UserID, models.AuditActionVerificationUpsert, "mushoheh_verification", record.ID)

	return &dto.VerificationDetail{
		Verification: record,
		Progress:     CalculateProgress(doc, record),
		CanApprove:   CanApprove(doc, record),
	}, nil
}

// Get returns a verification record with derived progress.
func (s *VerificationService) Get(ctx context.Context, id string) (*dto.VerificationDetail, error) {
	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "verification not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load verification")
	}
	doc, err := s.documents.GetByID(ctx, record.TaqrirKhassID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load taqrir khass")
	}
	return &dto.VerificationDetail{
		Verification: record,
		Progress:     CalculateProgress(doc, record),
		CanApprove:   CanApprove(doc, record),
	}, nil
}

// Complete finalizes the approval: the record is marked approved and the
// document transitions to approved atomically.
func (s *VerificationService) Complete(ctx context.Context, recordID string, actor *models.JWTClaims) (*dto.VerificationDetail, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	record, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "verification not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load verification")
	}
	if record.IsApproved {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "verification is already finalized")
	}
	doc, err := s.documents.GetByID(ctx, record.TaqrirKhassID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "taqrir khass not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load taqrir khass")
	}
	if doc.Status != models.DocumentStatusUnderReview {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "document is not under review")
	}
	if !CanApprove(doc, record) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "all present sections must be verified before approval")
	}

	if err := s.records.FinalizeApproval(ctx, record.ID, doc.ID, actor.UserID, record.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "document state changed, reload and retry")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to finalize approval")
	}
	record.IsApproved = true
	record.Version++
	doc.Status = models.DocumentStatusApproved

	s.emitAudit(ctx, actor.UserID, models.AuditActionDocumentApprove, "taqrir_khass", doc.ID)
	if s.metrics != nil {
		s.metrics.RecordTransition("taqrir_khass", string(models.DocumentStatusApproved))
	}
	if s.notify != nil {
		s.notify.Notify(NotificationEvent{
			Type:       NotificationDocumentApproved,
			Resource:   "taqrir_khass",
			ResourceID: doc.ID,
			ActorID:    actor.UserID,
			Message:    doc.Title,
		})
	}

	return &dto.VerificationDetail{
		Verification: record,
		Progress:     CalculateProgress(doc, record),
		CanApprove:   true,
	}, nil
}

func (s *VerificationService) emitAudit(ctx context.Context, userID, action, resource, resourceID string) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   resource,
		ResourceID: &resourceID,
		IPAddress:  "system",
		UserAgent:  "verification-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}
