package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/bahtsul-masail/tashih-api/internal/dto"
	"github.com/bahtsul-masail/tashih-api/internal/models"
	"github.com/bahtsul-masail/tashih-api/internal/repository"
	appErrors "github.com/bahtsul-masail/tashih-api/pkg/errors"
)

type documentStore interface {
	Create(ctx context.Context, doc *models.TaqrirKhass) error
	GetByID(ctx context.Context, id string) (*models.TaqrirKhass, error)
	List(ctx context.Context, filter models.DocumentFilter) ([]models.TaqrirKhass, error)
	UpdateContent(ctx context.Context, doc *models.TaqrirKhass) error
	UpdateStatus(ctx context.Context, params repository.UpdateStatusParams) error
}

type collectionGetter interface {
	GetByID(ctx context.Context, id string) (*models.TaqrirJamai, error)
}

type verificationLookup interface {
	GetByDocument(ctx context.Context, docID string) (*models.MushohehVerification, error)
}

// TaqrirKhassService manages issue documents through their review lifecycle.
type TaqrirKhassService struct {
	docs        documentStore
	collections collectionGetter
	records     verificationLookup
	audit       auditLogger
	notify      notifier
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewTaqrirKhassService constructs the service.
func NewTaqrirKhassService(docs documentStore, collections collectionGetter, records verificationLookup, audit auditLogger, notify notifier, metrics *MetricsService, logger *zap.Logger) *TaqrirKhassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaqrirKhassService{
		docs:        docs,
		collections: collections,
		records:     records,
		audit:       audit,
		notify:      notify,
		metrics:     metrics,
		logger:      logger,
	}
}

// Create registers a new document inside a collection that still accepts
// children.
func (s *TaqrirKhassService) Create(ctx context.Context, req dto.CreateDocumentRequest, actor *models.JWTClaims) (*models.TaqrirKhass, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "title is required")
	}
	collection, err := s.collections.GetByID(ctx, req.TaqrirJamaiID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "taqrir jamai not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load taqrir jamai")
	}
	if collection.Status != models.CollectionStatusDraft && collection.Status != models.CollectionStatusUnderReview {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "collection no longer accepts new documents")
	}

	doc := &models.TaqrirKhass{
		TaqrirJamaiID: req.TaqrirJamaiID,
		DisplayOrder:  req.DisplayOrder,
		Title:         strings.TrimSpace(req.Title),
		NashMasalah:   req.NashMasalah,
		Khalfiyyah:    req.Khalfiyyah,
		Munaqashah:    req.Munaqashah,
		Jawaban:       req.Jawaban,
		TalilJawab:    req.TalilJawab,
		Referensi:     req.Referensi,
		Status:        models.DocumentStatusDraft,
		CreatedBy:     actor.UserID,
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create taqrir khass")
	}
	s.emitAudit(ctx, actor.UserID, models.AuditActionDocumentCreate, doc.ID)
	return doc, nil
}

// Get returns a document with its active verification record and derived
// progress.
func (s *TaqrirKhassService) Get(ctx context.Context, id string) (*dto.DocumentDetail, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "taqrir khass not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load taqrir khass")
	}
	var record *models.MushohehVerification
	if s.records != nil {
		record, err = s.records.GetByDocument(ctx, id)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load verification")
			}
			record = nil
		}
	}
	return &dto.DocumentDetail{
		Document:     doc,
		Verification: record,
		Progress:     CalculateProgress(doc, record),
		CanApprove:   CanApprove(doc, record),
	}, nil
}

// List returns documents matching the query.
func (s *TaqrirKhassService) List(ctx context.Context, query dto.DocumentQuery) ([]models.TaqrirKhass, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := 0
	if query.Page > 1 {
		offset = (query.Page - 1) * limit
	}
	docs, err := s.docs.List(ctx, models.DocumentFilter{
		TaqrirJamaiID: query.TaqrirJamaiID,
		Status:        query.Status,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list taqrir khass")
	}
	return docs, nil
}

// Update edits section content while the document is editable and its
// collection is not published.
func (s *TaqrirKhassService) Update(ctx context.Context, id string, req dto.UpdateDocumentRequest, actor *models.JWTClaims) (*models.TaqrirKhass, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "taqrir khass not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load taqrir khass")
	}
	if actor.Role == models.RoleAuthor && doc.CreatedBy != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "document belongs to another author")
	}
	if !doc.Editable() {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "document is not editable in its current state")
	}
	collection, err := s.collections.GetByID(ctx, doc.TaqrirJamaiID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load taqrir jamai")
	}
	if collection != nil && collection.Status == models.CollectionStatusPublished {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "collection is published, documents are frozen")
	}

	applyDocumentUpdate(doc, req)
	if strings.TrimSpace(doc.Title) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "title is required")
	}
	if err := s.docs.UpdateContent(ctx, doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "document is not editable in its current state")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update taqrir khass")
	}
	s.emitAudit(ctx, actor.UserID, models.AuditActionDocumentUpdate, doc.ID)
	return doc, nil
}

// SubmitForReview moves a draft or revised document under review. The two
// mandatory sections must carry content.
func (s *TaqrirKhassService) SubmitForReview(ctx context.Context, id string, actor *models.JWTClaims) (*models.TaqrirKhass, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "taqrir khass not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load taqrir khass")
	}
	if actor.Role == models.RoleAuthor && doc.CreatedBy != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "document belongs to another author")
	}
	if !doc.Editable() {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only draft or revision documents can be submitted")
	}
	if !doc.SectionPresent(models.SectionNashMasalah) || !doc.SectionPresent(models.SectionJawaban) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nash masalah and jawaban are required before submission")
	}

	if err := s.docs.UpdateStatus(ctx, repository.UpdateStatusParams{
		ID:   doc.ID,
		From: doc.Status,
		To:   models.DocumentStatusUnderReview,
	}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "document state changed, reload and retry")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit taqrir khass")
	}
	doc.Status = models.DocumentStatusUnderReview

	s.emitAudit(ctx, actor.UserID, models.AuditActionDocumentSubmit, doc.ID)
	if s.metrics != nil {
		s.metrics.RecordTransition("taqrir_khass", string(models.DocumentStatusUnderReview))
	}
	if s.notify != nil {
		s.notify.Notify(NotificationEvent{
			Type:       NotificationDocumentSubmitted,
			Resource:   "taqrir_khass",
			ResourceID: doc.ID,
			ActorID:    actor.UserID,
			Message:    doc.Title,
		})
	}
	return doc, nil
}

// RequestRevision sends a document under review back to its author with
// mandatory reviewer notes.
func (s *TaqrirKhassService) RequestRevision(ctx context.Context, id string, req dto.RequestRevisionRequest, actor *models.JWTClaims) (*models.TaqrirKhass, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	notes := strings.TrimSpace(req.VerificationNotes)
	if notes == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "verification notes are required")
	}
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "taqrir khass not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load taqrir khass")
	}
	if doc.Status != models.DocumentStatusUnderReview {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only documents under review can be sent back")
	}

	if err := s.docs.UpdateStatus(ctx, repository.UpdateStatusParams{
		ID:                doc.ID,
		From:              models.DocumentStatusUnderReview,
		To:                models.DocumentStatusNeedsRevision,
		VerificationNotes: &notes,
	}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "document state changed, reload and retry")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to request revision")
	}
	doc.Status = models.DocumentStatusNeedsRevision
	doc.VerificationNotes = notes

	s.emitAudit(ctx, actor.UserID, models.AuditActionRevisionRequest, doc.ID)
	if s.metrics != nil {
		s.metrics.RecordTransition("taqrir_khass", string(models.DocumentStatusNeedsRevision))
	}
	if s.notify != nil {
		s.notify.Notify(NotificationEvent{
			Type:       NotificationRevisionRequested,
			Resource:   "taqrir_khass",
			ResourceID: doc.ID,
			ActorID:    actor.UserID,
			Message:    notes,
		})
	}
	return doc, nil
}

func (s *TaqrirKhassService) emitAudit(ctx context.Context, userID, action, resourceID string) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   "taqrir_khass",
		ResourceID: &resourceID,
		IPAddress:  "system",
		UserAgent:  "taqrir-khass-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}

func applyDocumentUpdate(doc *models.TaqrirKhass, req dto.UpdateDocumentRequest) {
	if req.DisplayOrder != nil {
		doc.DisplayOrder = *req.DisplayOrder
	}
	if req.Title != nil {
		doc.Title = strings.TrimSpace(*req.Title)
	}
	if req.NashMasalah != nil {
		doc.NashMasalah = *req.NashMasalah
	}
	if req.Khalfiyyah != nil {
		doc.Khalfiyyah = *req.Khalfiyyah
	}
	if req.Munaqashah != nil {
		doc.Munaqashah = *req.Munaqashah
	}
	if req.Jawaban != nil {
		doc.Jawaban = *req.Jawaban
	}
	if req.TalilJawab != nil {
		doc.TalilJawab = *req.TalilJawab
	}
	if req.Referensi != nil {
		doc.Referensi = *req.Referensi
	}
}
