package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bahtsul-masail/tashih-api/internal/dto"
	"github.com/bahtsul-masail/tashih-api/internal/models"
	"github.com/bahtsul-masail/tashih-api/pkg/export"
	appErrors "github.com/bahtsul-masail/tashih-api/pkg/errors"
)

type collectionStore interface {
	Create(ctx context.Context, col *models.TaqrirJamai) error
	GetByID(ctx context.Context, id string) (*models.TaqrirJamai, error)
	List(ctx context.Context, filter models.CollectionFilter) ([]models.TaqrirJamai, error)
	UpdateMetadata(ctx context.Context, col *models.TaqrirJamai) error
	UpdateStatus(ctx context.Context, id string, from, to models.CollectionStatus, approvedBy *string) error
	Delete(ctx context.Context, id string) error
}

type childDocumentStore interface {
	List(ctx context.Context, filter models.DocumentFilter) ([]models.TaqrirKhass, error)
	ChildCounts(ctx context.Context, collectionID string) (models.CollectionChildCounts, error)
}

type collectionPDFRenderer interface {
	Render(col export.CollectionPDF) ([]byte, error)
}

type exportArchiver interface {
	Save(filename string, data []byte) (string, error)
}

const collectionDateLayout = "2006-01-02"

// TaqrirJamaiService manages collection aggregates through their lifecycle.
type TaqrirJamaiService struct {
	collections collectionStore
	documents   childDocumentStore
	pdf         collectionPDFRenderer
	archive     exportArchiver
	audit       auditLogger
	notify      notifier
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewTaqrirJamaiService constructs the service.
func NewTaqrirJamaiService(collections collectionStore, documents childDocumentStore, pdf collectionPDFRenderer, audit auditLogger, notify notifier, metrics *MetricsService, logger *zap.Logger) *TaqrirJamaiService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &TaqrirJamaiService{
		collections: collections,
		documents:   documents,
		pdf:         pdf,
		audit:       audit,
		notify:      notify,
		metrics:     metrics,
		logger:      logger,
	}
}

// WithArchive enables keeping a copy of every exported PDF on disk.
func (s *TaqrirJamaiService) WithArchive(archive exportArchiver) *TaqrirJamaiService {
	s.archive = archive
	return s
}

// Create registers a new draft collection.
func (s *TaqrirJamaiService) Create(ctx context.Context, req dto.CreateCollectionRequest, actor *models.JWTClaims) (*models.TaqrirJamai, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "title is required")
	}
	date, err := parseCollectionDate(req.Date)
	if err != nil {
		return nil, err
	}
	col := &models.TaqrirJamai{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Date:         date,
		Location:     req.Location,
		Organizer:    req.Organizer,
		Participants: req.Participants,
		Status:       models.CollectionStatusDraft,
		CreatedBy:    actor.UserID,
	}
	if err := s.collections.Create(ctx, col); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create taqrir jamai")
	}
	s.emitAudit(ctx, actor.UserID, models.AuditActionCollectionCreate, col.ID)
	return col, nil
}

// Get returns a collection by identifier.
func (s *TaqrirJamaiService) Get(ctx context.Context, id string) (*models.TaqrirJamai, error) {
	col, err := s.collections.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "taqrir jamai not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load taqrir jamai")
	}
	return col, nil
}

// List returns collections matching the query.
func (s *TaqrirJamaiService) List(ctx context.Context, query dto.CollectionQuery) ([]models.TaqrirJamai, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := 0
	if query.Page > 1 {
		offset = (query.Page - 1) * limit
	}
	collections, err := s.collections.List(ctx, models.CollectionFilter{
		Status: query.Status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list taqrir jamai")
	}
	return collections, nil
}

// Update edits metadata while the collection is still a draft.
func (s *TaqrirJamaiService) Update(ctx context.Context, id string, req dto.UpdateCollectionRequest, actor *models.JWTClaims) (*models.TaqrirJamai, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	col, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if col.Status != models.CollectionStatusDraft {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only draft collections can be edited")
	}
	if actor.Role == models.RoleAuthor && col.CreatedBy != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "collection belongs to another author")
	}
	if err := applyCollectionUpdate(col, req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(col.Title) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "title is required")
	}
	if err := s.collections.UpdateMetadata(ctx, col); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only draft collections can be edited")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update taqrir jamai")
	}
	return col, nil
}

// Delete removes a draft collection. Child drafts cascade; any document
// already past draft blocks the delete.
func (s *TaqrirJamaiService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	col, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if col.Status != models.CollectionStatusDraft {
		return appErrors.Clone(appErrors.ErrInvalidTransition, "only draft collections can be deleted")
	}
	counts, err := s.documents.ChildCounts(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count child documents")
	}
	if !counts.AllDraft() {
		return appErrors.Clone(appErrors.ErrInvalidTransition, "collection has taqrir khass beyond draft")
	}
	if err := s.collections.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "taqrir jamai not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete taqrir jamai")
	}
	s.emitAudit(ctx, actor.UserID, models.AuditActionCollectionDelete, id)
	return nil
}

// SubmitForReview moves a draft collection under review. An empty
// collection cannot be submitted.
func (s *TaqrirJamaiService) SubmitForReview(ctx context.Context, id string, actor *models.JWTClaims) (*models.TaqrirJamai, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	col, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if col.Status != models.CollectionStatusDraft {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only draft collections can be submitted")
	}
	counts, err := s.documents.ChildCounts(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count child documents")
	}
	if counts.Total == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "collection needs at least one taqrir khass")
	}
	if err := s.transition(ctx, col, models.CollectionStatusDraft, models.CollectionStatusUnderReview, nil); err != nil {
		return nil, err
	}
	s.emitAudit(ctx, actor.UserID, models.AuditActionCollectionSubmit, col.ID)
	s.notifyEvent(NotificationCollectionSubmit, col, actor)
	return col, nil
}

// Approve moves a collection under review to approved. Every child document
// must already be approved and at least one child must exist.
func (s *TaqrirJamaiService) Approve(ctx context.Context, id string, actor *models.JWTClaims) (*models.TaqrirJamai, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	col, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if col.Status != models.CollectionStatusUnderReview {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only collections under review can be approved")
	}
	counts, err := s.documents.ChildCounts(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count child documents")
	}
	if !counts.AllApproved() {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "every taqrir khass must be approved first")
	}
	approver := actor.UserID
	if err := s.transition(ctx, col, models.CollectionStatusUnderReview, models.CollectionStatusApproved, &approver); err != nil {
		return nil, err
	}
	col.ApprovedBy = &approver
	s.emitAudit(ctx, actor.UserID, models.AuditActionCollectionApprove, col.ID)
	s.notifyEvent(NotificationCollectionApproved, col, actor)
	return col, nil
}

// Publish makes an approved collection public and freezes its documents.
func (s *TaqrirJamaiService) Publish(ctx context.Context, id string, actor *models.JWTClaims) (*models.TaqrirJamai, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	col, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if col.Status != models.CollectionStatusApproved {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only approved collections can be published")
	}
	if err := s.transition(ctx, col, models.CollectionStatusApproved, models.CollectionStatusPublished, nil); err != nil {
		return nil, err
	}
	s.emitAudit(ctx, actor.UserID, models.AuditActionCollectionPublish, col.ID)
	s.notifyEvent(NotificationCollectionPublish, col, actor)
	return col, nil
}

// ExportPDF renders a published collection into a PDF booklet.
func (s *TaqrirJamaiService) ExportPDF(ctx context.Context, id string) ([]byte, string, error) {
	col, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if col.Status != models.CollectionStatusPublished {
		return nil, "", appErrors.Clone(appErrors.ErrInvalidTransition, "only published collections can be exported")
	}
	docs, err := s.documents.List(ctx, models.DocumentFilter{
		TaqrirJamaiID: id,
		Status:        []models.DocumentStatus{models.DocumentStatusApproved},
		Limit:         200,
	})
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load documents")
	}

	payload := export.CollectionPDF{
		Title:        col.Title,
		Description:  col.Description,
		Location:     col.Location,
		Organizer:    col.Organizer,
		Participants: col.Participants,
	}
	if col.Date != nil {
		payload.Date = col.Date.Format(collectionDateLayout)
	}
	for i, doc := range docs {
		rendered := export.CollectionDocument{Order: i + 1, Title: doc.Title}
		for _, section := range models.Sections {
			if !doc.SectionPresent(section) {
				continue
			}
			rendered.Sections = append(rendered.Sections, export.Section{
				Label: models.SectionLabel(section),
				Body:  doc.SectionContent(section),
			})
		}
		payload.Documents = append(payload.Documents, rendered)
	}

	data, err := s.pdf.Render(payload)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	filename := "taqrir-jamai-" + col.ID + ".pdf"
	if s.archive != nil {
		if _, err := s.archive.Save(filename, data); err != nil {
			s.logger.Warn("failed to archive exported pdf",
				zap.String("taqrir_jamai_id", col.ID),
				zap.Error(err))
		}
	}
	return data, filename, nil
}

func (s *TaqrirJamaiService) transition(ctx context.Context, col *models.TaqrirJamai, from, to models.CollectionStatus, approvedBy *string) error {
	if err := s.collections.UpdateStatus(ctx, col.ID, from, to, approvedBy); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrConflict, "collection state changed, reload and retry")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update collection status")
	}
	col.Status = to
	if s.metrics != nil {
		s.metrics.RecordTransition("taqrir_jamai", string(to))
	}
	return nil
}

func (s *TaqrirJamaiService) notifyEvent(eventType string, col *models.TaqrirJamai, actor *models.JWTClaims) {
	if s.notify == nil {
		return
	}
	s.notify.Notify(NotificationEvent{
		Type:       eventType,
		Resource:   "taqrir_jamai",
		ResourceID: col.ID,
		ActorID:    actor.UserID,
		Message:    col.Title,
	})
}

func (s *TaqrirJamaiService) emitAudit(ctx context.Context, userID, action, resourceID string) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   "taqrir_jamai",
		ResourceID: &resourceID,
		IPAddress:  "system",
		UserAgent:  "taqrir-jamai-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}

func applyCollectionUpdate(col *models.TaqrirJamai, req dto.UpdateCollectionRequest) error {
	if req.Title != nil {
		col.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		col.Description = *req.Description
	}
	if req.Date != nil {
		date, err := parseCollectionDate(*req.Date)
		if err != nil {
			return err
		}
		col.Date = date
	}
	if req.Location != nil {
		col.Location = *req.Location
	}
	if req.Organizer != nil {
		col.Organizer = *req.Organizer
	}
	if req.Participants != nil {
		col.Participants = *req.Participants
	}
	return nil
}

func parseCollectionDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(collectionDateLayout, value)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must use the YYYY-MM-DD format")
	}
	return &parsed, nil
}
