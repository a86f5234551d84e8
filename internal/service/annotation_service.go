package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/bahtsul-masail/tashih-api/internal/dto"
	"github.com/bahtsul-masail/tashih-api/internal/models"
	"github.com/bahtsul-masail/tashih-api/pkg/export"
	appErrors "github.com/bahtsul-masail/tashih-api/pkg/errors"
)

type annotationStore interface {
	Create(ctx context.Context, annotation *models.ReferenceAnnotation) error
	GetByID(ctx context.Context, id string) (*models.ReferenceAnnotation, error)
	List(ctx context.Context, filter models.AnnotationFilter) ([]models.ReferenceAnnotation, error)
	UpdateContent(ctx context.Context, annotation *models.ReferenceAnnotation) error
	Verify(ctx context.Context, id string, status models.AnnotationStatus, notes, verifiedBy string) error
}

type annotationCSVRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// AnnotationService manages the reference annotation ledger.
type AnnotationService struct {
	annotations annotationStore
	documents   documentGetter
	csv         annotationCSVRenderer
	audit       auditLogger
	logger      *zap.Logger
}

// NewAnnotationService constructs the service.
func NewAnnotationService(annotations annotationStore, documents documentGetter, csv annotationCSVRenderer, audit auditLogger, logger *zap.Logger) *AnnotationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	return &AnnotationService{
		annotations: annotations,
		documents:   documents,
		csv:         csv,
		audit:       audit,
		logger:      logger,
	}
}

// Create records a new citation against an existing document section.
func (s *AnnotationService) Create(ctx context.Context, req dto.CreateAnnotationRequest, actor *models.JWTClaims) (*models.ReferenceAnnotation, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !models.ValidSection(req.Section) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown section")
	}
	if !models.ValidReferenceType(req.ReferenceType) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported reference type")
	}
	if strings.TrimSpace(req.Text) == "" || strings.TrimSpace(req.Source) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "text and source are required")
	}
	if err := validatePositions(req.StartPosition, req.EndPosition); err != nil {
		return nil, err
	}
	if _, err := s.documents.GetByID(ctx, req.TaqrirKhassID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "taqrir khass not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load taqrir khass")
	}

	annotation := &models.ReferenceAnnotation{
		TaqrirKhassID: req.TaqrirKhassID,
		Section:       req.Section,
		Text:          strings.TrimSpace(req.Text),
		ReferenceType: req.ReferenceType,
		Source:        strings.TrimSpace(req.Source),
		StartPosition: req.StartPosition,
		EndPosition:   req.EndPosition,
	}
	if err := s.annotations.Create(ctx, annotation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create annotation")
	}
	return annotation, nil
}

// Get returns an annotation by identifier.
func (s *AnnotationService) Get(ctx context.Context, id string) (*models.ReferenceAnnotation, error) {
	annotation, err := s.annotations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "annotation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load annotation")
	}
	return annotation, nil
}

// List returns annotations matching the query.
func (s *AnnotationService) List(ctx context.Context, query dto.AnnotationQuery) ([]models.ReferenceAnnotation, error) {
	if query.Section != "" && !models.ValidSection(query.Section) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown section")
	}
	limit := query.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := 0
	if query.Page > 1 {
		offset = (query.Page - 1) * limit
	}
	annotations, err := s.annotations.List(ctx, models.AnnotationFilter{
		TaqrirKhassID: query.TaqrirKhassID,
		Section:       query.Section,
		Status:        query.Status,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list annotations")
	}
	return annotations, nil
}

// Update edits citation fields while the annotation is still unverified.
func (s *AnnotationService) Update(ctx context.Context, id string, req dto.UpdateAnnotationRequest, actor *models.JWTClaims) (*models.ReferenceAnnotation, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	annotation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if annotation.VerificationState != models.AnnotationStatusUnverified {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "annotation has already been classified")
	}
	if req.Text != nil {
		annotation.Text = strings.TrimSpace(*req.Text)
	}
	if req.ReferenceType != nil {
		if !models.ValidReferenceType(*req.ReferenceType) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported reference type")
		}
		annotation.ReferenceType = *req.ReferenceType
	}
	if req.Source != nil {
		annotation.Source = strings.TrimSpace(*req.Source)
	}
	if req.StartPosition != nil {
		annotation.StartPosition = req.StartPosition
	}
	if req.EndPosition != nil {
		annotation.EndPosition = req.EndPosition
	}
	if annotation.Text == "" || annotation.Source == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "text and source are required")
	}
	if err := validatePositions(annotation.StartPosition, annotation.EndPosition); err != nil {
		return nil, err
	}
	if err := s.annotations.UpdateContent(ctx, annotation); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "annotation has already been classified")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update annotation")
	}
	return annotation, nil
}

// Verify classifies an unverified annotation. The transition is one way.
func (s *AnnotationService) Verify(ctx context.Context, id string, req dto.VerifyAnnotationRequest, actor *models.JWTClaims) (*models.ReferenceAnnotation, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if req.VerificationStatus != models.AnnotationStatusVerified && req.VerificationStatus != models.AnnotationStatusIncorrect {
		return nil, appErrors.Clone(appErrors.ErrValidation, "verification status must be verified or incorrect")
	}
	annotation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if annotation.VerificationState != models.AnnotationStatusUnverified {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "annotation has already been classified")
	}
	if err := s.annotations.Verify(ctx, id, req.VerificationStatus, req.VerificationNotes, actor.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "annotation state changed, reload and retry")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify annotation")
	}
	annotation.VerificationState = req.VerificationStatus
	annotation.VerificationNotes = req.VerificationNotes
	annotation.VerifiedBy = &actor.UserID

	if s.audit != nil {
		log := &models.AuditLog{
			UserID:     &actor.UserID,
			Action:     models.AuditActionAnnotationVerify,
			Resource:   "reference_annotation",
			ResourceID: &annotation.ID,
			IPAddress:  "system",
			UserAgent:  "annotation-service",
		}
		if err := s.audit.CreateAuditLog(ctx, log); err != nil {
			s.logger.Warn("failed to persist audit log", zap.Error(err))
		}
	}
	return annotation, nil
}

// ExportCSV renders the ledger matching the query as CSV.
func (s *AnnotationService) ExportCSV(ctx context.Context, query dto.AnnotationQuery) ([]byte, error) {
	annotations, err := s.List(ctx, query)
	if err != nil {
		return nil, err
	}
	dataset := export.Dataset{
		Headers: []string{"id", "taqrir_khass_id", "section", "reference_type", "source", "text", "status", "notes"},
	}
	for _, a := range annotations {
		dataset.Rows = append(dataset.Rows, []string{
			a.ID,
			a.TaqrirKhassID,
			string(a.Section),
			string(a.ReferenceType),
			a.Source,
			a.Text,
			string(a.VerificationState),
			a.VerificationNotes,
		})
	}
	data, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return data, nil
}

func validatePositions(start, end *int) error {
	if start != nil && *start < 0 {
		return appErrors.Clone(appErrors.ErrValidation, "start position must not be negative")
	}
	if end != nil && *end < 0 {
		return appErrors.Clone(appErrors.ErrValidation, "end position must not be negative")
	}
	if start != nil && end != nil && *end < *start {
		return appErrors.Clone(appErrors.ErrValidation, "end position must not precede start position")
	}
	return nil
}
