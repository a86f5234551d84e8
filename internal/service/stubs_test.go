package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bahtsul-masail/tashih-api/internal/models"
	"github.com/bahtsul-masail/tashih-api/internal/repository"
)

type documentRepoStub struct {
	docs map[string]*models.TaqrirKhass
}

func newDocumentRepoStub() *documentRepoStub {
	return &documentRepoStub{docs: make(map[string]*models.TaqrirKhass)}
}

func (s *documentRepoStub) Create(ctx context.Context, doc *models.TaqrirKhass) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.Status == "" {
		doc.Status = models.DocumentStatusDraft
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	copy := *doc
	s.docs[doc.ID] = &copy
	return nil
}

func (s *documentRepoStub) GetByID(ctx context.Context, id string) (*models.TaqrirKhass, error) {
	if doc, ok := s.docs[id]; ok {
		copy := *doc
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *documentRepoStub) List(ctx context.Context, filter models.DocumentFilter) ([]models.TaqrirKhass, error) {
	result := make([]models.TaqrirKhass, 0, len(s.docs))
	for _, doc := range s.docs {
		if filter.TaqrirJamaiID != "" && doc.TaqrirJamaiID != filter.TaqrirJamaiID {
			continue
		}
		if len(filter.Status) > 0 && !containsDocumentStatus(filter.Status, doc.Status) {
			continue
		}
		result = append(result, *doc)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DisplayOrder != result[j].DisplayOrder {
			return result[i].DisplayOrder < result[j].DisplayOrder
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *documentRepoStub) UpdateContent(ctx context.Context, doc *models.TaqrirKhass) error {
	stored, ok := s.docs[doc.ID]
	if !ok || !stored.Editable() {
		return sql.ErrNoRows
	}
	copy := *doc
	copy.Status = stored.Status
	s.docs[doc.ID] = &copy
	return nil
}

func (s *documentRepoStub) UpdateStatus(ctx context.Context, params repository.UpdateStatusParams) error {
	stored, ok := s.docs[params.ID]
	if !ok || stored.Status != params.From {
		return sql.ErrNoRows
	}
	stored.Status = params.To
	if params.VerificationNotes != nil {
		stored.VerificationNotes = *params.VerificationNotes
	}
	if params.VerifiedBy != nil {
		stored.VerifiedBy = params.VerifiedBy
	}
	if params.VerifiedAt != nil {
		stored.VerifiedAt = params.VerifiedAt
	}
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *documentRepoStub) ChildCounts(ctx context.Context, collectionID string) (models.CollectionChildCounts, error) {
	counts := models.CollectionChildCounts{}
	for _, doc := range s.docs {
		if doc.TaqrirJamaiID != collectionID {
			continue
		}
		counts.Total++
		switch doc.Status {
		case models.DocumentStatusDraft:
			counts.Draft++
		case models.DocumentStatusApproved:
			counts.Approved++
		}
	}
	return counts, nil
}

func (s *documentRepoStub) CountByStatus(ctx context.Context) (map[models.DocumentStatus]int, error) {
	counts := make(map[models.DocumentStatus]int)
	for _, doc := range s.docs {
		counts[doc.Status]++
	}
	return counts, nil
}

func containsDocumentStatus(statuses []models.DocumentStatus, status models.DocumentStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type collectionRepoStub struct {
	collections map[string]*models.TaqrirJamai
}

func newCollectionRepoStub() *collectionRepoStub {
	return &collectionRepoStub{collections: make(map[string]*models.TaqrirJamai)}
}

func (s *collectionRepoStub) Create(ctx context.Context, col *models.TaqrirJamai) error {
	if col.ID == "" {
		col.ID = uuid.NewString()
	}
	if col.Status == "" {
		col.Status = models.CollectionStatusDraft
	}
	copy := *col
	s.collections[col.ID] = &copy
	return nil
}

func (s *collectionRepoStub) GetByID(ctx context.Context, id string) (*models.TaqrirJamai, error) {
	if col, ok := s.collections[id]; ok {
		copy := *col
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *collectionRepoStub) List(ctx context.Context, filter models.CollectionFilter) ([]models.TaqrirJamai, error) {
	result := make([]models.TaqrirJamai, 0, len(s.collections))
	for _, col := range s.collections {
		if len(filter.Status) > 0 && !containsCollectionStatus(filter.Status, col.Status) {
			continue
		}
		result = append(result, *col)
	}
	return result, nil
}

func (s *collectionRepoStub) UpdateMetadata(ctx context.Context, col *models.TaqrirJamai) error {
	stored, ok := s.collections[col.ID]
	if !ok || stored.Status != models.CollectionStatusDraft {
		return sql.ErrNoRows
	}
	copy := *col
	copy.Status = stored.Status
	s.collections[col.ID] = &copy
	return nil
}

func (s *collectionRepoStub) UpdateStatus(ctx context.Context, id string, from, to models.CollectionStatus, approvedBy *string) error {
	stored, ok := s.collections[id]
	if !ok || stored.Status != from {
		return sql.ErrNoRows
	}
	stored.Status = to
	if approvedBy != nil {
		stored.ApprovedBy = approvedBy
	}
	return nil
}

func (s *collectionRepoStub) Delete(ctx context.Context, id string) error {
	if _, ok := s.collections[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.collections, id)
	return nil
}

func (s *collectionRepoStub) CountByStatus(ctx context.Context) (map[models.CollectionStatus]int, error) {
	counts := make(map[models.CollectionStatus]int)
	for _, col := range s.collections {
		counts[col.Status]++
	}
	return counts, nil
}

func containsCollectionStatus(statuses []models.CollectionStatus, status models.CollectionStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type verificationRepoStub struct {
	byDocument map[string]*models.MushohehVerification
	documents  *documentRepoStub
	// beforeFinalize runs at the top of FinalizeApproval so tests can
	// interleave a concurrent change between the eligibility check and
	// the finalize.
	beforeFinalize func()
}

func newVerificationRepoStub(documents *documentRepoStub) *verificationRepoStub {
	return &verificationRepoStub{
		byDocument: make(map[string]*models.MushohehVerification),
		documents:  documents,
	}
}

func (s *verificationRepoStub) GetByID(ctx context.Context, id string) (*models.MushohehVerification, error) {
	for _, record := range s.byDocument {
		if record.ID == id {
			copy := *record
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *verificationRepoStub) GetByDocument(ctx context.Context, docID string) (*models.MushohehVerification, error) {
	if record, ok := s.byDocument[docID]; ok {
		copy := *record
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *verificationRepoStub) Create(ctx context.Context, record *models.MushohehVerification) error {
	if _, ok := s.byDocument[record.TaqrirKhassID]; ok {
		return repository.ErrVersionConflict
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.Version = 1
	copy := *record
	s.byDocument[record.TaqrirKhassID] = &copy
	return nil
}

func (s *verificationRepoStub) Update(ctx context.Context, record *models.MushohehVerification, expectedVersion int) error {
	stored, ok := s.byDocument[record.TaqrirKhassID]
	if !ok || stored.Version != expectedVersion || stored.IsApproved {
		return repository.ErrVersionConflict
	}
	copy := *record
	copy.Version = expectedVersion + 1
	s.byDocument[record.TaqrirKhassID] = &copy
	record.Version = copy.Version
	return nil
}

func (s *verificationRepoStub) FinalizeApproval(ctx context.Context, recordID, docID, mushohehID string, expectedVersion int) error {
	if s.beforeFinalize != nil {
		s.beforeFinalize()
	}
	record, ok := s.byDocument[docID]
	if !ok || record.ID != recordID || record.Version != expectedVersion || record.IsApproved {
		return sql.ErrNoRows
	}
	doc, ok := s.documents.docs[docID]
	if !ok || doc.Status != models.DocumentStatusUnderReview {
		return sql.ErrNoRows
	}
	record.IsApproved = true
	record.Version++
	doc.Status = models.DocumentStatusApproved
	doc.VerifiedBy = &mushohehID
	now := time.Now().UTC()
	doc.VerifiedAt = &now
	return nil
}

type annotationRepoStub struct {
	annotations map[string]*models.ReferenceAnnotation
}

func newAnnotationRepoStub() *annotationRepoStub {
	return &annotationRepoStub{annotations: make(map[string]*models.ReferenceAnnotation)}
}

func (s *annotationRepoStub) Create(ctx context.Context, annotation *models.ReferenceAnnotation) error {
	if annotation.ID == "" {
		annotation.ID = uuid.NewString()
	}
	annotation.VerificationState = models.AnnotationStatusUnverified
	copy := *annotation
	s.annotations[annotation.ID] = &copy
	return nil
}

func (s *annotationRepoStub) GetByID(ctx context.Context, id string) (*models.ReferenceAnnotation, error) {
	if annotation, ok := s.annotations[id]; ok {
		copy := *annotation
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *annotationRepoStub) List(ctx context.Context, filter models.AnnotationFilter) ([]models.ReferenceAnnotation, error) {
	result := make([]models.ReferenceAnnotation, 0, len(s.annotations))
	for _, annotation := range s.annotations {
		if filter.TaqrirKhassID != "" && annotation.TaqrirKhassID != filter.TaqrirKhassID {
			continue
		}
		if filter.Section != "" && annotation.Section != filter.Section {
			continue
		}
		result = append(result, *annotation)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *annotationRepoStub) UpdateContent(ctx context.Context, annotation *models.ReferenceAnnotation) error {
	stored, ok := s.annotations[annotation.ID]
	if !ok || stored.VerificationState != models.AnnotationStatusUnverified {
		return sql.ErrNoRows
	}
	copy := *annotation
	copy.VerificationState = stored.VerificationState
	s.annotations[annotation.ID] = &copy
	return nil
}

func (s *annotationRepoStub) Verify(ctx context.Context, id string, status models.AnnotationStatus, notes, verifiedBy string) error {
	stored, ok := s.annotations[id]
	if !ok || stored.VerificationState != models.AnnotationStatusUnverified {
		return sql.ErrNoRows
	}
	stored.VerificationState = status
	stored.VerificationNotes = notes
	stored.VerifiedBy = &verifiedBy
	now := time.Now().UTC()
	stored.VerifiedAt = &now
	return nil
}

func (s *annotationRepoStub) CountByStatus(ctx context.Context, docID string) (map[models.AnnotationStatus]int, error) {
	counts := make(map[models.AnnotationStatus]int)
	for _, annotation := range s.annotations {
		if docID != "" && annotation.TaqrirKhassID != docID {
			continue
		}
		counts[annotation.VerificationState]++
	}
	return counts, nil
}

type auditStub struct {
	mu   sync.Mutex
	logs []*models.AuditLog
}

func (a *auditStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logs = append(a.logs, log)
	return nil
}

type notifyStub struct {
	mu     sync.Mutex
	events []NotificationEvent
}

func (n *notifyStub) Notify(event NotificationEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func mushohehClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleMushoheh}
}

func authorClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleAuthor}
}

func adminClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleAdmin}
}
