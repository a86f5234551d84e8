package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/bahtsul-masail/tashih-api/internal/dto"
	"github.com/bahtsul-masail/tashih-api/internal/models"
	appErrors "github.com/bahtsul-masail/tashih-api/pkg/errors"
)

type dashboardDocumentStore interface {
	List(ctx context.Context, filter models.DocumentFilter) ([]models.TaqrirKhass, error)
	CountByStatus(ctx context.Context) (map[models.DocumentStatus]int, error)
}

type collectionCounter interface {
	CountByStatus(ctx context.Context) (map[models.CollectionStatus]int, error)
}

type annotationCounter interface {
	CountByStatus(ctx context.Context, docID string) (map[models.AnnotationStatus]int, error)
}

const (
	statisticsCacheKey = "tashih:statistics"
	maxPriorityScore   = 100
)

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	StatisticsCacheTTL time.Duration
	PendingLimit       int
}

// DashboardService composes reviewer-facing queue and statistics payloads.
type DashboardService struct {
	documents   dashboardDocumentStore
	collections collectionCounter
	annotations annotationCounter
	records     verificationLookup
	cache       *CacheService
	logger      *zap.Logger
	now         func() time.Time
	cfg         DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(documents dashboardDocumentStore, collections collectionCounter, annotations annotationCounter, records verificationLookup, cache *CacheService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if cfg.StatisticsCacheTTL <= 0 {
		cfg.StatisticsCacheTTL = 5 * time.Minute
	}
	if cfg.PendingLimit <= 0 {
		cfg.PendingLimit = 50
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		documents:   documents,
		collections: collections,
		annotations: annotations,
		records:     records,
		cache:       cache,
		logger:      logger,
		now:         time.Now,
		cfg:         cfg,
	}
}

// PendingVerification returns documents under review ordered by priority.
// The score grows with waiting time so the oldest submissions surface first.
func (s *DashboardService) PendingVerification(ctx context.Context) ([]dto.PendingVerificationEntry, error) {
	docs, err := s.documents.List(ctx, models.DocumentFilter{
		Status: []models.DocumentStatus{models.DocumentStatusUnderReview},
		Limit:  s.cfg.PendingLimit,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending documents")
	}

	now := s.now().UTC()
	entries := make([]dto.PendingVerificationEntry, 0, len(docs))
	for i := range docs {
		doc := docs[i]
		var record *models.MushohehVerification
		if s.records != nil {
			if found, err := s.records.GetByDocument(ctx, doc.ID); err == nil {
				record = found
			}
		}
		entries = append(entries, dto.PendingVerificationEntry{
			Document:      &docs[i],
			Progress:      CalculateProgress(&doc, record),
			PriorityScore: priorityScore(now, doc.UpdatedAt),
			WaitingSince:  doc.UpdatedAt,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].PriorityScore != entries[j].PriorityScore {
			return entries[i].PriorityScore > entries[j].PriorityScore
		}
		return entries[i].WaitingSince.Before(entries[j].WaitingSince)
	})
	return entries, nil
}

// CompletedVerification returns approved documents, newest approvals first.
func (s *DashboardService) CompletedVerification(ctx context.Context) ([]models.TaqrirKhass, error) {
	docs, err := s.documents.List(ctx, models.DocumentFilter{
		Status: []models.DocumentStatus{models.DocumentStatusApproved},
		Limit:  s.cfg.PendingLimit,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list completed documents")
	}
	return docs, nil
}

// Statistics aggregates workflow counters, served from cache when warm. The
// second return value reports a cache hit.
func (s *DashboardService) Statistics(ctx context.Context) (*dto.WorkflowStatistics, bool, error) {
	var cached dto.WorkflowStatistics
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, statisticsCacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	docCounts, err := s.documents.CountByStatus(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count documents")
	}
	colCounts, err := s.collections.CountByStatus(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count collections")
	}
	annCounts, err := s.annotations.CountByStatus(ctx, "")
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count annotations")
	}

	stats := &dto.WorkflowStatistics{
		DocumentsDraft:         docCounts[models.DocumentStatusDraft],
		DocumentsUnderReview:   docCounts[models.DocumentStatusUnderReview],
		DocumentsNeedsRevision: docCounts[models.DocumentStatusNeedsRevision],
		DocumentsApproved:      docCounts[models.DocumentStatusApproved],
		CollectionsDraft:       colCounts[models.CollectionStatusDraft],
		CollectionsUnderReview: colCounts[models.CollectionStatusUnderReview],
		CollectionsApproved:    colCounts[models.CollectionStatusApproved],
		CollectionsPublished:   colCounts[models.CollectionStatusPublished],
		AnnotationsUnverified:  annCounts[models.AnnotationStatusUnverified],
		AnnotationsVerified:    annCounts[models.AnnotationStatusVerified],
		AnnotationsIncorrect:   annCounts[models.AnnotationStatusIncorrect],
	}
	stats.TotalDocuments = stats.DocumentsDraft + stats.DocumentsUnderReview + stats.DocumentsNeedsRevision + stats.DocumentsApproved
	stats.TotalCollections = stats.CollectionsDraft + stats.CollectionsUnderReview + stats.CollectionsApproved + stats.CollectionsPublished

	if s.cache != nil {
		if err := s.cache.Set(ctx, statisticsCacheKey, stats, s.cfg.StatisticsCacheTTL); err != nil {
			s.logger.Warn("failed to cache statistics", zap.Error(err))
		}
	}
	return stats, false, nil
}

// HandleWorkflowEvent consumes workflow notifications as the delivery sink:
// the event is logged and the statistics cache is dropped, since every
// transition changes the counters.
func (s *DashboardService) HandleWorkflowEvent(ctx context.Context, event NotificationEvent) error {
	s.logger.Info("workflow event",
		zap.String("type", event.Type),
		zap.String("resource", event.Resource),
		zap.String("resource_id", event.ResourceID),
		zap.String("actor_id", event.ActorID))
	s.InvalidateStatistics(ctx)
	return nil
}

// InvalidateStatistics drops the cached statistics payload after transitions.
func (s *DashboardService) InvalidateStatistics(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, statisticsCacheKey); err != nil {
		s.logger.Warn("failed to invalidate statistics cache", zap.Error(err))
	}
}

func priorityScore(now, waitingSince time.Time) int {
	if waitingSince.IsZero() || now.Before(waitingSince) {
		return 0
	}
	days := int(now.Sub(waitingSince).Hours() / 24)
	if days > maxPriorityScore {
		return maxPriorityScore
	}
	return days
}
