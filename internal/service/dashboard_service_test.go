package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bahtsul-masail/tashih-api/internal/models"
	appErrors "github.com/bahtsul-masail/tashih-api/pkg/errors"
)

type memoryCacheRepo struct {
	entries map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	delete(m.entries, pattern)
	return nil
}

func newDashboardFixture() (*DashboardService, *documentRepoStub, *collectionRepoStub, *annotationRepoStub, *verificationRepoStub) {
	docs := newDocumentRepoStub()
	collections := newCollectionRepoStub()
	annotations := newAnnotationRepoStub()
	records := newVerificationRepoStub(docs)
	svc := NewDashboardService(docs, collections, annotations, records, nil, nil, DashboardServiceConfig{})
	return svc, docs, collections, annotations, records
}

func pendingDoc(id string, updatedAt time.Time) *models.TaqrirKhass {
	return &models.TaqrirKhass{
		ID:          id,
		Title:       "Masalah " + id,
		NashMasalah: "nash",
		Jawaban:     "jawaban",
		Status:      models.DocumentStatusUnderReview,
		UpdatedAt:   updatedAt,
	}
}

func TestDashboardPendingVerificationOrdering(t *testing.T) {
	svc, docs, _, _, records := newDashboardFixture()
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	docs.docs["doc-old"] = pendingDoc("doc-old", now.AddDate(0, 0, -9))
	docs.docs["doc-new"] = pendingDoc("doc-new", now.AddDate(0, 0, -1))
	docs.docs["doc-stale"] = pendingDoc("doc-stale", now.AddDate(0, 0, -400))
	records.byDocument["doc-old"] = &models.MushohehVerification{
		ID:                  "ver-1",
		TaqrirKhassID:       "doc-old",
		NashMasalahVerified: true,
		Version:             1,
	}

	entries, err := svc.PendingVerification(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	require.Equal(t, "doc-stale", entries[0].Document.ID)
	require.Equal(t, maxPriorityScore, entries[0].PriorityScore)
	require.Equal(t, "doc-old", entries[1].Document.ID)
	require.Equal(t, 9, entries[1].PriorityScore)
	require.Equal(t, 50, entries[1].Progress)
	require.Equal(t, "doc-new", entries[2].Document.ID)
	require.Equal(t, 1, entries[2].PriorityScore)
	require.Equal(t, 0, entries[2].Progress)
}

func TestDashboardPendingVerificationTieBreak(t *testing.T) {
	svc, docs, _, _, _ := newDashboardFixture()
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	earlier := now.Add(-30 * time.Hour)
	later := now.Add(-26 * time.Hour)
	docs.docs["doc-a"] = pendingDoc("doc-a", later)
	docs.docs["doc-b"] = pendingDoc("doc-b", earlier)

	entries, err := svc.PendingVerification(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Same whole-day score, the older submission wins.
	require.Equal(t, entries[0].PriorityScore, entries[1].PriorityScore)
	require.Equal(t, "doc-b", entries[0].Document.ID)
}

func TestPriorityScoreBounds(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	require.Equal(t, 0, priorityScore(now, time.Time{}))
	require.Equal(t, 0, priorityScore(now, now.Add(time.Hour)))
	require.Equal(t, 0, priorityScore(now, now.Add(-23*time.Hour)))
	require.Equal(t, 7, priorityScore(now, now.AddDate(0, 0, -7)))
	require.Equal(t, maxPriorityScore, priorityScore(now, now.AddDate(-2, 0, 0)))
}

func TestDashboardStatistics(t *testing.T) {
	svc, docs, collections, annotations, _ := newDashboardFixture()

	docs.docs["doc-1"] = &models.TaqrirKhass{ID: "doc-1", Status: models.DocumentStatusDraft}
	docs.docs["doc-2"] = &models.TaqrirKhass{ID: "doc-2", Status: models.DocumentStatusUnderReview}
	docs.docs["doc-3"] = &models.TaqrirKhass{ID: "doc-3", Status: models.DocumentStatusApproved}
	collections.collections["col-1"] = &models.TaqrirJamai{ID: "col-1", Status: models.CollectionStatusPublished}
	annotations.annotations["ann-1"] = &models.ReferenceAnnotation{ID: "ann-1", TaqrirKhassID: "doc-3", VerificationState: models.AnnotationStatusVerified}
	annotations.annotations["ann-2"] = &models.ReferenceAnnotation{ID: "ann-2", TaqrirKhassID: "doc-3", VerificationState: models.AnnotationStatusUnverified}

	stats, hit, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	require.False(t, hit)
	require.Equal(t, 3, stats.TotalDocuments)
	require.Equal(t, 1, stats.DocumentsDraft)
	require.Equal(t, 1, stats.DocumentsUnderReview)
	require.Equal(t, 1, stats.DocumentsApproved)
	require.Equal(t, 1, stats.TotalCollections)
	require.Equal(t, 1, stats.CollectionsPublished)
	require.Equal(t, 1, stats.AnnotationsVerified)
	require.Equal(t, 1, stats.AnnotationsUnverified)
	require.Equal(t, 0, stats.AnnotationsIncorrect)
}

func TestDashboardWorkflowEventInvalidatesStatistics(t *testing.T) {
	docs := newDocumentRepoStub()
	collections := newCollectionRepoStub()
	annotations := newAnnotationRepoStub()
	records := newVerificationRepoStub(docs)
	cacheSvc := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, nil, true)
	svc := NewDashboardService(docs, collections, annotations, records, cacheSvc, nil, DashboardServiceConfig{})

	docs.docs["doc-1"] = &models.TaqrirKhass{ID: "doc-1", Status: models.DocumentStatusUnderReview}

	_, hit, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	require.False(t, hit)

	_, hit, err = svc.Statistics(context.Background())
	require.NoError(t, err)
	require.True(t, hit)

	// A workflow transition drops the cached payload so the next read
	// recomputes against the new state.
	docs.docs["doc-1"].Status = models.DocumentStatusApproved
	require.NoError(t, svc.HandleWorkflowEvent(context.Background(), NotificationEvent{
		Type:       NotificationDocumentApproved,
		Resource:   "taqrir_khass",
		ResourceID: "doc-1",
	}))

	stats, hit, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	require.False(t, hit)
	require.Equal(t, 1, stats.DocumentsApproved)
	require.Equal(t, 0, stats.DocumentsUnderReview)
}

func TestDashboardCompletedVerification(t *testing.T) {
	svc, docs, _, _, _ := newDashboardFixture()
	docs.docs["doc-1"] = &models.TaqrirKhass{ID: "doc-1", Status: models.DocumentStatusApproved}
	docs.docs["doc-2"] = &models.TaqrirKhass{ID: "doc-2", Status: models.DocumentStatusUnderReview}

	completed, err := svc.CompletedVerification(context.Background())
	require.NoError(t, err)
	require.Len(t, completed, 1)
	require.Equal(t, "doc-1", completed[0].ID)
}
