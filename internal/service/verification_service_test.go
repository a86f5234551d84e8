package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bahtsul-masail/tashih-api/internal/dto"
	"github.com/bahtsul-masail/tashih-api/internal/models"
	appErrors "github.com/bahtsul-masail/tashih-api/pkg/errors"
)

func fullDocument(id string) *models.TaqrirKhass {
	return &models.TaqrirKhass{
		ID:          id,
		Title:       "Hukum asuransi",
		NashMasalah: "nash",
		Khalfiyyah:  "khalfiyyah",
		Munaqashah:  "munaqashah",
		Jawaban:     "jawaban",
		TalilJawab:  "talil",
		Referensi:   "referensi",
		Status:      models.DocumentStatusUnderReview,
	}
}

func flagsFromMask(mask int) models.SectionFlags {
	return models.SectionFlags{
		NashMasalahVerified: mask&1 != 0,
		KhalfiyyahVerified:  mask&2 != 0,
		MunaqashahVerified:  mask&4 != 0,
		JawabanVerified:     mask&8 != 0,
		TalilJawabVerified:  mask&16 != 0,
		ReferensiVerified:   mask&32 != 0,
	}
}

func TestCalculateProgressAllSectionsPresent(t *testing.T) {
	doc := fullDocument("doc-1")
	for mask := 0; mask < 64; mask++ {
		record := &models.MushohehVerification{}
		record.Apply(flagsFromMask(mask))

		verified := 0
		for bit := 0; bit < 6; bit++ {
			if mask&(1<<bit) != 0 {
				verified++
			}
		}
		want := int(math.Round(float64(verified) / 6 * 100))
		require.Equal(t, want, CalculateProgress(doc, record), "mask %06b", mask)
	}
}

func TestCalculateProgressIgnoresAbsentSections(t *testing.T) {
	doc := &models.TaqrirKhass{
		ID:          "doc-1",
		NashMasalah: "nash",
		Jawaban:     "jawaban",
		Khalfiyyah:  "   ",
		Status:      models.DocumentStatusUnderReview,
	}
	record := &models.MushohehVerification{NashMasalahVerified: true, KhalfiyyahVerified: true}

	// Only the two present sections count; the blank one contributes nothing.
	require.Equal(t, 50, CalculateProgress(doc, record))

	record.JawabanVerified = true
	require.Equal(t, 100, CalculateProgress(doc, record))
}

func TestCalculateProgressEmptyDocument(t *testing.T) {
	doc := &models.TaqrirKhass{ID: "doc-1", Status: models.DocumentStatusDraft}
	require.Equal(t, 0, CalculateProgress(doc, &models.MushohehVerification{NashMasalahVerified: true}))
	require.Equal(t, 0, CalculateProgress(doc, nil))
}

func TestCanApproveRequiresMandatoryAndPresentSections(t *testing.T) {
	doc := fullDocument("doc-1")

	all := &models.MushohehVerification{}
	all.Apply(flagsFromMask(63))
	require.True(t, CanApprove(doc, all))

	// One present optional section left unverified blocks approval even
	// though both mandatory flags are set.
	partial := &models.MushohehVerification{}
	partial.Apply(flagsFromMask(63 &^ 32))
	require.False(t, CanApprove(doc, partial))

	noJawaban := &models.MushohehVerification{}
	noJawaban.Apply(flagsFromMask(63 &^ 8))
	require.False(t, CanApprove(doc, noJawaban))

	require.False(t, CanApprove(doc, nil))
}

func TestCanApproveFlagSweep(t *testing.T) {
	doc := fullDocument("doc-1")
	for mask := 0; mask < 64; mask++ {
		record := &models.MushohehVerification{}
		record.Apply(flagsFromMask(mask))
		// With every section present, only the full flag set approves.
		require.Equal(t, mask == 63, CanApprove(doc, record), "mask %06b", mask)
	}
}

func TestCanApproveSkipsAbsentOptionalSections(t *testing.T) {
	doc := &models.TaqrirKhass{
		ID:          "doc-1",
		NashMasalah: "nash",
		Jawaban:     "jawaban",
		Status:      models.DocumentStatusUnderReview,
	}
	record := &models.MushohehVerification{NashMasalahVerified: true, JawabanVerified: true}
	require.True(t, CanApprove(doc, record))
}

func TestVerificationServiceUpsertCreateAndUpdate(t *testing.T) {
	docs := newDocumentRepoStub()
	records := newVerificationRepoStub(docs)
	doc := fullDocument("doc-1")
	docs.docs[doc.ID] = doc
	svc := NewVerificationService(records, docs, &auditStub{}, nil, nil, nil)

	detail, err := svc.Upsert(context.Background(), dto.UpsertVerificationRequest{
		TaqrirKhassID:       "doc-1",
		NashMasalahVerified: true,
	}, mushohehClaims("mushoheh-1"))
	require.NoError(t, err)
	require.Equal(t, 1, detail.Verification.Version)
	require.Equal(t, 17, detail.Progress)
	require.False(t, detail.CanApprove)

	detail, err = svc.Upsert(context.Background(), dto.UpsertVerificationRequest{
		TaqrirKhassID:       "doc-1",
		Version:             1,
		NashMasalahVerified: true,
		KhalfiyyahVerified:  true,
		MunaqashahVerified:  true,
		JawabanVerified:     true,
		TalilJawabVerified:  true,
		ReferensiVerified:   true,
	}, mushohehClaims("mushoheh-1"))
	require.NoError(t, err)
	require.Equal(t, 2, detail.Verification.Version)
	require.Equal(t, 100, detail.Progress)
	require.True(t, detail.CanApprove)
}

func TestVerificationServiceUpsertStaleVersion(t *testing.T) {
	docs := newDocumentRepoStub()
	records := newVerificationRepoStub(docs)
	doc := fullDocument("doc-1")
	docs.docs[doc.ID] = doc
	svc := NewVerificationService(records, docs, nil, nil, nil, nil)

	_, err := svc.Upsert(context.Background(), dto.UpsertVerificationRequest{TaqrirKhassID: "doc-1"}, mushohehClaims("mushoheh-1"))
	require.NoError(t, err)

	// First reviewer advances the record to version 2.
	_, err = svc.Upsert(context.Background(), dto.UpsertVerificationRequest{
		TaqrirKhassID:       "doc-1",
		Version:             1,
		NashMasalahVerified: true,
	}, mushohehClaims("mushoheh-1"))
	require.NoError(t, err)

	// A second reviewer still holding version 1 gets a conflict.
	_, err = svc.Upsert(context.Background(), dto.UpsertVerificationRequest{
		TaqrirKhassID:   "doc-1",
		Version:         1,
		JawabanVerified: true,
	}, mushohehClaims("mushoheh-2"))
	require.Error(t, err)
	require.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestVerificationServiceUpsertRejectsDraftDocument(t *testing.T) {
	docs := newDocumentRepoStub()
	records := newVerificationRepoStub(docs)
	doc := fullDocument("doc-1")
	doc.Status = models.DocumentStatusDraft
	docs.docs[doc.ID] = doc
	svc := NewVerificationService(records, docs, nil, nil, nil, nil)

	_, err := svc.Upsert(context.Background(), dto.UpsertVerificationRequest{TaqrirKhassID: "doc-1"}, mushohehClaims("mushoheh-1"))
	require.Error(t, err)
	require.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

func TestVerificationServiceCompleteApproves(t *testing.T) {
	docs := newDocumentRepoStub()
	records := newVerificationRepoStub(docs)
	audit := &auditStub{}
	notify := &notifyStub{}
	doc := fullDocument("doc-1")
	docs.docs[doc.ID] = doc
	svc := NewVerificationService(records, docs, audit, notify, nil, nil)

	detail, err := svc.Upsert(context.Background(), dto.UpsertVerificationRequest{
		TaqrirKhassID:       "doc-1",
		NashMasalahVerified: true,
		KhalfiyyahVerified:  true,
		MunaqashahVerified:  true,
		JawabanVerified:     true,
		TalilJawabVerified:  true,
		ReferensiVerified:   true,
	}, mushohehClaims("mushoheh-1"))
	require.NoError(t, err)

	result, err := svc.Complete(context.Background(), detail.Verification.ID, mushohehClaims("mushoheh-1"))
	require.NoError(t, err)
	require.True(t, result.Verification.IsApproved)
	require.Equal(t, models.DocumentStatusApproved, docs.docs["doc-1"].Status)
	require.NotEmpty(t, notify.events)

	// Finalizing twice is rejected.
	_, err = svc.Complete(context.Background(), detail.Verification.ID, mushohehClaims("mushoheh-1"))
	require.Error(t, err)
	require.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

func TestVerificationServiceCompleteDetectsInterleavedUpsert(t *testing.T) {
	docs := newDocumentRepoStub()
	records := newVerificationRepoStub(docs)
	doc := fullDocument("doc-1")
	docs.docs[doc.ID] = doc
	svc := NewVerificationService(records, docs, nil, nil, nil, nil)

	detail, err := svc.Upsert(context.Background(), dto.UpsertVerificationRequest{
		TaqrirKhassID:       "doc-1",
		NashMasalahVerified: true,
		KhalfiyyahVerified:  true,
		MunaqashahVerified:  true,
		JawabanVerified:     true,
		TalilJawabVerified:  true,
		ReferensiVerified:   true,
	}, mushohehClaims("mushoheh-1"))
	require.NoError(t, err)

	// Another reviewer clears a mandatory flag after the eligibility check
	// but before the finalize commits. The version guard must refuse to
	// approve against the stale read.
	records.beforeFinalize = func() {
		stored := records.byDocument["doc-1"]
		stored.JawabanVerified = false
		stored.Version++
	}

	_, err = svc.Complete(context.Background(), detail.Verification.ID, mushohehClaims("mushoheh-2"))
	require.Error(t, err)
	require.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	require.Equal(t, models.DocumentStatusUnderReview, docs.docs["doc-1"].Status)
	require.False(t, records.byDocument["doc-1"].IsApproved)
}

func TestVerificationServiceCompleteRequiresGate(t *testing.T) {
	docs := newDocumentRepoStub()
	records := newVerificationRepoStub(docs)
	doc := fullDocument("doc-1")
	docs.docs[doc.ID] = doc
	svc := NewVerificationService(records, docs, nil, nil, nil, nil)

	detail, err := svc.Upsert(context.Background(), dto.UpsertVerificationRequest{
		TaqrirKhassID:       "doc-1",
		NashMasalahVerified: true,
		JawabanVerified:     true,
	}, mushohehClaims("mushoheh-1"))
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), detail.Verification.ID, mushohehClaims("mushoheh-1"))
	require.Error(t, err)
	require.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
	require.Equal(t, models.DocumentStatusUnderReview, docs.docs["doc-1"].Status)
}
