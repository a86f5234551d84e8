package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/bahtsul-masail/tashih-api/internal/models"
)

var annotationTestColumns = []string{
	"id", "taqrir_khass_id", "section", "text", "reference_type", "source",
	"start_position", "end_position", "verification_status", "verification_notes",
	"verified_by", "verified_at", "created_at", "updated_at",
}

func TestAnnotationRepositoryCreateAndList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAnnotationRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reference_annotations")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	annotation := &models.ReferenceAnnotation{
		TaqrirKhassID: "doc-1",
		Section:       models.SectionReferensi,
		Text:          "Fathul Muin juz 2",
		ReferenceType: models.ReferenceTypeBook,
		Source:        "Fathul Muin",
	}
	require.NoError(t, repo.Create(context.Background(), annotation))
	require.NotEmpty(t, annotation.ID)
	require.Equal(t, models.AnnotationStatusUnverified, annotation.VerificationState)

	now := time.Now()
	rows := sqlmock.NewRows(annotationTestColumns).
		AddRow(annotation.ID, "doc-1", "referensi", "Fathul Muin juz 2", "book", "Fathul Muin",
			nil, nil, "unverified", "", nil, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM reference_annotations")).
		WithArgs("doc-1").
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), models.AnnotationFilter{TaqrirKhassID: "doc-1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, annotation.ID, list[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnotationRepositoryVerifyOneWay(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAnnotationRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reference_annotations SET verification_status")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	err := repo.Verify(context.Background(), "ann-1", models.AnnotationStatusVerified, "sesuai sumber", "mushoheh-1")
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE reference_annotations SET verification_status")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err = repo.Verify(context.Background(), "ann-1", models.AnnotationStatusIncorrect, "", "mushoheh-1")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnotationRepositoryUpdateContentGuard(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAnnotationRepository(db)
	annotation := &models.ReferenceAnnotation{
		ID:            "ann-1",
		Section:       models.SectionJawaban,
		Text:          "HR Bukhari",
		ReferenceType: models.ReferenceTypeHadith,
		Source:        "Shahih Bukhari",
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE reference_annotations SET section")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateContent(context.Background(), annotation))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE reference_annotations SET section")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.UpdateContent(context.Background(), annotation)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnotationRepositoryCountByStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAnnotationRepository(db)
	rows := sqlmock.NewRows([]string{"verification_status", "total"}).
		AddRow("unverified", 4).
		AddRow("verified", 2).
		AddRow("incorrect", 1)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT verification_status, COUNT(*) AS total")).
		WithArgs("doc-1").
		WillReturnRows(rows)

	counts, err := repo.CountByStatus(context.Background(), "doc-1")
	require.NoError(t, err)
	require.Equal(t, 4, counts[models.AnnotationStatusUnverified])
	require.Equal(t, 2, counts[models.AnnotationStatusVerified])
	require.Equal(t, 1, counts[models.AnnotationStatusIncorrect])
	require.NoError(t, mock.ExpectationsWereMet())
}
