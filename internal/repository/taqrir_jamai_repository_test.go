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

var taqrirJamaiTestColumns = []string{
	"id", "title", "description", "date", "location", "organizer", "participants",
	"status", "created_by", "approved_by", "created_at", "updated_at",
}

func TestTaqrirJamaiRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTaqrirJamaiRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO taqrir_jamai")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	col := &models.TaqrirJamai{
		Title:     "Bahtsul Masail Kubro 2026",
		Location:  "Kediri",
		CreatedBy: "admin-1",
	}
	require.NoError(t, repo.Create(context.Background(), col))
	require.NotEmpty(t, col.ID)
	require.Equal(t, models.CollectionStatusDraft, col.Status)

	now := time.Now()
	rows := sqlmock.NewRows(taqrirJamaiTestColumns).
		AddRow(col.ID, "Bahtsul Masail Kubro 2026", "", nil, "Kediri", "", "",
			"draft", "admin-1", nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, description")).
		WithArgs(col.ID).
		WillReturnRows(rows)

	found, err := repo.GetByID(context.Background(), col.ID)
	require.NoError(t, err)
	require.Equal(t, col.ID, found.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaqrirJamaiRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTaqrirJamaiRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows(taqrirJamaiTestColumns).
		AddRow("col-1", "Sidang pleno", "", nil, "", "", "", "published", "admin-1", "mushoheh-1", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, description")).
		WithArgs("published").
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), models.CollectionFilter{
		Status: []models.CollectionStatus{models.CollectionStatusPublished},
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "col-1", list[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaqrirJamaiRepositoryUpdateMetadataGuard(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTaqrirJamaiRepository(db)
	col := &models.TaqrirJamai{ID: "col-1", Title: "Judul baru"}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE taqrir_jamai SET")).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateMetadata(context.Background(), col))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE taqrir_jamai SET")).WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.UpdateMetadata(context.Background(), col)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaqrirJamaiRepositoryUpdateStatusGuard(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTaqrirJamaiRepository(db)
	approver := "admin-1"

	mock.ExpectExec(regexp.QuoteMeta("UPDATE taqrir_jamai SET status")).
		WithArgs("col-1", models.CollectionStatusUnderReview, models.CollectionStatusApproved, &approver, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	err := repo.UpdateStatus(context.Background(), "col-1",
		models.CollectionStatusUnderReview, models.CollectionStatusApproved, &approver)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE taqrir_jamai SET status")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err = repo.UpdateStatus(context.Background(), "col-1",
		models.CollectionStatusDraft, models.CollectionStatusPublished, nil)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaqrirJamaiRepositoryCountByStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTaqrirJamaiRepository(db)
	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("draft", 2).
		AddRow("published", 1)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) AS count FROM taqrir_jamai")).
		WillReturnRows(rows)

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, counts[models.CollectionStatusDraft])
	require.Equal(t, 1, counts[models.CollectionStatusPublished])
	require.NoError(t, mock.ExpectationsWereMet())
}
