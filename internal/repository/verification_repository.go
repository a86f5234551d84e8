package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/bahtsul-masail/tashih-api/internal/models"
)

const verificationColumns = `id, taqrir_khass_id, mushoheh_id,
	nash_masalah_verified, nash_masalah_notes, khalfiyyah_verified, khalfiyyah_notes,
	munaqashah_verified, munaqashah_notes, jawaban_verified, jawaban_notes,
	talil_jawab_verified, talil_jawab_notes, referensi_verified, referensi_notes,
	is_approved, overall_notes, version, created_at, updated_at`

// ErrVersionConflict signals an optimistic-lock failure on the active
// verification record.
var ErrVersionConflict = errors.New("verification version conflict")

// VerificationRepository persists mushoheh verification records. A unique
// index on taqrir_khass_id keeps a single active record per document.
type VerificationRepository struct {
	db *sqlx.DB
}

// NewVerificationRepository constructs the repository.
func NewVerificationRepository(db *sqlx.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// GetByID fetches a verification record by identifier.
func (r *VerificationRepository) GetByID(ctx context.Context, id string) (*models.MushohehVerification, error) {
	query := `SELECT ` + verificationColumns + ` FROM mushoheh_verifications WHERE id = $1`
	var record models.MushohehVerification
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByDocument fetches the active record for a document.
func (r *VerificationRepository) GetByDocument(ctx context.Context, docID string) (*models.MushohehVerification, error) {
	query := `SELECT ` + verificationColumns + ` FROM mushoheh_verifications WHERE taqrir_khass_id = $1`
	var record models.MushohehVerification
	if err := r.db.GetContext(ctx, &record, query, docID); err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts the initial verification record for a document. A unique
// violation on taqrir_khass_id means another reviewer created the record
// first and is reported as ErrVersionConflict.
func (r *VerificationRepository) Create(ctx context.Context, record *models.MushohehVerification) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.Version = 1
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	const query = `INSERT INTO mushoheh_verifications
	(id, taqrir_khass_id, mushoheh_id,
	 nash_masalah_verified, nash_masalah_notes, khalfiyyah_verified, khalfiyyah_notes,
	 munaqashah_verified, munaqashah_notes, jawaban_verified, jawaban_notes,
	 talil_jawab_verified, talil_jawab_notes, referensi_verified, referensi_notes,
	 is_approved, overall_notes, version, created_at, updated_at)
	VALUES (:id, :taqrir_khass_id, :mushoheh_id,
	 :nash_masalah_verified, :nash_masalah_notes, :khalfiyyah_verified, :khalfiyyah_notes,
	 :munaqashah_verified, :munaqashah_notes, :jawaban_verified, :jawaban_notes,
	 :talil_jawab_verified, :talil_jawab_notes, :referensi_verified, :referensi_notes,
	 :is_approved, :overall_notes, :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrVersionConflict
		}
		return fmt.Errorf("create verification: %w", err)
	}
	return nil
}

// Update mutates the active record when the caller's version matches and the
// record has not been finalized. A stale version yields ErrVersionConflict.
func (r *VerificationRepository) Update(ctx context.Context, record *models.MushohehVerification, expectedVersion int) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `UPDATE mushoheh_verifications SET mushoheh_id = :mushoheh_id,
	nash_masalah_verified = :nash_masalah_verified, nash_masalah_notes = :nash_masalah_notes,
	khalfiyyah_verified = :khalfiyyah_verified, khalfiyyah_notes = :khalfiyyah_notes,
	munaqashah_verified = :munaqashah_verified, munaqashah_notes = :munaqashah_notes,
	jawaban_verified = :jawaban_verified, jawaban_notes = :jawaban_notes,
	talil_jawab_verified = :talil_jawab_verified, talil_jawab_notes = :talil_jawab_notes,
	referensi_verified = :referensi_verified, referensi_notes = :referensi_notes,
	overall_notes = :overall_notes, version = version + 1, updated_at = :updated_at
	WHERE id = :id AND version = :expected_version AND is_approved = FALSE`
	params := map[string]interface{}{
		"id":                    record.ID,
		"mushoheh_id":           record.MushohehID,
		"nash_masalah_verified": record.NashMasalahVerified,
		"nash_masalah_notes":    record.NashMasalahNotes,
		"khalfiyyah_verified":   record.KhalfiyyahVerified,
		"khalfiyyah_notes":      record.KhalfiyyahNotes,
		"munaqashah_verified":   record.MunaqashahVerified,
		"munaqashah_notes":      record.MunaqashahNotes,
		"jawaban_verified":      record.JawabanVerified,
		"jawaban_notes":         record.JawabanNotes,
		"talil_jawab_verified":  record.TalilJawabVerified,
		"talil_jawab_notes":     record.TalilJawabNotes,
		"referensi_verified":    record.ReferensiVerified,
		"referensi_notes":       record.ReferensiNotes,
		"overall_notes":         record.OverallNotes,
		"updated_at":            record.UpdatedAt,
		"expected_version":      expectedVersion,
	}
	result, err := r.db.NamedExecContext(ctx, query, params)
	if err != nil {
		return fmt.Errorf("update verification: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check verification update rows: %w", err)
	}
	if rows == 0 {
		return ErrVersionConflict
	}
	record.Version = expectedVersion + 1
	return nil
}

// FinalizeApproval marks the record approved and transitions the owning
// document to approved in a single transaction. The record must still carry
// the version the caller evaluated the section flags at, so an interleaved
// upsert between the eligibility check and the finalize cannot slip through.
// Either both rows change or neither does; a failed guard rolls back and
// returns sql.ErrNoRows.
func (r *VerificationRepository) FinalizeApproval(ctx context.Context, recordID, docID, mushohehID string, expectedVersion int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin finalize approval tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()

	result, err := tx.ExecContext(ctx,
		`UPDATE mushoheh_verifications SET is_approved = TRUE, version = version + 1, updated_at = $2 WHERE id = $1 AND version = $3 AND is_approved = FALSE`,
		recordID, now, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("finalize verification: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check finalize verification rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	result, err = tx.ExecContext(ctx,
		`UPDATE taqrir_khass SET status = $2, verified_by = $3, verified_at = $4, updated_at = $4 WHERE id = $1 AND status = $5`,
		docID, models.DocumentStatusApproved, mushohehID, now, models.DocumentStatusUnderReview,
	)
	if err != nil {
		return fmt.Errorf("approve taqrir khass: %w", err)
	}
	rows, err = result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check approve taqrir khass rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit finalize approval tx: %w", err)
	}
	return nil
}
