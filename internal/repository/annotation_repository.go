package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/bahtsul-masail/tashih-api/internal/models"
)

const annotationColumns = `id, taqrir_khass_id, section, text, reference_type, source,
	start_position, end_position, verification_status, verification_notes,
	verified_by, verified_at, created_at, updated_at`

// AnnotationRepository persists reference annotations for the citation ledger.
type AnnotationRepository struct {
	db *sqlx.DB
}

// NewAnnotationRepository constructs the repository.
func NewAnnotationRepository(db *sqlx.DB) *AnnotationRepository {
	return &AnnotationRepository{db: db}
}

// Create inserts an annotation in the unverified state.
func (r *AnnotationRepository) Create(ctx context.Context, annotation *models.ReferenceAnnotation) error {
	if annotation.ID == "" {
		annotation.ID = uuid.NewString()
	}
	annotation.VerificationState = models.AnnotationStatusUnverified
	now := time.Now().UTC()
	annotation.CreatedAt = now
	annotation.UpdatedAt = now
	const query = `INSERT INTO reference_annotations
	(id, taqrir_khass_id, section, text, reference_type, source,
	 start_position, end_position, verification_status, verification_notes, created_at, updated_at)
	VALUES (:id, :taqrir_khass_id, :section, :text, :reference_type, :source,
	 :start_position, :end_position, :verification_status, :verification_notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, annotation); err != nil {
		return fmt.Errorf("create annotation: %w", err)
	}
	return nil
}

// GetByID fetches an annotation by identifier.
func (r *AnnotationRepository) GetByID(ctx context.Context, id string) (*models.ReferenceAnnotation, error) {
	query := `SELECT ` + annotationColumns + ` FROM reference_annotations WHERE id = $1`
	var annotation models.ReferenceAnnotation
	if err := r.db.GetContext(ctx, &annotation, query, id); err != nil {
		return nil, err
	}
	return &annotation, nil
}

// List returns annotations matching the filter ordered by section then
// position within the section.
func (r *AnnotationRepository) List(ctx context.Context, filter models.AnnotationFilter) ([]models.ReferenceAnnotation, error) {
	conditions := []string{}
	args := []interface{}{}
	idx := 1

	if filter.TaqrirKhassID != "" {
		conditions = append(conditions, fmt.Sprintf("taqrir_khass_id = $%d", idx))
		args = append(args, filter.TaqrirKhassID)
		idx++
	}
	if filter.Section != "" {
		conditions = append(conditions, fmt.Sprintf("section = $%d", idx))
		args = append(args, filter.Section)
		idx++
	}
	if len(filter.Status) > 0 {
		statuses := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			statuses[i] = string(s)
		}
		conditions = append(conditions, fmt.Sprintf("verification_status = ANY($%d)", idx))
		args = append(args, pq.Array(statuses))
		idx++
	}

	query := `SELECT ` + annotationColumns + ` FROM reference_annotations`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY section ASC, start_position ASC NULLS LAST, created_at ASC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	annotations := []models.ReferenceAnnotation{}
	if err := r.db.SelectContext(ctx, &annotations, query, args...); err != nil {
		return nil, fmt.Errorf("list annotations: %w", err)
	}
	return annotations, nil
}

// UpdateContent mutates the citation fields while the annotation is still
// unverified. Returns sql.ErrNoRows once the annotation has been classified.
func (r *AnnotationRepository) UpdateContent(ctx context.Context, annotation *models.ReferenceAnnotation) error {
	annotation.UpdatedAt = time.Now().UTC()
	const query = `UPDATE reference_annotations SET section = :section, text = :text,
	reference_type = :reference_type, source = :source,
	start_position = :start_position, end_position = :end_position, updated_at = :updated_at
	WHERE id = :id AND verification_status = 'unverified'`
	result, err := r.db.NamedExecContext(ctx, query, annotation)
	if err != nil {
		return fmt.Errorf("update annotation: %w", err)
	}
	return requireRowAffected(result)
}

// Verify classifies an unverified annotation as verified or incorrect.
// The transition is one way; a second attempt returns sql.ErrNoRows.
func (r *AnnotationRepository) Verify(ctx context.Context, id string, status models.AnnotationStatus, notes, verifiedBy string) error {
	now := time.Now().UTC()
	const query = `UPDATE reference_annotations SET verification_status = $2,
	verification_notes = $3, verified_by = $4, verified_at = $5, updated_at = $5
	WHERE id = $1 AND verification_status = 'unverified'`
	result, err := r.db.ExecContext(ctx, query, id, status, notes, verifiedBy, now)
	if err != nil {
		return fmt.Errorf("verify annotation: %w", err)
	}
	return requireRowAffected(result)
}

// Delete removes an annotation regardless of state.
func (r *AnnotationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reference_annotations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete annotation: %w", err)
	}
	return requireRowAffected(result)
}

func requireRowAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountByStatus tallies annotations per verification status for a document.
// An empty document id tallies across the whole ledger.
func (r *AnnotationRepository) CountByStatus(ctx context.Context, docID string) (map[models.AnnotationStatus]int, error) {
	query := `SELECT verification_status, COUNT(*) AS total FROM reference_annotations`
	args := []interface{}{}
	if docID != "" {
		query += ` WHERE taqrir_khass_id = $1`
		args = append(args, docID)
	}
	query += ` GROUP BY verification_status`

	rows := []struct {
		Status models.AnnotationStatus `db:"verification_status"`
		Total  int                     `db:"total"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("count annotations: %w", err)
	}
	counts := make(map[models.AnnotationStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
