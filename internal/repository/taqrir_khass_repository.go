package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bahtsul-masail/tashih-api/internal/models"
)

const taqrirKhassColumns = `id, taqrir_jamai_id, display_order, title, nash_masalah, khalfiyyah, munaqashah, jawaban, talil_jawab, referensi, status, verification_notes, created_by, verified_by, verified_at, created_at, updated_at`

// TaqrirKhassRepository persists issue documents.
type TaqrirKhassRepository struct {
	db *sqlx.DB
}

// NewTaqrirKhassRepository constructs the repository.
func NewTaqrirKhassRepository(db *sqlx.DB) *TaqrirKhassRepository {
	return &TaqrirKhassRepository{db: db}
}

// Create inserts a new document row.
func (r *TaqrirKhassRepository) Create(ctx context.Context, doc *models.TaqrirKhass) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.Status == "" {
		doc.Status = models.DocumentStatusDraft
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	const query = `INSERT INTO taqrir_khass
	(id, taqrir_jamai_id, display_order, title, nash_masalah, khalfiyyah, munaqashah, jawaban, talil_jawab, referensi, status, verification_notes, created_by, verified_by, verified_at, created_at, updated_at)
	VALUES (:id, :taqrir_jamai_id, :display_order, :title, :nash_masalah, :khalfiyyah, :munaqashah, :jawaban, :talil_jawab, :referensi, :status, :verification_notes, :created_by, :verified_by, :verified_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, doc); err != nil {
		return fmt.Errorf("create taqrir khass: %w", err)
	}
	return nil
}

// GetByID fetches a document by identifier.
func (r *TaqrirKhassRepository) GetByID(ctx context.Context, id string) (*models.TaqrirKhass, error) {
	query := `SELECT ` + taqrirKhassColumns + ` FROM taqrir_khass WHERE id = $1`
	var doc models.TaqrirKhass
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		return nil, err
	}
	return &doc, nil
}

// List returns documents matching the filter ordered by display order.
func (r *TaqrirKhassRepository) List(ctx context.Context, filter models.DocumentFilter) ([]models.TaqrirKhass, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 4)
	builder.WriteString(`SELECT ` + taqrirKhassColumns + ` FROM taqrir_khass`)

	conditions := make([]string, 0, 3)
	if filter.TaqrirJamaiID != "" {
		args = append(args, filter.TaqrirJamaiID)
		conditions = append(conditions, fmt.Sprintf("taqrir_jamai_id = $%d", len(args)))
	}
	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedBy != "" {
		args = append(args, filter.CreatedBy)
		conditions = append(conditions, fmt.Sprintf("created_by = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	// Display order is not unique; creation time breaks ties.
	builder.WriteString(" ORDER BY display_order ASC, created_at ASC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var docs []models.TaqrirKhass
	if err := r.db.SelectContext(ctx, &docs, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list taqrir khass: %w", err)
	}
	return docs, nil
}

// UpdateContent persists section edits while the document remains editable.
// Returns sql.ErrNoRows when the row is missing or no longer editable.
func (r *TaqrirKhassRepository) UpdateContent(ctx context.Context, doc *models.TaqrirKhass) error {
	doc.UpdatedAt = time.Now().UTC()
	query := fmt.Sprintf(`UPDATE taqrir_khass SET display_order = :display_order, title = :title,
	nash_masalah = :nash_masalah, khalfiyyah = :khalfiyyah, munaqashah = :munaqashah,
	jawaban = :jawaban, talil_jawab = :talil_jawab, referensi = :referensi, updated_at = :updated_at
	WHERE id = :id AND status IN ('%s', '%s')`,
		models.DocumentStatusDraft, models.DocumentStatusNeedsRevision)
	result, err := r.db.NamedExecContext(ctx, query, doc)
	if err != nil {
		return fmt.Errorf("update taqrir khass: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check taqrir khass update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateStatusParams groups mutable columns for status transitions.
type UpdateStatusParams struct {
	ID                string
	From              models.DocumentStatus
	To                models.DocumentStatus
	VerificationNotes *string
	VerifiedBy        *string
	VerifiedAt        *time.Time
}

// UpdateStatus transitions a document guarding the current status in the
// WHERE clause. Returns sql.ErrNoRows when the guard does not hold.
func (r *TaqrirKhassRepository) UpdateStatus(ctx context.Context, params UpdateStatusParams) error {
	const query = `UPDATE taqrir_khass SET status = $3,
	verification_notes = COALESCE($4, verification_notes),
	verified_by = COALESCE($5, verified_by),
	verified_at = COALESCE($6, verified_at),
	updated_at = $7
	WHERE id = $1 AND status = $2`
	result, err := r.db.ExecContext(ctx, query,
		params.ID, params.From, params.To,
		params.VerificationNotes, params.VerifiedBy, params.VerifiedAt,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update taqrir khass status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check taqrir khass status rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ChildCounts aggregates child document totals for collection gating.
func (r *TaqrirKhassRepository) ChildCounts(ctx context.Context, collectionID string) (models.CollectionChildCounts, error) {
	const query = `SELECT COUNT(*) AS total,
	COUNT(*) FILTER (WHERE status = 'draft') AS draft,
	COUNT(*) FILTER (WHERE status = 'approved') AS approved
	FROM taqrir_khass WHERE taqrir_jamai_id = $1`
	var counts models.CollectionChildCounts
	if err := r.db.GetContext(ctx, &counts, query, collectionID); err != nil {
		return counts, fmt.Errorf("count taqrir khass children: %w", err)
	}
	return counts, nil
}

// CountByStatus aggregates document counts per lifecycle state.
func (r *TaqrirKhassRepository) CountByStatus(ctx context.Context) (map[models.DocumentStatus]int, error) {
	rows := []struct {
		Status models.DocumentStatus `db:"status"`
		Count  int                   `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, `SELECT status, COUNT(*) AS count FROM taqrir_khass GROUP BY status`); err != nil {
		return nil, fmt.Errorf("count taqrir khass by status: %w", err)
	}
	counts := make(map[models.DocumentStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
