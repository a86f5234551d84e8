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

const taqrirJamaiColumns = `id, title, description, date, location, organizer, participants, status, created_by, approved_by, created_at, updated_at`

// TaqrirJamaiRepository persists collection aggregates.
type TaqrirJamaiRepository struct {
	db *sqlx.DB
}

// NewTaqrirJamaiRepository constructs the repository.
func NewTaqrirJamaiRepository(db *sqlx.DB) *TaqrirJamaiRepository {
	return &TaqrirJamaiRepository{db: db}
}

// Create inserts a new collection row.
func (r *TaqrirJamaiRepository) Create(ctx context.Context, col *models.TaqrirJamai) error {
	if col.ID == "" {
		col.ID = uuid.NewString()
	}
	if col.Status == "" {
		col.Status = models.CollectionStatusDraft
	}
	now := time.Now().UTC()
	if col.CreatedAt.IsZero() {
		col.CreatedAt = now
	}
	col.UpdatedAt = now
	const query = `INSERT INTO taqrir_jamai
	(id, title, description, date, location, organizer, participants, status, created_by, approved_by, created_at, updated_at)
	VALUES (:id, :title, :description, :date, :location, :organizer, :participants, :status, :created_by, :approved_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, col); err != nil {
		return fmt.Errorf("create taqrir jamai: %w", err)
	}
	return nil
}

// GetByID fetches a collection by identifier.
func (r *TaqrirJamaiRepository) GetByID(ctx context.Context, id string) (*models.TaqrirJamai, error) {
	query := `SELECT ` + taqrirJamaiColumns + ` FROM taqrir_jamai WHERE id = $1`
	var col models.TaqrirJamai
	if err := r.db.GetContext(ctx, &col, query, id); err != nil {
		return nil, err
	}
	return &col, nil
}

// List returns collections matching the filter, newest first.
func (r *TaqrirJamaiRepository) List(ctx context.Context, filter models.CollectionFilter) ([]models.TaqrirJamai, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 4)
	builder.WriteString(`SELECT ` + taqrirJamaiColumns + ` FROM taqrir_jamai`)

	conditions := make([]string, 0, 2)
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
	builder.WriteString(" ORDER BY created_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var collections []models.TaqrirJamai
	if err := r.db.SelectContext(ctx, &collections, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list taqrir jamai: %w", err)
	}
	return collections, nil
}

// UpdateMetadata persists editable fields while the collection is a draft.
// Returns sql.ErrNoRows when the row is missing or no longer a draft.
func (r *TaqrirJamaiRepository) UpdateMetadata(ctx context.Context, col *models.TaqrirJamai) error {
	col.UpdatedAt = time.Now().UTC()
	query := fmt.Sprintf(`UPDATE taqrir_jamai SET title = :title, description = :description, date = :date,
	location = :location, organizer = :organizer, participants = :participants, updated_at = :updated_at
	WHERE id = :id AND status = '%s'`, models.CollectionStatusDraft)
	result, err := r.db.NamedExecContext(ctx, query, col)
	if err != nil {
		return fmt.Errorf("update taqrir jamai: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check taqrir jamai update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateStatus transitions a collection guarding the current status in the
// WHERE clause. Returns sql.ErrNoRows when the guard does not hold.
func (r *TaqrirJamaiRepository) UpdateStatus(ctx context.Context, id string, from, to models.CollectionStatus, approvedBy *string) error {
	const query = `UPDATE taqrir_jamai SET status = $3, approved_by = COALESCE($4, approved_by), updated_at = $5 WHERE id = $1 AND status = $2`
	result, err := r.db.ExecContext(ctx, query, id, from, to, approvedBy, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update taqrir jamai status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check taqrir jamai status rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a collection row.
func (r *TaqrirJamaiRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM taqrir_jamai WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete taqrir jamai: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check taqrir jamai delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountByStatus aggregates collection counts per lifecycle state.
func (r *TaqrirJamaiRepository) CountByStatus(ctx context.Context) (map[models.CollectionStatus]int, error) {
	rows := []struct {
		Status models.CollectionStatus `db:"status"`
		Count  int                     `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, `SELECT status, COUNT(*) AS count FROM taqrir_jamai GROUP BY status`); err != nil {
		return nil, fmt.Errorf("count taqrir jamai by status: %w", err)
	}
	counts := make(map[models.CollectionStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
