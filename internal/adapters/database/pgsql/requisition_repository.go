package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftbridge/staffing_app/internal/apperrors"
	"github.com/shiftbridge/staffing_app/internal/core/domain"
	"github.com/shiftbridge/staffing_app/internal/core/ports/repositories"
	"github.com/shiftbridge/staffing_app/internal/utils/pagination"
)

type PgxRequisitionRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRequisitionRepository creates a new repository for requisition data.
func NewPgxRequisitionRepository(pool *pgxpool.Pool) repositories.RequisitionRepositoryFacade {
	return &PgxRequisitionRepository{pool: pool}
}

var _ repositories.RequisitionRepositoryFacade = (*PgxRequisitionRepository)(nil)

const requisitionColumns = `requisition_id, client_id, title, location, discipline, experience_level, hourly_rate, permanent_position, reference_timezone, status, archived, created_at, created_by, last_updated_at, last_updated_by`

func scanRequisition(row pgx.Row) (*domain.Requisition, error) {
	var req domain.Requisition
	err := row.Scan(
		&req.RequisitionID,
		&req.ClientID,
		&req.Title,
		&req.Location,
		&req.Discipline,
		&req.ExperienceLevel,
		&req.HourlyRate,
		&req.PermanentPosition,
		&req.ReferenceTimezone,
		&req.Status,
		&req.Archived,
		&req.CreatedAt,
		&req.CreatedBy,
		&req.LastUpdatedAt,
		&req.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *PgxRequisitionRepository) SaveRequisition(ctx context.Context, requisition domain.Requisition) error {
	query := `
		INSERT INTO requisitions (` + requisitionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.pool.Exec(ctx, query,
		requisition.RequisitionID,
		requisition.ClientID,
		requisition.Title,
		requisition.Location,
		requisition.Discipline,
		requisition.ExperienceLevel,
		requisition.HourlyRate,
		requisition.PermanentPosition,
		requisition.ReferenceTimezone,
		requisition.Status,
		requisition.Archived,
		requisition.CreatedAt,
		requisition.CreatedBy,
		requisition.LastUpdatedAt,
		requisition.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save requisition %s: %w", requisition.RequisitionID, err)
	}
	return nil
}

func (r *PgxRequisitionRepository) FindRequisitionByID(ctx context.Context, requisitionID string) (*domain.Requisition, error) {
	query := `
		SELECT ` + requisitionColumns + `
		FROM requisitions
		WHERE requisition_id = $1 AND NOT archived;
	`
	req, err := scanRequisition(r.pool.QueryRow(ctx, query, requisitionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find requisition by ID %s: %w", requisitionID, err)
	}
	return req, nil
}

func (r *PgxRequisitionRepository) ListRequisitions(ctx context.Context, limit int, nextToken *string) ([]domain.Requisition, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []interface{}{limit + 1}
	query := `
		SELECT ` + requisitionColumns + `
		FROM requisitions
		WHERE NOT archived
	`
	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, requisition_id) < ($2, $3)`
		args = append(args, createdAt, id)
	}
	query += ` ORDER BY created_at DESC, requisition_id DESC LIMIT $1;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query requisitions: %w", err)
	}
	defer rows.Close()

	requisitions := []domain.Requisition{}
	for rows.Next() {
		req, err := scanRequisition(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan requisition row: %w", err)
		}
		requisitions = append(requisitions, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating requisition rows: %w", err)
	}

	var token *string
	if len(requisitions) > limit {
		requisitions = requisitions[:limit]
		last := requisitions[len(requisitions)-1]
		t := pagination.EncodeCursor(last.CreatedAt, last.RequisitionID)
		token = &t
	}
	return requisitions, token, nil
}

// ListAgingCandidates reads every open, non-permanent requisition with its
// fill statistics in a single pass so the close-out job sees one snapshot.
func (r *PgxRequisitionRepository) ListAgingCandidates(ctx context.Context) ([]repositories.RequisitionAging, error) {
	query := `
		SELECT r.requisition_id, r.client_id, r.title, r.location, r.discipline, r.experience_level,
			r.hourly_rate, r.permanent_position, r.reference_timezone, r.status, r.archived,
			r.created_at, r.created_by, r.last_updated_at, r.last_updated_by,
			COUNT(rd.recurrence_day_id) AS total_days,
			COUNT(rd.recurrence_day_id) FILTER (WHERE rd.status = 'FILLED') AS filled_days,
			COALESCE(MAX(rd.date), '') AS latest_date
		FROM requisitions r
		LEFT JOIN recurrence_days rd ON rd.requisition_id = r.requisition_id AND NOT rd.archived
		WHERE r.status = 'OPEN' AND NOT r.archived AND NOT r.permanent_position
		GROUP BY r.requisition_id;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query aging candidates: %w", err)
	}
	defer rows.Close()

	out := []repositories.RequisitionAging{}
	for rows.Next() {
		var a repositories.RequisitionAging
		if err := rows.Scan(
			&a.Requisition.RequisitionID,
			&a.Requisition.ClientID,
			&a.Requisition.Title,
			&a.Requisition.Location,
			&a.Requisition.Discipline,
			&a.Requisition.ExperienceLevel,
			&a.Requisition.HourlyRate,
			&a.Requisition.PermanentPosition,
			&a.Requisition.ReferenceTimezone,
			&a.Requisition.Status,
			&a.Requisition.Archived,
			&a.Requisition.CreatedAt,
			&a.Requisition.CreatedBy,
			&a.Requisition.LastUpdatedAt,
			&a.Requisition.LastUpdatedBy,
			&a.TotalDays,
			&a.FilledDays,
			&a.LatestDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan aging candidate row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating aging candidate rows: %w", err)
	}
	return out, nil
}

func (r *PgxRequisitionRepository) UpdateRequisition(ctx context.Context, requisition domain.Requisition) error {
	query := `
		UPDATE requisitions
		SET title = $1, location = $2, discipline = $3, experience_level = $4, hourly_rate = $5,
			permanent_position = $6, reference_timezone = $7, last_updated_at = $8, last_updated_by = $9
		WHERE requisition_id = $10 AND NOT archived;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		requisition.Title,
		requisition.Location,
		requisition.Discipline,
		requisition.ExperienceLevel,
		requisition.HourlyRate,
		requisition.PermanentPosition,
		requisition.ReferenceTimezone,
		requisition.LastUpdatedAt,
		requisition.LastUpdatedBy,
		requisition.RequisitionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update requisition %s: %w", requisition.RequisitionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxRequisitionRepository) UpdateRequisitionStatus(ctx context.Context, requisitionID string, status domain.RequisitionStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE requisitions
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE requisition_id = $4 AND NOT archived;
	`
	cmdTag, err := r.pool.Exec(ctx, query, status, updatedAt, updatedBy, requisitionID)
	if err != nil {
		return fmt.Errorf("failed to update requisition status %s: %w", requisitionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxRequisitionRepository) ArchiveRequisition(ctx context.Context, requisitionID string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE requisitions
		SET archived = TRUE, last_updated_at = $1, last_updated_by = $2
		WHERE requisition_id = $3 AND NOT archived;
	`
	cmdTag, err := r.pool.Exec(ctx, query, updatedAt, updatedBy, requisitionID)
	if err != nil {
		return fmt.Errorf("failed to archive requisition %s: %w", requisitionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
