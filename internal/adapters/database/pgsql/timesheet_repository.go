package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftbridge/staffing_app/internal/apperrors"
	"github.com/shiftbridge/staffing_app/internal/core/domain"
	"github.com/shiftbridge/staffing_app/internal/core/ports/repositories"
	"github.com/shiftbridge/staffing_app/internal/utils/pagination"
)

type PgxTimesheetRepository struct {
	pool *pgxpool.Pool
}

// NewPgxTimesheetRepository creates a new repository for timesheet data.
func NewPgxTimesheetRepository(pool *pgxpool.Pool) repositories.TimesheetRepositoryFacade {
	return &PgxTimesheetRepository{pool: pool}
}

var _ repositories.TimesheetRepositoryFacade = (*PgxTimesheetRepository)(nil)

const timesheetColumns = `timesheet_id, candidate_id, requisition_id, workday_id, week_begin_date, hours_raw, total_hours_worked, total_hours_billed, candidate_rate_base, candidate_rate_ot, status, validated, awaiting_client_signature, created_at, created_by, last_updated_at, last_updated_by`

// marshalHours renders reported entries for the hours_raw jsonb column.
func marshalHours(entries []domain.HoursEntry) ([]byte, error) {
	if entries == nil {
		entries = []domain.HoursEntry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal hours entries: %w", err)
	}
	return raw, nil
}

func scanTimesheet(row pgx.Row) (*domain.Timesheet, error) {
	var t domain.Timesheet
	var hoursRaw []byte
	err := row.Scan(
		&t.TimesheetID,
		&t.CandidateID,
		&t.RequisitionID,
		&t.WorkdayID,
		&t.WeekBeginDate,
		&hoursRaw,
		&t.TotalHoursWorked,
		&t.TotalHoursBilled,
		&t.CandidateRateBase,
		&t.CandidateRateOT,
		&t.Status,
		&t.Validated,
		&t.AwaitingClientSignature,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if len(hoursRaw) > 0 {
		if err := json.Unmarshal(hoursRaw, &t.HoursRaw); err != nil {
			return nil, fmt.Errorf("failed to unmarshal hours entries for timesheet %s: %w", t.TimesheetID, err)
		}
	}
	if t.HoursRaw == nil {
		t.HoursRaw = []domain.HoursEntry{}
	}
	return &t, nil
}

func (r *PgxTimesheetRepository) SaveTimesheet(ctx context.Context, sheet domain.Timesheet) error {
	hoursRaw, err := marshalHours(sheet.HoursRaw)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO timesheets (` + timesheetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err = r.pool.Exec(ctx, query,
		sheet.TimesheetID,
		sheet.CandidateID,
		sheet.RequisitionID,
		sheet.WorkdayID,
		sheet.WeekBeginDate,
		hoursRaw,
		sheet.TotalHoursWorked,
		sheet.TotalHoursBilled,
		sheet.CandidateRateBase,
		sheet.CandidateRateOT,
		sheet.Status,
		sheet.Validated,
		sheet.AwaitingClientSignature,
		sheet.CreatedAt,
		sheet.CreatedBy,
		sheet.LastUpdatedAt,
		sheet.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save timesheet %s: %w", sheet.TimesheetID, err)
	}
	return nil
}

func (r *PgxTimesheetRepository) FindTimesheetByID(ctx context.Context, timesheetID string) (*domain.Timesheet, error) {
	query := `
		SELECT ` + timesheetColumns + `
		FROM timesheets
		WHERE timesheet_id = $1;
	`
	t, err := scanTimesheet(r.pool.QueryRow(ctx, query, timesheetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find timesheet by ID %s: %w", timesheetID, err)
	}
	return t, nil
}

func (r *PgxTimesheetRepository) FindTimesheetForWeek(ctx context.Context, candidateID, requisitionID string, weekBegin time.Time) (*domain.Timesheet, error) {
	query := `
		SELECT ` + timesheetColumns + `
		FROM timesheets
		WHERE candidate_id = $1 AND requisition_id = $2 AND week_begin_date = $3;
	`
	t, err := scanTimesheet(r.pool.QueryRow(ctx, query, candidateID, requisitionID, weekBegin))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find timesheet for week: %w", err)
	}
	return t, nil
}

func (r *PgxTimesheetRepository) ListTimesheetsByStatus(ctx context.Context, status domain.TimesheetStatus, limit int, nextToken *string) ([]domain.Timesheet, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []interface{}{status, limit + 1}
	query := `
		SELECT ` + timesheetColumns + `
		FROM timesheets
		WHERE status = $1
	`
	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, timesheet_id) < ($3, $4)`
		args = append(args, createdAt, id)
	}
	query += ` ORDER BY created_at DESC, timesheet_id DESC LIMIT $2;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query timesheets: %w", err)
	}
	defer rows.Close()

	sheets := []domain.Timesheet{}
	for rows.Next() {
		t, err := scanTimesheet(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan timesheet row: %w", err)
		}
		sheets = append(sheets, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating timesheet rows: %w", err)
	}

	var token *string
	if len(sheets) > limit {
		sheets = sheets[:limit]
		last := sheets[len(sheets)-1]
		t := pagination.EncodeCursor(last.CreatedAt, last.TimesheetID)
		token = &t
	}
	return sheets, token, nil
}

// UpdateTimesheetSubmission persists the candidate's hours and the
// DRAFT -> PENDING move in one statement, guarded on the current status.
func (r *PgxTimesheetRepository) UpdateTimesheetSubmission(ctx context.Context, sheet domain.Timesheet) error {
	hoursRaw, err := marshalHours(sheet.HoursRaw)
	if err != nil {
		return err
	}
	query := `
		UPDATE timesheets
		SET hours_raw = $1, total_hours_worked = $2, total_hours_billed = $3,
			candidate_rate_base = $4, candidate_rate_ot = $5, status = $6,
			validated = $7, awaiting_client_signature = $8,
			last_updated_at = $9, last_updated_by = $10
		WHERE timesheet_id = $11 AND status = 'DRAFT';
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		hoursRaw,
		sheet.TotalHoursWorked,
		sheet.TotalHoursBilled,
		sheet.CandidateRateBase,
		sheet.CandidateRateOT,
		sheet.Status,
		sheet.Validated,
		sheet.AwaitingClientSignature,
		sheet.LastUpdatedAt,
		sheet.LastUpdatedBy,
		sheet.TimesheetID,
	)
	if err != nil {
		return fmt.Errorf("failed to submit timesheet %s: %w", sheet.TimesheetID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

// TransitionTimesheetStatus moves a sheet between statuses and appends the
// audit record in one transaction. The guard on the expected current status
// turns a lost race into apperrors.ErrConflict instead of a double apply.
func (r *PgxTimesheetRepository) TransitionTimesheetStatus(ctx context.Context, timesheetID string, from, to domain.TimesheetStatus, actorID, note string, at time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	update := `
		UPDATE timesheets
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE timesheet_id = $4 AND status = $5;
	`
	cmdTag, err := tx.Exec(ctx, update, to, at, actorID, timesheetID, from)
	if err != nil {
		return fmt.Errorf("failed to transition timesheet %s: %w", timesheetID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM timesheets WHERE timesheet_id = $1);`, timesheetID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check timesheet %s: %w", timesheetID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrConflict
	}

	audit := `
		INSERT INTO timesheet_audits (audit_id, timesheet_id, from_status, to_status, actor_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	if _, err := tx.Exec(ctx, audit, uuid.NewString(), timesheetID, from, to, actorID, note, at); err != nil {
		return fmt.Errorf("failed to append timesheet audit %s: %w", timesheetID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit timesheet transition %s: %w", timesheetID, err)
	}
	return nil
}

func (r *PgxTimesheetRepository) UpdateTimesheetValidated(ctx context.Context, timesheetID string, validated bool, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE timesheets
		SET validated = $1, last_updated_at = $2, last_updated_by = $3
		WHERE timesheet_id = $4;
	`
	cmdTag, err := r.pool.Exec(ctx, query, validated, updatedAt, updatedBy, timesheetID)
	if err != nil {
		return fmt.Errorf("failed to update timesheet validated flag %s: %w", timesheetID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTimesheetRepository) ListAuditTrail(ctx context.Context, timesheetID string) ([]domain.TimesheetAudit, error) {
	query := `
		SELECT audit_id, timesheet_id, from_status, to_status, actor_id, note, created_at
		FROM timesheet_audits
		WHERE timesheet_id = $1
		ORDER BY created_at, audit_id;
	`
	rows, err := r.pool.Query(ctx, query, timesheetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query timesheet audits for %s: %w", timesheetID, err)
	}
	defer rows.Close()

	audits := []domain.TimesheetAudit{}
	for rows.Next() {
		var a domain.TimesheetAudit
		if err := rows.Scan(
			&a.AuditID,
			&a.TimesheetID,
			&a.FromStatus,
			&a.ToStatus,
			&a.ActorID,
			&a.Note,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan timesheet audit row: %w", err)
		}
		audits = append(audits, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating timesheet audit rows: %w", err)
	}
	return audits, nil
}
