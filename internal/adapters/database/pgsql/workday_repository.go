package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftbridge/staffing_app/internal/apperrors"
	"github.com/shiftbridge/staffing_app/internal/core/domain"
	"github.com/shiftbridge/staffing_app/internal/core/ports/repositories"
	"github.com/shiftbridge/staffing_app/internal/utils/timeconv"
)

type PgxWorkdayRepository struct {
	pool *pgxpool.Pool
}

// NewPgxWorkdayRepository creates a new repository for candidate-shift bindings.
func NewPgxWorkdayRepository(pool *pgxpool.Pool) repositories.WorkdayRepositoryFacade {
	return &PgxWorkdayRepository{pool: pool}
}

var _ repositories.WorkdayRepositoryFacade = (*PgxWorkdayRepository)(nil)

const workdayColumns = `workday_id, requisition_id, recurrence_day_id, candidate_id, timesheet_id, created_at, created_by, last_updated_at, last_updated_by`

func scanWorkday(row pgx.Row) (*domain.Workday, error) {
	var w domain.Workday
	// recurrence_day_id goes NULL when the shift row is deleted out from
	// under the claim; timesheet_id is NULL until the draft sheet is linked.
	var recurrenceDayID, timesheetID *string
	err := row.Scan(
		&w.WorkdayID,
		&w.RequisitionID,
		&recurrenceDayID,
		&w.CandidateID,
		&timesheetID,
		&w.CreatedAt,
		&w.CreatedBy,
		&w.LastUpdatedAt,
		&w.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if recurrenceDayID != nil {
		w.RecurrenceDayID = *recurrenceDayID
	}
	if timesheetID != nil {
		w.TimesheetID = *timesheetID
	}
	return &w, nil
}

// CreateClaim runs the whole claim as one transaction: insert the workday,
// provision or reuse the week's draft timesheet, link the two, and flip the
// shift to FILLED. Exclusivity rests on the unique index over
// recurrence_day_id; the serialization failure mode is a plain unique
// violation, surfaced as apperrors.ErrAlreadyClaimed.
func (r *PgxWorkdayRepository) CreateClaim(ctx context.Context, workday domain.Workday, draft *domain.Timesheet) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	insertWorkday := `
		INSERT INTO workdays (workday_id, requisition_id, recurrence_day_id, candidate_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, insertWorkday,
		workday.WorkdayID,
		workday.RequisitionID,
		workday.RecurrenceDayID,
		workday.CandidateID,
		workday.CreatedAt,
		workday.CreatedBy,
		workday.LastUpdatedAt,
		workday.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.ErrAlreadyClaimed
		}
		return fmt.Errorf("failed to insert workday %s: %w", workday.WorkdayID, err)
	}

	timesheetID := ""
	if draft != nil {
		hoursRaw, err := marshalHours(draft.HoursRaw)
		if err != nil {
			return err
		}
		// One sheet per (candidate, requisition, week): when the claim is the
		// second shift of an existing week the insert is a no-op and the
		// existing sheet wins.
		insertSheet := `
			INSERT INTO timesheets (timesheet_id, candidate_id, requisition_id, workday_id, week_begin_date, hours_raw, total_hours_worked, total_hours_billed, candidate_rate_base, candidate_rate_ot, status, validated, awaiting_client_signature, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
			ON CONFLICT (candidate_id, requisition_id, week_begin_date) DO NOTHING;
		`
		_, err = tx.Exec(ctx, insertSheet,
			draft.TimesheetID,
			draft.CandidateID,
			draft.RequisitionID,
			draft.WorkdayID,
			draft.WeekBeginDate,
			hoursRaw,
			draft.TotalHoursWorked,
			draft.TotalHoursBilled,
			draft.CandidateRateBase,
			draft.CandidateRateOT,
			draft.Status,
			draft.Validated,
			draft.AwaitingClientSignature,
			draft.CreatedAt,
			draft.CreatedBy,
			draft.LastUpdatedAt,
			draft.LastUpdatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to provision draft timesheet: %w", err)
		}

		selectSheet := `
			SELECT timesheet_id FROM timesheets
			WHERE candidate_id = $1 AND requisition_id = $2 AND week_begin_date = $3;
		`
		if err := tx.QueryRow(ctx, selectSheet, draft.CandidateID, draft.RequisitionID, draft.WeekBeginDate).Scan(&timesheetID); err != nil {
			return fmt.Errorf("failed to resolve week timesheet: %w", err)
		}

		linkWorkday := `UPDATE workdays SET timesheet_id = $1 WHERE workday_id = $2;`
		if _, err := tx.Exec(ctx, linkWorkday, timesheetID, workday.WorkdayID); err != nil {
			return fmt.Errorf("failed to link workday to timesheet: %w", err)
		}
	}

	fillShift := `
		UPDATE recurrence_days
		SET status = 'FILLED', last_updated_at = $1, last_updated_by = $2
		WHERE recurrence_day_id = $3 AND status = 'OPEN';
	`
	cmdTag, err := tx.Exec(ctx, fillShift, workday.LastUpdatedAt, workday.CandidateID, workday.RecurrenceDayID)
	if err != nil {
		return fmt.Errorf("failed to fill recurrence day %s: %w", workday.RecurrenceDayID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// The shift moved out of OPEN between the service's check and here.
		return apperrors.ErrConflict
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit claim for workday %s: %w", workday.WorkdayID, err)
	}
	return nil
}

// DeleteClaim is the transactional inverse: the workday goes, a still-DRAFT
// linked timesheet goes with it, and the shift reverts to OPEN.
func (r *PgxWorkdayRepository) DeleteClaim(ctx context.Context, workdayID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var recurrenceDayID, timesheetID *string
	selectWorkday := `SELECT recurrence_day_id, timesheet_id FROM workdays WHERE workday_id = $1 FOR UPDATE;`
	if err := tx.QueryRow(ctx, selectWorkday, workdayID).Scan(&recurrenceDayID, &timesheetID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to load workday %s: %w", workdayID, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM workdays WHERE workday_id = $1;`, workdayID); err != nil {
		return fmt.Errorf("failed to delete workday %s: %w", workdayID, err)
	}

	if timesheetID != nil {
		// Only while DRAFT, and only when no other workday still points at it.
		delSheet := `
			DELETE FROM timesheets
			WHERE timesheet_id = $1 AND status = 'DRAFT'
				AND NOT EXISTS (SELECT 1 FROM workdays WHERE timesheet_id = $1);
		`
		if _, err := tx.Exec(ctx, delSheet, *timesheetID); err != nil {
			return fmt.Errorf("failed to delete draft timesheet %s: %w", *timesheetID, err)
		}
	}

	// An orphaned workday (its shift row already deleted) has nothing to
	// reopen.
	if recurrenceDayID != nil {
		reopen := `
			UPDATE recurrence_days
			SET status = 'OPEN', last_updated_at = $1
			WHERE recurrence_day_id = $2 AND status = 'FILLED';
		`
		if _, err := tx.Exec(ctx, reopen, time.Now().UTC(), *recurrenceDayID); err != nil {
			return fmt.Errorf("failed to reopen recurrence day %s: %w", *recurrenceDayID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit claim delete %s: %w", workdayID, err)
	}
	return nil
}

func (r *PgxWorkdayRepository) FindWorkdayByID(ctx context.Context, workdayID string) (*domain.Workday, error) {
	query := `
		SELECT ` + workdayColumns + `
		FROM workdays
		WHERE workday_id = $1;
	`
	w, err := scanWorkday(r.pool.QueryRow(ctx, query, workdayID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find workday by ID %s: %w", workdayID, err)
	}
	return w, nil
}

func (r *PgxWorkdayRepository) FindWorkdayByRecurrenceDay(ctx context.Context, recurrenceDayID string) (*domain.Workday, error) {
	query := `
		SELECT ` + workdayColumns + `
		FROM workdays
		WHERE recurrence_day_id = $1;
	`
	w, err := scanWorkday(r.pool.QueryRow(ctx, query, recurrenceDayID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find workday for recurrence day %s: %w", recurrenceDayID, err)
	}
	return w, nil
}

func (r *PgxWorkdayRepository) ListWorkdaysForWeek(ctx context.Context, candidateID, requisitionID string, weekBegin time.Time) ([]domain.Workday, error) {
	weekEnd := weekBegin.AddDate(0, 0, 7)
	query := `
		SELECT w.workday_id, w.requisition_id, w.recurrence_day_id, w.candidate_id, w.timesheet_id, w.created_at, w.created_by, w.last_updated_at, w.last_updated_by
		FROM workdays w
		JOIN recurrence_days rd ON rd.recurrence_day_id = w.recurrence_day_id
		WHERE w.candidate_id = $1 AND w.requisition_id = $2
			AND rd.date >= $3 AND rd.date < $4
		ORDER BY rd.date;
	`
	rows, err := r.pool.Query(ctx, query, candidateID, requisitionID, weekBegin.Format(timeconv.DateLayout), weekEnd.Format(timeconv.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query workdays for week: %w", err)
	}
	defer rows.Close()

	workdays := []domain.Workday{}
	for rows.Next() {
		w, err := scanWorkday(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workday row: %w", err)
		}
		workdays = append(workdays, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workday rows: %w", err)
	}
	return workdays, nil
}
